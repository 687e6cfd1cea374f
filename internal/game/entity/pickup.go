package entity

import (
	"math"

	"github.com/docbreaker-games/docbreaker/internal/game/render"
)

const (
	starColor        = "#4A90E2"
	starLifespan     = 120
	jobChangePenalty = -20

	newbieColor    = "#FFA500"
	newbieVariants = 2

	aiItemColor    = "#00FFFF"
	aiItemLifespan = 180
)

// Star is the mail that sends the player to a new job.
type Star struct {
	body
	twinkle float64
}

func NewStar(env *Env) *Star {
	r := env.Rand
	size := r.Float64()*10 + 20
	x, y := spawnPoint(env, size)
	return &Star{body: body{
		X:        x,
		Y:        y,
		Size:     size,
		VX:       r.Float64() - 0.5,
		VY:       r.Float64() - 0.5,
		Damping:  0.9,
		Lifespan: starLifespan,
	}}
}

func (s *Star) Update(env *Env) bool {
	s.Age++
	s.twinkle += 0.2
	if s.Clicked || s.expired() {
		return false
	}
	s.move(env.Field)
	return true
}

func (s *Star) Click() bool {
	if s.Clicked {
		return false
	}
	s.Clicked = true
	return true
}

// Score is the cost of the job change the star triggers.
func (s *Star) Score() int {
	return jobChangePenalty
}

func (s *Star) Draw(scene *render.Scene) {
	alpha := 0.7 + 0.3*math.Sin(s.twinkle)
	c := s.sprite(render.SpriteStar, 0, starColor, alpha)
	c.Rotation = s.twinkle
	scene.Add(c)
}

// Newbie is a new hire who, when clicked, dumps a pile of paperwork on
// the stack.
type Newbie struct {
	body
	Variant int
}

func NewNewbie(env *Env) *Newbie {
	r := env.Rand
	size := r.Float64()*30 + 50
	x, y := spawnPoint(env, size)
	return &Newbie{
		body: body{
			X:        x,
			Y:        y,
			Size:     size,
			VX:       (r.Float64() - 0.5) * 1.5,
			VY:       (r.Float64() - 0.5) * 1.5,
			Damping:  0.8,
			Lifespan: r.Float64()*180 + 120,
		},
		Variant: int(r.Float64()*newbieVariants) % newbieVariants,
	}
}

func (n *Newbie) Update(env *Env) bool {
	n.Age++
	if n.Clicked || n.expired() {
		return false
	}
	n.move(env.Field)
	return true
}

func (n *Newbie) Click() bool {
	if n.Clicked {
		return false
	}
	n.Clicked = true
	return true
}

func (n *Newbie) Score() int {
	return 0
}

func (n *Newbie) Draw(scene *render.Scene) {
	if n.Clicked {
		return
	}
	alpha := math.Max(0.3, 1-float64(n.Age)/n.Lifespan)
	scene.Add(n.sprite(render.SpriteNewbie, n.Variant, newbieColor, alpha))
}

// AIItem grants an AI token when collected.
type AIItem struct {
	body
	pulse float64
}

func NewAIItem(env *Env) *AIItem {
	size := env.Rand.Float64()*10 + 25
	x, y := spawnPoint(env, size)
	return &AIItem{body: body{X: x, Y: y, Size: size, Lifespan: aiItemLifespan}}
}

func (a *AIItem) Update(*Env) bool {
	a.Age++
	a.pulse += 0.1
	return !a.expired() && !a.Clicked
}

func (a *AIItem) IsClicked(x, y float64) bool {
	return !a.Clicked && a.body.IsClicked(x, y)
}

func (a *AIItem) Click() bool {
	if a.Clicked {
		return false
	}
	a.Clicked = true
	return true
}

func (a *AIItem) Score() int {
	return 0
}

func (a *AIItem) Draw(scene *render.Scene) {
	if a.Clicked {
		return
	}
	alpha := math.Max(0.1, 1-float64(a.Age)/a.Lifespan)
	pulse := math.Sin(a.pulse)*0.2 + 0.8
	scene.Add(a.sprite(render.SpriteAIItem, 0, aiItemColor, alpha*pulse))
}
