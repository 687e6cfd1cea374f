package entity

import (
	"math"

	"github.com/docbreaker-games/docbreaker/internal/game/render"
)

var palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
	"#F8C471", "#82E0AA", "#F1948A", "#85C1E9", "#D7BDE2",
	"#A9DFBF", "#F9E79F", "#AED6F1", "#F5B7B1", "#A3E4D7",
	"#FAD7A0", "#D2B4DE", "#ABEBC6", "#F9E79F", "#AED6F1",
	"#FF9FF3", "#54A0FF", "#5F27CD", "#00D2D3", "#FF9F43",
}

// Document is the regular falling paper. Left alone until its lifespan
// runs out it sinks into the stack.
type Document struct {
	body
	Color   string
	Sinking bool
}

var _ Clickable = (*Document)(nil)

// NewDocument spawns a document whose lifespan shrinks as score grows.
func NewDocument(env *Env, score int) *Document {
	r := env.Rand
	size := r.Float64()*40 + 30
	x, y := spawnPoint(env, size)
	color := palette[int(r.Float64()*float64(len(palette)))%len(palette)]
	difficulty := math.Max(0.5, 1-float64(score)/500)
	lifespan := math.Max(180, (r.Float64()*90+120)*difficulty)

	return &Document{
		body: body{
			X:        x,
			Y:        y,
			Size:     size,
			VX:       (r.Float64() - 0.5) * 2,
			VY:       (r.Float64() - 0.5) * 2,
			Damping:  0.8,
			Lifespan: lifespan,
		},
		Color: color,
	}
}

func (d *Document) Update(env *Env) bool {
	d.Age++
	if d.Clicked {
		return false
	}
	if d.expired() && !d.Sinking {
		d.Sinking = true
		d.Y = env.Field.Height - d.Size
		env.Emit(Event{Kind: EventSunk, X: d.X, Y: d.Y, Size: d.Size, Color: d.Color})
	}
	if d.Sinking {
		return false
	}
	d.move(env.Field)
	return true
}

func (d *Document) Click() bool {
	if d.Clicked || d.Sinking {
		return false
	}
	d.Clicked = true
	return true
}

func (d *Document) Tint() string {
	return d.Color
}

// Score rewards small, short lived documents.
func (d *Document) Score() int {
	sizeMul := math.Max(0.5, (70-d.Size)/40)
	timeMul := math.Max(0.5, (180-d.Lifespan)/120)
	return int(math.Round(10 * sizeMul * timeMul))
}

func (d *Document) Draw(scene *render.Scene) {
	if d.Clicked {
		return
	}
	alpha := 0.3
	if !d.Sinking {
		alpha = math.Max(0.3, 1-float64(d.Age)/d.Lifespan)
	}
	scene.Add(d.sprite(render.SpriteDocument, 0, d.Color, alpha))
}

const (
	aiDocumentColor    = "#00FF00"
	aiDocumentLifespan = 300
	aiDocumentScore    = 30
)

// AIDocument is a stationary bonus document worth a fixed score.
type AIDocument struct {
	body
	pulse float64
}

var _ Clickable = (*AIDocument)(nil)

func NewAIDocument(env *Env) *AIDocument {
	size := env.Rand.Float64()*20 + 40
	x, y := spawnPoint(env, size)
	return &AIDocument{body: body{X: x, Y: y, Size: size, Lifespan: aiDocumentLifespan}}
}

func (d *AIDocument) Update(*Env) bool {
	d.Age++
	d.pulse += 0.1
	return !d.expired() && !d.Clicked
}

func (d *AIDocument) Click() bool {
	if d.Clicked {
		return false
	}
	d.Clicked = true
	return true
}

func (d *AIDocument) Tint() string {
	return aiDocumentColor
}

func (d *AIDocument) Score() int {
	return aiDocumentScore
}

func (d *AIDocument) Draw(scene *render.Scene) {
	if d.Clicked {
		return
	}
	fade := math.Max(0, 1-float64(d.Age)/d.Lifespan*0.5)
	pulse := math.Sin(d.pulse)*0.3 + 0.7
	scene.Add(d.sprite(render.SpriteAIDocument, 0, aiDocumentColor, math.Max(0.05, fade*pulse)))
}

const (
	bombColor         = "#FF0000"
	bombLifespan      = 180
	bombBlastRadius   = 150
	bombBlastGrowth   = 8
	bombBlastPenalty  = -50
	bombFuseMinFactor = 0.7
)

// BombDocument flies like a document and blows up either when clicked or
// when its fuse burns out. Both cost the player the same penalty, once.
type BombDocument struct {
	body
	Fuse      float64
	Exploding bool
	Radius    float64
}

var _ Clickable = (*BombDocument)(nil)

func NewBombDocument(env *Env) *BombDocument {
	r := env.Rand
	size := r.Float64()*20 + 40
	x, y := spawnPoint(env, size)
	return &BombDocument{
		body: body{
			X:        x,
			Y:        y,
			Size:     size,
			VX:       (r.Float64() - 0.5) * 2,
			VY:       (r.Float64() - 0.5) * 2,
			Damping:  0.8,
			Lifespan: bombLifespan,
		},
		Fuse: r.Float64()*(1-bombFuseMinFactor) + bombFuseMinFactor,
	}
}

func (b *BombDocument) Update(env *Env) bool {
	b.Age++
	switch {
	case b.Exploding:
		b.Radius += bombBlastGrowth
		return b.Radius < bombBlastRadius
	case b.Clicked, float64(b.Age) >= b.Lifespan*b.Fuse:
		b.Exploding = true
		ev := Event{
			Kind:  EventDetonated,
			X:     b.X + b.Size/2,
			Y:     b.Y + b.Size/2,
			Size:  b.Size,
			Color: bombColor,
		}
		// a click already paid the penalty
		if !b.Clicked {
			ev.Score = bombBlastPenalty
		}
		env.Emit(ev)
		return true
	}
	b.move(env.Field)
	return true
}

func (b *BombDocument) Click() bool {
	if b.Clicked || b.Exploding {
		return false
	}
	b.Clicked = true
	return true
}

func (b *BombDocument) Tint() string {
	return bombColor
}

func (b *BombDocument) Score() int {
	return bombBlastPenalty
}

func (b *BombDocument) Draw(scene *render.Scene) {
	if b.Exploding {
		scene.Add(render.Command{
			Shape: render.ShapeRing,
			X:     b.X + b.Size/2 - b.Radius,
			Y:     b.Y + b.Size/2 - b.Radius,
			W:     b.Radius * 2,
			H:     b.Radius * 2,
			Color: bombColor,
			Alpha: math.Max(0.05, 1-b.Radius/bombBlastRadius),
		})
		return
	}
	if b.Clicked {
		return
	}
	scene.Add(b.sprite(render.SpriteBomb, 0, bombColor, 1))
}
