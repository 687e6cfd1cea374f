// Package particle simulates the debris left behind by destroyed entities.
package particle

import (
	"math"

	"github.com/docbreaker-games/docbreaker/internal/game/render"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
)

const (
	burstCount   = 30
	goldCount    = 10
	goldColor    = "#FFD700"
	shardCount   = 20
	shardLife    = 30
	wallFriction = 0.9
)

var shardColors = []string{"#FF4500", "#FF6347", "#FFD700", "#FF0000"}

type Particle struct {
	X, Y          float64
	VX, VY        float64
	Life, MaxLife float64
	Color         string
	Size          float64
	Rotation      float64
	RotationSpeed float64
	Gravity       float64
	Bounce        float64
	Sparkle       bool
}

// Alpha fades the particle out over its life.
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, p.Life/p.MaxLife))
}

type System struct {
	particles []Particle
}

func (s *System) Len() int {
	return len(s.particles)
}

func (s *System) Particles() []Particle {
	return s.particles
}

func (s *System) Clear() {
	s.particles = s.particles[:0]
}

// Burst emits the explosion of an entity occupying the square at (x, y):
// a colored ring followed by a handful of gold sparks.
func (s *System) Burst(r world.Rand, x, y, size float64, color string) {
	cx, cy := x+size/2, y+size/2
	for i := 0; i < burstCount; i++ {
		angle := 2 * math.Pi * float64(i) / burstCount
		speed := r.Float64()*12 + 6
		life := r.Float64()*30 + 20
		s.particles = append(s.particles, Particle{
			X:             cx,
			Y:             cy,
			VX:            math.Cos(angle)*speed + (r.Float64()-0.5)*4,
			VY:            math.Sin(angle)*speed + (r.Float64()-0.5)*4,
			Life:          life,
			MaxLife:       life,
			Color:         color,
			Size:          r.Float64()*4 + 2,
			Rotation:      r.Float64() * 2 * math.Pi,
			RotationSpeed: (r.Float64() - 0.5) * 0.3,
			Gravity:       0.4,
			Bounce:        0.7,
			Sparkle:       r.Float64() > 0.6,
		})
	}
	for i := 0; i < goldCount; i++ {
		s.particles = append(s.particles, Particle{
			X:       cx,
			Y:       cy,
			VX:      (r.Float64() - 0.5) * 15,
			VY:      (r.Float64() - 0.5) * 15,
			Life:    15,
			MaxLife: 15,
			Color:   goldColor,
			Size:    r.Float64()*6 + 4,
			Gravity: 0.3,
			Bounce:  0.8,
			Sparkle: true,
		})
	}
}

// Shockwave emits the fiery shards of a bomb going off at (cx, cy).
func (s *System) Shockwave(r world.Rand, cx, cy float64) {
	for i := 0; i < shardCount; i++ {
		angle := 2 * math.Pi * float64(i) / shardCount
		speed := r.Float64()*5 + 3
		s.particles = append(s.particles, Particle{
			X:       cx,
			Y:       cy,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    shardLife,
			MaxLife: shardLife,
			Color:   shardColors[world.Intn(r, len(shardColors))],
			Size:    r.Float64()*8 + 4,
			Bounce:  0.5,
		})
	}
}

// Update advances every particle one frame and drops the expired ones.
func (s *System) Update(f world.Field) {
	alive := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VX
		p.Y += p.VY
		p.VY += p.Gravity
		p.Rotation += p.RotationSpeed

		if p.Y+p.Size > f.Height {
			p.Y = f.Height - p.Size
			p.VY *= -p.Bounce
			p.VX *= wallFriction
		}
		if p.X < 0 || p.X+p.Size > f.Width {
			p.VX *= -p.Bounce
			p.X = math.Max(0, math.Min(f.Width-p.Size, p.X))
		}

		p.Life--
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	s.particles = alive
}

func (s *System) Draw(scene *render.Scene) {
	for _, p := range s.particles {
		shape := render.ShapeCircle
		if p.Sparkle {
			shape = render.ShapeStar
		}
		scene.Add(render.Command{
			Shape:    shape,
			X:        p.X,
			Y:        p.Y,
			W:        p.Size,
			H:        p.Size,
			Color:    p.Color,
			Alpha:    math.Max(p.Alpha(), 0.01),
			Rotation: p.Rotation,
		})
	}
}
