package entity

import (
	"github.com/docbreaker-games/docbreaker/internal/game/render"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
)

// Stacked is a document that landed on the pile. Stacked documents never
// move; the pile is the player's health bar.
type Stacked struct {
	ID    uint64
	X, Y  float64
	Size  float64
	Color string
}

// NewStacked places a stacked document at a random spot below the HUD.
func NewStacked(env *Env, id uint64, size float64, color string) Stacked {
	r := env.Rand
	if size <= 0 {
		size = r.Float64()*40 + 30
	}
	if color == "" {
		color = palette[world.Intn(r, len(palette))]
	}
	f := env.Field
	return Stacked{
		ID:    id,
		X:     r.Float64() * (f.Width - size),
		Y:     r.Float64()*(f.Height-size-f.Top) + f.Top,
		Size:  size,
		Color: color,
	}
}

func (s Stacked) IsClicked(x, y float64) bool {
	return world.Contains(s.X, s.Y, s.Size, x, y)
}

// Overlaps reports whether a circle at (cx, cy) touches the document,
// allowing pad extra pixels on every side.
func (s Stacked) Overlaps(cx, cy, radius, pad float64) bool {
	return cx+radius > s.X-pad && cx-radius < s.X+s.Size+pad &&
		cy+radius > s.Y-pad && cy-radius < s.Y+s.Size+pad
}

func (s Stacked) Draw(scene *render.Scene, alpha float64) {
	scene.Add(render.Command{
		Shape:  render.ShapeSprite,
		Sprite: render.SpriteStacked,
		X:      s.X,
		Y:      s.Y,
		W:      s.Size,
		H:      s.Size,
		Color:  s.Color,
		Alpha:  alpha,
	})
}
