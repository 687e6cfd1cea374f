// Package entity implements the things that live on the playfield.
//
// Entities age one tick per Update and report whether they are still
// alive. A dead entity is dropped by its owner and never updated again.
// Side effects an entity cannot apply itself, such as a document sinking
// into the stack, are reported through Env.Emit.
package entity

import (
	"github.com/docbreaker-games/docbreaker/internal/game/render"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
)

type EventKind uint8

const (
	// EventSunk is emitted when a document outlives its lifespan.
	EventSunk EventKind = iota + 1
	// EventDetonated is emitted when a flying bomb's fuse burns out.
	EventDetonated
)

type Event struct {
	Kind  EventKind
	X, Y  float64
	Size  float64
	Color string
	// Score is the signed score change carried by the event.
	Score int
}

// Env is what entities see of the world while updating.
type Env struct {
	Field  world.Field
	Rand   world.Rand
	events []Event
}

func NewEnv(f world.Field, r world.Rand) *Env {
	return &Env{Field: f, Rand: r}
}

func (e *Env) Emit(ev Event) {
	e.events = append(e.events, ev)
}

// Drain returns the pending events and forgets them.
func (e *Env) Drain() []Event {
	evs := e.events
	e.events = nil
	return evs
}

type Entity interface {
	Update(env *Env) bool
	Draw(scene *render.Scene)
	IsClicked(x, y float64) bool
	Score() int
}

// Clickable is an entity destroyed by a single hit.
type Clickable interface {
	Entity
	// Click reports whether this call registered the hit.
	Click() bool
	Bounds() (x, y, size float64)
	Tint() string
}

// body is the state shared by every entity.
type body struct {
	X, Y     float64
	Size     float64
	VX, VY   float64
	Damping  float64
	Age      int
	Lifespan float64
	Clicked  bool
}

func (b *body) Bounds() (x, y, size float64) {
	return b.X, b.Y, b.Size
}

func (b *body) IsClicked(x, y float64) bool {
	return world.Contains(b.X, b.Y, b.Size, x, y)
}

func (b *body) expired() bool {
	return float64(b.Age) >= b.Lifespan
}

// move advances the body and bounces it off the field edges and the HUD band.
func (b *body) move(f world.Field) {
	b.X += b.VX
	b.Y += b.VY

	maxX, maxY := f.Width-b.Size, f.Height-b.Size
	if b.X <= 0 || b.X >= maxX {
		b.VX *= -b.Damping
		b.X = clamp(b.X, 0, maxX)
	}
	if b.Y <= f.Top || b.Y >= maxY {
		b.VY *= -b.Damping
		b.Y = clamp(b.Y, f.Top, maxY)
	}
}

func (b *body) sprite(name string, variant int, color string, alpha float64) render.Command {
	return render.Command{
		Shape:   render.ShapeSprite,
		Sprite:  name,
		Variant: variant,
		X:       b.X,
		Y:       b.Y,
		W:       b.Size,
		H:       b.Size,
		Color:   color,
		Alpha:   alpha,
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// spawnPoint picks a random spot in the upper part of the field.
func spawnPoint(env *Env, size float64) (x, y float64) {
	x = env.Rand.Float64() * (env.Field.Width - size)
	y = env.Rand.Float64()*(env.Field.Height*0.6-size) + env.Field.Top
	return x, y
}
