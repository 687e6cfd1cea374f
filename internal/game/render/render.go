// Package render describes a frame as a list of drawing commands that a
// Surface turns into pixels, cells or whatever its backend understands.
package render

import "time"

type Shape uint8

const (
	ShapeRect Shape = iota + 1
	ShapeCircle
	ShapeRing
	ShapeStar
	ShapeSprite
	ShapeText
)

// Sprite names understood by surfaces.
const (
	SpriteDocument   = "document"
	SpriteAIDocument = "ai-document"
	SpriteBomb       = "bomb"
	SpriteStar       = "star"
	SpriteNewbie     = "newbie"
	SpriteAIItem     = "ai-item"
	SpriteStacked    = "stacked"
	SpriteBoss       = "boss"
	SpriteBall       = "ball"
)

type Command struct {
	Shape  Shape
	Sprite string
	// Variant selects an alternative look for sprites with several forms.
	Variant int

	X, Y, W, H float64
	Color      string
	Alpha      float64
	Rotation   float64
	Text       string
}

// HUD is the textual state shown around the playfield.
type HUD struct {
	Score         int
	Health        float64
	Elapsed       time.Duration
	AITokens      int
	MaxAITokens   int
	Stacked       int
	MaxStacked    int
	BombCountdown int
	GunMode       bool
	GunRemaining  time.Duration
	BossActive    bool
	BlockBreaker  bool
	Paused        bool
	Running       bool
	Over          bool
	Banner        string
	Background    int
}

type Scene struct {
	Width, Height float64
	Commands      []Command
	HUD           HUD
}

// Reset clears the scene for reuse, keeping the command buffer.
func (s *Scene) Reset(width, height float64) {
	s.Width = width
	s.Height = height
	s.Commands = s.Commands[:0]
	s.HUD = HUD{}
}

func (s *Scene) Add(c Command) {
	if c.Alpha == 0 {
		c.Alpha = 1
	}
	s.Commands = append(s.Commands, c)
}

// Sprites returns the commands drawing the named sprite.
func (s *Scene) Sprites(name string) []Command {
	var out []Command
	for _, c := range s.Commands {
		if c.Shape == ShapeSprite && c.Sprite == name {
			out = append(out, c)
		}
	}
	return out
}

// Surface presents finished scenes.
type Surface interface {
	Present(scene *Scene) error
}
