package game

import (
	"math"
	"strconv"

	"github.com/docbreaker-games/docbreaker/internal/game/render"
)

const bombRingColor = "#FF0000"

// HUD snapshots the numbers shown around the playfield.
func (s *Session) HUD() render.HUD {
	h := render.HUD{
		Score:        s.score,
		Health:       s.Health(),
		Elapsed:      s.clock.Elapsed(),
		AITokens:     s.tokens,
		MaxAITokens:  s.cfg.MaxTokens,
		Stacked:      len(s.stacked),
		MaxStacked:   s.cfg.MaxStacked,
		GunMode:      s.gunMode,
		BossActive:   s.boss.active,
		BlockBreaker: s.blockBreaker,
		Paused:       s.paused,
		Running:      s.running,
		Over:         s.over,
		Banner:       s.banner,
		Background:   s.background,
	}
	if !s.running && !s.over {
		h.Elapsed = 0
	}
	if remaining, ok := s.BombRemaining(); ok {
		h.BombCountdown = int(math.Ceil(remaining.Seconds()))
	}
	if s.gunMode {
		h.GunRemaining = s.clock.Remaining(s.gunUntil)
	}
	return h
}

// Draw renders the current state into scene. It does not advance the game,
// so a paused session keeps drawing its frozen frame.
func (s *Session) Draw(scene *render.Scene) {
	f := s.cfg.Field
	scene.Reset(f.Width, f.Height)

	carrier := s.bombCarrier()
	for i, doc := range s.stacked {
		doc.Draw(scene, 0.8)
		if i != carrier {
			continue
		}
		scene.Add(render.Command{
			Shape: render.ShapeRing,
			X:     doc.X - 4,
			Y:     doc.Y - 4,
			W:     doc.Size + 8,
			H:     doc.Size + 8,
			Color: bombRingColor,
		})
		if remaining, ok := s.BombRemaining(); ok {
			scene.Add(render.Command{
				Shape: render.ShapeText,
				X:     doc.X + doc.Size/2,
				Y:     doc.Y - 10,
				Color: bombRingColor,
				Text:  strconv.Itoa(int(math.Ceil(remaining.Seconds()))),
			})
		}
	}

	for _, d := range s.documents {
		d.Draw(scene)
	}
	for _, n := range s.newbies {
		n.Draw(scene)
	}
	for _, st := range s.stars {
		st.Draw(scene)
	}
	for _, it := range s.aiItems {
		it.Draw(scene)
	}

	if s.boss.active {
		scene.Add(render.Command{
			Shape:   render.ShapeSprite,
			Sprite:  render.SpriteBoss,
			Variant: s.boss.variant,
			X:       s.boss.x,
			Y:       s.boss.y,
			W:       s.cfg.BossSize,
			H:       s.cfg.BossSize,
		})
	}
	if s.blockBreaker {
		b := s.ball
		scene.Add(render.Command{
			Shape:  render.ShapeSprite,
			Sprite: render.SpriteBall,
			X:      b.x - b.radius,
			Y:      b.y - b.radius,
			W:      b.radius * 2,
			H:      b.radius * 2,
		})
	}

	s.particles.Draw(scene)
	scene.HUD = s.HUD()
}
