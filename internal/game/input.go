package game

import (
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/docbreaker-games/docbreaker/internal/game/entity"
)

type InputKind uint8

const (
	InputClick InputKind = iota + 1
	InputMove
	InputUseToken
	InputTogglePause
	InputToggleMute
	InputStart
	InputRestart
)

// Input is one user action in playfield coordinates.
type Input struct {
	Kind InputKind
	X, Y float64
}

// Handle dispatches in to the matching session method.
func (s *Session) Handle(in Input) {
	switch in.Kind {
	case InputClick:
		s.Click(in.X, in.Y)
	case InputMove:
		s.PointerMove(in.X, in.Y)
	case InputUseToken:
		s.UseAIToken()
	case InputTogglePause:
		s.TogglePause()
	case InputToggleMute:
		s.audio.ToggleMute()
	case InputStart:
		s.Start()
	case InputRestart:
		s.Restart()
	}
}

// Click resolves a click against the field. The first target that takes
// the click wins, in this order: boss, block breaker, bomb carrier, stars,
// AI items, newbies and finally the flying documents.
func (s *Session) Click(x, y float64) {
	if !s.running || s.over || s.paused {
		return
	}

	if s.bossHit(x, y) {
		s.boss.clicked = true
		s.startBlockBreaker(x, y)
		s.audio.Notes(
			audio.Note{Freq: 880, Duration: 300 * time.Millisecond, Wave: audio.Square},
			audio.Note{Freq: 1100, Duration: 300 * time.Millisecond, Wave: audio.Square, Delay: 100 * time.Millisecond},
			audio.Note{Freq: 1320, Duration: 500 * time.Millisecond, Wave: audio.Square, Delay: 200 * time.Millisecond},
		)
		return
	}
	if s.blockBreaker {
		return
	}

	if i := s.bombCarrier(); i >= 0 && s.stacked[i].IsClicked(x, y) {
		s.defuse()
		return
	}

	for i := len(s.stars) - 1; i >= 0; i-- {
		if st := s.stars[i]; st.IsClicked(x, y) && st.Click() {
			s.audio.Farewell()
			s.triggerJobChange()
			return
		}
	}

	for i := len(s.aiItems) - 1; i >= 0; i-- {
		if it := s.aiItems[i]; it.IsClicked(x, y) && it.Click() {
			s.addToken()
			s.audio.Notes(
				audio.Note{Freq: 1000, Duration: 200 * time.Millisecond, Wave: audio.Sine},
				audio.Note{Freq: 1200, Duration: 150 * time.Millisecond, Wave: audio.Triangle, Delay: 100 * time.Millisecond},
			)
			return
		}
	}

	for i := len(s.newbies) - 1; i >= 0; i-- {
		if n := s.newbies[i]; n.IsClicked(x, y) && n.Click() {
			s.audio.Tone(150, 300*time.Millisecond, audio.Sawtooth)
			s.addStacked(s.cfg.NewbieDocs)
			return
		}
	}

	for i := len(s.documents) - 1; i >= 0; i-- {
		if d := s.documents[i]; d.IsClicked(x, y) && d.Click() {
			s.destroyDocument(d)
			return
		}
	}
}

// PointerMove destroys whatever the pointer passes over while gun mode is
// on: first a flying document, otherwise a stacked one.
func (s *Session) PointerMove(x, y float64) {
	if !s.running || s.over || s.paused || !s.gunMode {
		return
	}
	now := s.clock.Elapsed()

	for i := len(s.documents) - 1; i >= 0; i-- {
		if d := s.documents[i]; d.IsClicked(x, y) && d.Click() {
			s.destroyDocument(d)
			s.gunshot(now)
			return
		}
	}

	for i := len(s.stacked) - 1; i >= 0; i-- {
		if doc := s.stacked[i]; doc.IsClicked(x, y) {
			s.removeStacked(i)
			s.addScore(s.cfg.GunStackedScore)
			s.particles.Burst(s.rnd, doc.X, doc.Y, doc.Size, doc.Color)
			s.audio.Explosion()
			s.gunshot(now)
			return
		}
	}
}

func (s *Session) destroyDocument(d entity.Clickable) {
	s.addScore(d.Score())
	x, y, size := d.Bounds()
	s.particles.Burst(s.rnd, x, y, size, d.Tint())
	s.audio.Explosion()
}

// TogglePause pauses or resumes a running game. Game time stops while
// paused so every timer keeps its remaining duration.
func (s *Session) TogglePause() {
	if !s.running || s.over {
		return
	}
	s.paused = !s.paused
	if s.paused {
		s.clock.Pause()
		s.audio.PauseMusic()
		s.audio.Tone(500, 200*time.Millisecond, audio.Triangle)
		return
	}
	s.clock.Resume()
	s.audio.ResumeMusic()
	s.audio.Tone(700, 200*time.Millisecond, audio.Triangle)
}
