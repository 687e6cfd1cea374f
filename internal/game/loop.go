package game

import (
	"context"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/render"
)

// Loop drives the session at the configured frame rate until ctx is done
// or input is closed. Inputs are applied between frames on the loop's
// goroutine, so the session is never touched concurrently.
func (s *Session) Loop(ctx context.Context, surface render.Surface, input <-chan Input) error {
	interval := s.cfg.FrameInterval
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var scene render.Scene
	for {
		select {
		case <-ctx.Done():
			return nil
		case in, ok := <-input:
			if !ok {
				return nil
			}
			s.Handle(in)
		case <-ticker.C:
			s.Tick()
			s.Draw(&scene)
			if err := surface.Present(&scene); err != nil {
				s.logger.Debugw("failed to present frame", "error", err)
			}
		}
	}
}
