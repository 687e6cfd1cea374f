package game

import (
	"math"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
)

// bomb is planted on one stacked document. Its deadline is in game time,
// so pausing the clock freezes the countdown.
type bomb struct {
	carrier   uint64
	deadline  time.Duration
	countdown int
	alarm     bool
}

func (s *Session) rollBombInterval() time.Duration {
	lo, hi := s.cfg.BombMinInterval, s.cfg.BombMaxInterval
	return time.Duration(world.Between(s.rnd, float64(lo), float64(hi)))
}

func (s *Session) spawnBomb(now time.Duration) {
	if s.bomb != nil || len(s.stacked) == 0 {
		return
	}
	carrier := s.stacked[world.Intn(s.rnd, len(s.stacked))]

	// Fuses are whole seconds.
	span := int((s.cfg.BombMaxFuse - s.cfg.BombMinFuse) / time.Second)
	fuse := s.cfg.BombMinFuse + time.Duration(world.Intn(s.rnd, span+1))*time.Second

	s.bomb = &bomb{carrier: carrier.ID, deadline: now + fuse}
	s.bombInterval = s.rollBombInterval()
	s.logger.Debugw("bomb planted", "carrier", carrier.ID, "fuse", fuse)
}

// BombRemaining reports the game time left on the bomb, if one is planted.
func (s *Session) BombRemaining() (time.Duration, bool) {
	if s.bomb == nil {
		return 0, false
	}
	return s.clock.Remaining(s.bomb.deadline), true
}

func (s *Session) bombCarrier() int {
	if s.bomb == nil {
		return -1
	}
	for i, doc := range s.stacked {
		if doc.ID == s.bomb.carrier {
			return i
		}
	}
	return -1
}

func (s *Session) updateBomb(now time.Duration) {
	if s.bomb == nil {
		return
	}
	// The carrier went away some other way: the bomb goes with it.
	if s.bombCarrier() < 0 {
		s.clearBomb()
		return
	}

	remaining := s.bomb.deadline - now
	countdown := int(math.Ceil(remaining.Seconds()))
	if countdown != s.bomb.countdown {
		s.bomb.countdown = countdown
		if remaining > s.cfg.BombAlarmThreshold {
			s.audio.Tone(600, 200*time.Millisecond, audio.Sine)
		}
	}
	if remaining > 0 && remaining <= s.cfg.BombAlarmThreshold && !s.bomb.alarm {
		s.bomb.alarm = true
		s.audio.Alarm()
	}
	if remaining <= 0 {
		s.explode()
	}
}

func (s *Session) clearBomb() {
	if s.bomb == nil {
		return
	}
	s.bomb = nil
	s.audio.StopAlarm()
}

// defuse disarms the bomb by removing its carrier.
func (s *Session) defuse() {
	if i := s.bombCarrier(); i >= 0 {
		doc := s.removeStacked(i)
		s.particles.Burst(s.rnd, doc.X, doc.Y, doc.Size, doc.Color)
	}
	s.clearBomb()
	s.addScore(s.cfg.BombDefuseScore)
	s.audio.Success()
	s.logger.Debugw("bomb defused", "score", s.score)
}

// explode fires at most once per bomb since it clears the bomb first.
func (s *Session) explode() {
	if s.bomb == nil {
		return
	}
	if i := s.bombCarrier(); i >= 0 {
		doc := s.stacked[i]
		s.particles.Shockwave(s.rnd, doc.X+doc.Size/2, doc.Y+doc.Size/2)
	}
	s.clearBomb()
	s.addScore(-s.cfg.BombPenalty)
	s.audio.Failure()
	s.logger.Debugw("bomb exploded", "score", s.score)
	s.addStacked(s.cfg.BombPenaltyDocs)
}
