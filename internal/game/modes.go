package game

import (
	"math"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
)

// jobChangeBanner is shown while the office is swapped out.
const jobChangeBanner = "New job! Everything starts over..."

// UseAIToken spends a token on a burst of gun mode. It reports whether gun
// mode started.
func (s *Session) UseAIToken() bool {
	if !s.running || s.over || s.paused {
		return false
	}
	if s.blockBreaker || s.gunMode || s.tokens <= 0 {
		return false
	}
	s.tokens--
	s.gunMode = true
	s.gunUntil = s.clock.Elapsed() + s.cfg.GunDuration
	s.shotFired = false

	s.audio.Notes(
		audio.Note{Freq: 500, Duration: 300 * time.Millisecond, Wave: audio.Square},
		audio.Note{Freq: 800, Duration: 200 * time.Millisecond, Wave: audio.Sine, Delay: 100 * time.Millisecond},
	)
	s.audio.StartGunLoop()
	s.logger.Debugw("gun mode started", "tokens", s.tokens)
	return true
}

func (s *Session) addToken() {
	if s.tokens < s.cfg.MaxTokens {
		s.tokens++
	}
}

// gunshot plays the shot sound, at most once per throttle period.
func (s *Session) gunshot(now time.Duration) {
	if s.shotFired && now-s.lastGunshot <= s.cfg.GunshotThrottle {
		return
	}
	s.shotFired = true
	s.lastGunshot = now
	s.audio.Gunshot()
}

// startBlockBreaker launches the ball from where the boss was clicked.
func (s *Session) startBlockBreaker(x, y float64) {
	s.blockBreaker = true
	s.breakerSince = s.clock.Elapsed()
	s.boss.active = false

	speed := s.cfg.BallSpeed
	s.ball = ball{
		x:      x,
		y:      y,
		vx:     (s.rnd.Float64() - 0.5) * speed,
		vy:     -speed * 0.7,
		radius: s.cfg.BallSize / 2,
	}
	s.logger.Debug("block breaker started")
}

func (s *Session) updateBlockBreaker(now time.Duration) {
	if now-s.breakerSince >= s.cfg.BlockBreakerPeriod {
		s.blockBreaker = false
		s.particles.Clear()
		s.checkHealth()
		s.logger.Debug("block breaker ended")
		return
	}

	b := &s.ball
	b.x += b.vx
	b.y += b.vy

	f := s.cfg.Field
	if b.x-b.radius <= 0 || b.x+b.radius >= f.Width {
		b.vx = -b.vx
		b.x = math.Max(b.radius, math.Min(f.Width-b.radius, b.x))
	}
	if b.y-b.radius <= f.Top || b.y+b.radius >= f.Height {
		b.vy = -b.vy
		b.y = math.Max(f.Top+b.radius, math.Min(f.Height-b.radius, b.y))
	}

	for i := len(s.stacked) - 1; i >= 0; i-- {
		doc := s.stacked[i]
		if !doc.Overlaps(b.x, b.y, b.radius, 5) {
			continue
		}
		s.particles.Burst(s.rnd, doc.X, doc.Y, doc.Size, doc.Color)
		s.audio.Explosion()
		s.removeStacked(i)
		s.addScore(s.cfg.BallScore)

		dx := b.x - (doc.X + doc.Size/2)
		dy := b.y - (doc.Y + doc.Size/2)
		if math.Abs(dx) > math.Abs(dy) {
			b.vx = -b.vx
		} else {
			b.vy = -b.vy
		}
		break
	}
}

// triggerJobChange wipes the office: every entity and the stack go away,
// the bomb is dropped and the player pays the penalty.
func (s *Session) triggerJobChange() {
	s.addScore(-s.cfg.JobChangePenalty)

	s.stacked = nil
	s.documents = nil
	s.newbies = nil
	s.stars = nil
	s.aiItems = nil
	s.clearBomb()

	s.audio.StartMusic()
	s.pickBackground()
	s.banner = jobChangeBanner
	s.bannerSince = s.clock.Elapsed()
	s.logger.Debugw("job change", "score", s.score, "background", s.background)
}

func (s *Session) bossHit(x, y float64) bool {
	return s.boss.active && !s.boss.clicked && world.Contains(s.boss.x, s.boss.y, s.cfg.BossSize, x, y)
}
