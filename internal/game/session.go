// Package game runs a single play session: spawning, input handling, the
// special modes and the end of the game.
package game

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/docbreaker-games/docbreaker/internal/game/clock"
	"github.com/docbreaker-games/docbreaker/internal/game/entity"
	"github.com/docbreaker-games/docbreaker/internal/game/particle"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
	"github.com/docbreaker-games/docbreaker/internal/logging"
	"go.uber.org/zap"
)

type Option func(*Session)

func WithRand(r world.Rand) Option {
	return func(s *Session) {
		s.rnd = r
	}
}

func WithAudio(p audio.Player) Option {
	return func(s *Session) {
		s.audio = p
	}
}

// WithTimeSource drives the game clock from src instead of wall time.
func WithTimeSource(src func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock.New(src)
	}
}

// WithGameOver registers fn to be called once with the final score.
func WithGameOver(fn func(score int)) Option {
	return func(s *Session) {
		s.onGameOver = fn
	}
}

type boss struct {
	active  bool
	clicked bool
	since   time.Duration
	x, y    float64
	variant int
}

type ball struct {
	x, y   float64
	vx, vy float64
	radius float64
}

// Session is single threaded: all calls must come from one goroutine,
// which Loop takes care of.
type Session struct {
	cfg    Config
	logger *zap.SugaredLogger
	rnd    world.Rand
	audio  audio.Player
	clock  *clock.Clock
	env    *entity.Env

	onGameOver func(score int)

	documents []entity.Clickable
	newbies   []*entity.Newbie
	stars     []*entity.Star
	aiItems   []*entity.AIItem
	stacked   []entity.Stacked
	nextID    uint64
	particles particle.System

	score  int
	tokens int

	running bool
	over    bool
	paused  bool

	gunMode     bool
	gunUntil    time.Duration
	lastGunshot time.Duration
	shotFired   bool

	boss         boss
	blockBreaker bool
	breakerSince time.Duration
	ball         ball

	bomb         *bomb
	lastBomb     time.Duration
	bombInterval time.Duration

	lastDocument time.Duration
	lastNewbie   time.Duration
	lastStar     time.Duration
	lastAIItem   time.Duration
	lastBoss     time.Duration

	banner      string
	bannerSince time.Duration
	background  int
}

func New(ctx context.Context, cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:    cfg,
		logger: logging.FromContext(ctx).Named("game"),
		rnd:    world.FastRand{},
		audio:  &audio.Nop{},
		clock:  clock.New(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.env = entity.NewEnv(cfg.Field, s.rnd)
	s.Reset()
	return s
}

// Reset returns the session to its initial, not yet started state.
func (s *Session) Reset() {
	s.audio.StopAlarm()
	s.audio.StopGunLoop()

	s.documents = nil
	s.newbies = nil
	s.stars = nil
	s.aiItems = nil
	s.stacked = nil
	s.particles.Clear()
	s.env.Drain()

	s.score = 0
	s.tokens = s.cfg.StartTokens
	s.running = false
	s.over = false
	s.paused = false

	s.gunMode = false
	s.gunUntil = 0
	s.shotFired = false
	s.boss = boss{}
	s.blockBreaker = false
	s.bomb = nil
	s.bombInterval = s.rollBombInterval()
	s.banner = ""
}

// Start begins play with game time at zero. A finished game is reset
// first.
func (s *Session) Start() {
	if s.running {
		return
	}
	if s.over {
		s.Reset()
	}
	s.clock.Start()
	s.running = true

	s.lastDocument = 0
	s.lastNewbie = 0
	s.lastStar = 0
	s.lastAIItem = 0
	s.lastBoss = 0
	s.lastBomb = 0

	s.pickBackground()
	s.audio.StartMusic()
	s.logger.Debugw("session started", "tokens", s.tokens)
}

// Restart is Reset followed by Start.
func (s *Session) Restart() {
	s.Reset()
	s.Start()
}

func (s *Session) Score() int         { return s.score }
func (s *Session) Tokens() int        { return s.tokens }
func (s *Session) StackedCount() int  { return len(s.stacked) }
func (s *Session) Running() bool      { return s.running }
func (s *Session) Over() bool         { return s.over }
func (s *Session) Paused() bool       { return s.paused }
func (s *Session) GunMode() bool      { return s.gunMode }
func (s *Session) BossActive() bool   { return s.boss.active }
func (s *Session) BlockBreaker() bool { return s.blockBreaker }
func (s *Session) Background() int    { return s.background }
func (s *Session) Banner() string     { return s.banner }

// Health is the share of the stack still free, in percent.
func (s *Session) Health() float64 {
	return math.Max(0, 100-float64(len(s.stacked))/float64(s.cfg.MaxStacked)*100)
}

// Tick advances the game by one frame.
func (s *Session) Tick() {
	if !s.running || s.over || s.paused {
		return
	}
	now := s.clock.Elapsed()

	s.updateTimers(now)
	if !s.over {
		if s.blockBreaker {
			s.updateBlockBreaker(now)
		} else {
			s.updateEntities()
		}
	}
	s.particles.Update(s.cfg.Field)
	s.checkInvariants()
}

func (s *Session) updateTimers(now time.Duration) {
	if s.gunMode && now > s.gunUntil {
		s.gunMode = false
		s.audio.StopGunLoop()
		s.logger.Debug("gun mode ended")
	}
	if s.boss.active && now-s.boss.since > s.cfg.BossLifetime {
		s.boss = boss{}
	}
	if s.banner != "" && now-s.bannerSince >= s.cfg.BannerPeriod {
		s.banner = ""
	}
	if !s.blockBreaker {
		s.spawnByTimers(now)
	}
	s.updateBomb(now)
}

func (s *Session) updateEntities() {
	s.documents = updateAll(s.env, s.documents)
	s.newbies = updateAll(s.env, s.newbies)
	s.stars = updateAll(s.env, s.stars)
	s.aiItems = updateAll(s.env, s.aiItems)

	for _, ev := range s.env.Drain() {
		switch ev.Kind {
		case entity.EventSunk:
			s.pushStacked(ev.Size, ev.Color)
			s.checkHealth()
		case entity.EventDetonated:
			s.addScore(ev.Score)
			s.particles.Shockwave(s.rnd, ev.X, ev.Y)
			s.audio.Explosion()
		}
	}
}

func updateAll[E entity.Entity](env *entity.Env, list []E) []E {
	alive := list[:0]
	for _, e := range list {
		if e.Update(env) {
			alive = append(alive, e)
		}
	}
	clear(list[len(alive):])
	return alive
}

func (s *Session) addScore(delta int) {
	s.score += delta
	if s.score < 0 {
		s.score = 0
	}
}

// addStacked puts n documents on the pile without overflowing it and ends
// the game once the pile is full.
func (s *Session) addStacked(n int) {
	for i := 0; i < n; i++ {
		s.pushStacked(0, "")
	}
	s.checkHealth()
}

// pushStacked adds one document to the pile unless it is already full. A
// zero size or empty color is picked at random.
func (s *Session) pushStacked(size float64, color string) {
	if len(s.stacked) >= s.cfg.MaxStacked {
		return
	}
	s.nextID++
	s.stacked = append(s.stacked, entity.NewStacked(s.env, s.nextID, size, color))
}

func (s *Session) removeStacked(i int) entity.Stacked {
	doc := s.stacked[i]
	s.stacked = append(s.stacked[:i], s.stacked[i+1:]...)
	return doc
}

func (s *Session) checkHealth() {
	if len(s.stacked) >= s.cfg.MaxStacked {
		s.endGame()
	}
}

func (s *Session) endGame() {
	if s.over {
		return
	}
	s.over = true
	s.running = false
	s.gunMode = false
	s.bomb = nil

	s.audio.StopMusic()
	s.audio.StopGunLoop()
	s.audio.StopAlarm()
	s.audio.Tone(150, 500*time.Millisecond, audio.Sawtooth)

	s.logger.Infow("game over", "score", s.score, "elapsed", s.clock.Elapsed())
	if s.onGameOver != nil {
		s.onGameOver(s.score)
	}
}

func (s *Session) pickBackground() {
	if s.cfg.Backgrounds <= 1 {
		s.background = 0
		return
	}
	prev := s.background
	next := world.Intn(s.rnd, s.cfg.Backgrounds-1)
	if next >= prev {
		next++
	}
	s.background = next
}

func (s *Session) checkInvariants() {
	if !s.cfg.Debug {
		return
	}
	if n := len(s.stacked); n < 0 || n > s.cfg.MaxStacked {
		panic(fmt.Sprintf("stacked count %d out of range", n))
	}
	if s.tokens < 0 || s.tokens > s.cfg.MaxTokens {
		panic(fmt.Sprintf("ai tokens %d out of range", s.tokens))
	}
	if s.score < 0 {
		panic(fmt.Sprintf("negative score %d", s.score))
	}
}
