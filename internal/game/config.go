package game

import (
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/world"
)

// Config tunes the session. DefaultConfig returns the values the game
// ships with; tests shrink or stretch them freely.
type Config struct {
	Field world.Field

	FrameInterval time.Duration

	MaxStacked   int
	StartTokens  int
	MaxTokens    int
	NewbieDocs   int
	Backgrounds  int
	BannerPeriod time.Duration

	MinDocumentInterval time.Duration
	MinNewbieInterval   time.Duration
	MinStarInterval     time.Duration
	// Flying bonus and bomb documents replace a regular spawn with these odds.
	AIDocumentChance   float64
	BombDocumentChance float64

	AIItemInterval time.Duration
	AIItemChance   float64

	GunDuration     time.Duration
	GunshotThrottle time.Duration
	GunStackedScore int

	BossInterval       time.Duration
	BossBusyInterval   time.Duration
	BossBusyThreshold  int
	BossChance         float64
	BossBusyChance     float64
	BossLifetime       time.Duration
	BossSize           float64
	BlockBreakerPeriod time.Duration
	BallSpeed          float64
	BallSize           float64
	BallScore          int

	BombMinStacked     int
	BombMinInterval    time.Duration
	BombMaxInterval    time.Duration
	BombMinFuse        time.Duration
	BombMaxFuse        time.Duration
	BombAlarmThreshold time.Duration
	BombDefuseScore    int
	BombPenalty        int
	BombPenaltyDocs    int

	JobChangePenalty int

	// Debug makes the session panic when an invariant is broken.
	Debug bool
}

func DefaultConfig() Config {
	return Config{
		Field:         world.Field{Width: 800, Height: 600, Top: 80},
		FrameInterval: time.Second / 60,

		MaxStacked:   25,
		StartTokens:  2,
		MaxTokens:    5,
		NewbieDocs:   5,
		Backgrounds:  10,
		BannerPeriod: 2 * time.Second,

		MinDocumentInterval: 600 * time.Millisecond,
		MinNewbieInterval:   4 * time.Second,
		MinStarInterval:     18 * time.Second,
		AIDocumentChance:    0.03,
		BombDocumentChance:  0.02,

		AIItemInterval: 30 * time.Second,
		AIItemChance:   0.05,

		GunDuration:     5 * time.Second,
		GunshotThrottle: 100 * time.Millisecond,
		GunStackedScore: 10,

		BossInterval:       60 * time.Second,
		BossBusyInterval:   30 * time.Second,
		BossBusyThreshold:  20,
		BossChance:         0.2,
		BossBusyChance:     0.5,
		BossLifetime:       2 * time.Second,
		BossSize:           30,
		BlockBreakerPeriod: 10 * time.Second,
		BallSpeed:          8,
		BallSize:           30,
		BallScore:          20,

		BombMinStacked:     5,
		BombMinInterval:    30 * time.Second,
		BombMaxInterval:    60 * time.Second,
		BombMinFuse:        10 * time.Second,
		BombMaxFuse:        20 * time.Second,
		BombAlarmThreshold: 5 * time.Second,
		BombDefuseScore:    50,
		BombPenalty:        50,
		BombPenaltyDocs:    3,

		JobChangePenalty: 20,
	}
}

// documentInterval shortens as the score grows.
func (c Config) documentInterval(score int) time.Duration {
	return maxDuration(c.MinDocumentInterval, 1800*time.Millisecond-time.Duration(score)*2*time.Millisecond)
}

func (c Config) newbieInterval(score int) time.Duration {
	return maxDuration(c.MinNewbieInterval, 7000*time.Millisecond-time.Duration(score)*2500*time.Microsecond)
}

func (c Config) starInterval(score int) time.Duration {
	return maxDuration(c.MinStarInterval, 28*time.Second-time.Duration(score)*10*time.Millisecond)
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
