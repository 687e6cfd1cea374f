package backend

import "time"

type Config struct {
	// Records kept on the leaderboard
	LeaderboardSize  int `envconfig:"DOCBREAKER_LEADERBOARD_SIZE" default:"50"`
	MaxScore         int `envconfig:"DOCBREAKER_MAX_SCORE" default:"100000"`
	MaxPlayerNameLen int `envconfig:"DOCBREAKER_MAX_PLAYER_NAME_LEN" default:"20"`

	MaxUsernameLen  int           `envconfig:"DOCBREAKER_MAX_USERNAME_LEN" default:"5"`
	MaxMessageLen   int           `envconfig:"DOCBREAKER_MAX_MESSAGE_LEN" default:"200"`
	ChatRetention   int           `envconfig:"DOCBREAKER_CHAT_RETENTION" default:"100"`
	DeleteQuorum    int           `envconfig:"DOCBREAKER_DELETE_QUORUM" default:"3"`
	DuplicateWindow time.Duration `envconfig:"DOCBREAKER_DUPLICATE_WINDOW" default:"10s"`
	DuplicateLimit  int           `envconfig:"DOCBREAKER_DUPLICATE_LIMIT" default:"2"`
	ChatPageSize    int           `envconfig:"DOCBREAKER_CHAT_PAGE_SIZE" default:"10"`
	ChatMaxPageSize int           `envconfig:"DOCBREAKER_CHAT_MAX_PAGE_SIZE" default:"50"`
	BannedWords     []string      `envconfig:"DOCBREAKER_BANNED_WORDS"`

	ScoreMinInterval time.Duration `envconfig:"DOCBREAKER_SCORE_MIN_INTERVAL" default:"20s"`
	ScorePerMinute   int           `envconfig:"DOCBREAKER_SCORE_PER_MINUTE" default:"3"`
	ChatMinInterval  time.Duration `envconfig:"DOCBREAKER_CHAT_MIN_INTERVAL" default:"30s"`
	ChatPerMinute    int           `envconfig:"DOCBREAKER_CHAT_PER_MINUTE" default:"2"`
	// Client identities tracked by each rate limiter
	RateLimitCapacity int `envconfig:"DOCBREAKER_RATE_LIMIT_CAPACITY" default:"4096"`

	// Gate mutating calls behind single-use validation tokens
	RequireToken  bool          `envconfig:"DOCBREAKER_REQUIRE_TOKEN" default:"true"`
	TokenTTL      time.Duration `envconfig:"DOCBREAKER_TOKEN_TTL" default:"5m"`
	TokenCapacity int           `envconfig:"DOCBREAKER_TOKEN_CAPACITY" default:"8192"`

	// Salt for hashing client addresses before they are stored
	IdentitySalt string `envconfig:"DOCBREAKER_IDENTITY_SALT" default:"docbreaker"`
}

// DefaultConfig mirrors the envconfig defaults for tests and embedding.
func DefaultConfig() Config {
	return Config{
		LeaderboardSize:   50,
		MaxScore:          100000,
		MaxPlayerNameLen:  20,
		MaxUsernameLen:    5,
		MaxMessageLen:     200,
		ChatRetention:     100,
		DeleteQuorum:      3,
		DuplicateWindow:   10 * time.Second,
		DuplicateLimit:    2,
		ChatPageSize:      10,
		ChatMaxPageSize:   50,
		ScoreMinInterval:  20 * time.Second,
		ScorePerMinute:    3,
		ChatMinInterval:   30 * time.Second,
		ChatPerMinute:     2,
		RateLimitCapacity: 4096,
		RequireToken:      true,
		TokenTTL:          5 * time.Minute,
		TokenCapacity:     8192,
		IdentitySalt:      "docbreaker",
	}
}
