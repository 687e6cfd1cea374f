package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/docbreaker-games/docbreaker/internal/backend"
	"github.com/docbreaker-games/docbreaker/internal/buildinfo"
	"github.com/docbreaker-games/docbreaker/internal/client"
	"github.com/docbreaker-games/docbreaker/internal/game"
	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/docbreaker-games/docbreaker/internal/shutdown"
	"github.com/docbreaker-games/docbreaker/internal/sound"
	"github.com/docbreaker-games/docbreaker/internal/terminal"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Client client.Config

	PlayerName  string `envconfig:"DOCBREAKER_PLAYER_NAME"`
	Country     string `envconfig:"DOCBREAKER_COUNTRY"`
	CountryCode string `envconfig:"DOCBREAKER_COUNTRY_CODE"`
	// Play without the leaderboard server
	Offline bool   `envconfig:"DOCBREAKER_OFFLINE" default:"false"`
	Mute    bool   `envconfig:"DOCBREAKER_MUTE" default:"false"`
	LogFile string `envconfig:"DOCBREAKER_LOG_FILE" default:"docbreaker.log"`
	Debug   bool   `envconfig:"DOCBREAKER_DEBUG" default:"false"`
}

func main() {
	name := flag.String("name", "", "player name for the leaderboard")
	flag.Parse()

	ctx, done := shutdown.New()
	defer done()

	_ = godotenv.Load()

	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}
	if *name != "" {
		config.PlayerName = *name
	}

	logger := logging.NewLoggerTo(config.Debug, config.LogFile)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config, done); err != nil {
		logger.Errorf("main.realMain: %v", err)
		_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", buildinfo.Name, err)
		os.Exit(1)
	}
}

func realMain(ctx context.Context, config Config, done func()) error {
	logger := logging.FromContext(ctx).Named("main.realMain")

	var api *client.Client
	if !config.Offline {
		api = client.New(config.Client)
	}

	player := newAudio(ctx, config)
	if c, ok := player.(interface{ Close() }); ok {
		defer c.Close()
	}

	var (
		wg      sync.WaitGroup
		mtx     sync.Mutex
		reports []string
	)
	report := func(format string, args ...interface{}) {
		mtx.Lock()
		defer mtx.Unlock()
		reports = append(reports, fmt.Sprintf(format, args...))
	}

	onGameOver := func(score int) {
		logger.Infof("game over with score %d", score)
		if api == nil || config.PlayerName == "" || score <= 0 {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			report("%s", submitScore(ctx, api, config, score))
		}()
	}

	cfg := game.DefaultConfig()
	cfg.Debug = config.Debug
	session := game.New(ctx, cfg, game.WithAudio(player), game.WithGameOver(onGameOver))

	term, err := terminal.New(ctx, cfg.Field)
	if err != nil {
		return fmt.Errorf("terminal.New: %w", err)
	}

	loopErr := session.Loop(ctx, term, term.Events(ctx, done))
	term.Close()
	if loopErr != nil {
		return fmt.Errorf("session.Loop: %w", loopErr)
	}

	wg.Wait()
	for _, r := range reports {
		_, _ = fmt.Fprintln(os.Stdout, r)
	}
	_, _ = fmt.Fprintf(os.Stdout, "final score: %d\n", session.Score())

	if api != nil {
		printLeaderboard(context.WithoutCancel(ctx), api)
	}
	return nil
}

func newAudio(ctx context.Context, config Config) audio.Player {
	if config.Mute {
		return &audio.Nop{}
	}
	p := sound.New(ctx)
	if err := p.Init(); err != nil {
		logging.FromContext(ctx).Named("main.newAudio").Warnf("speaker unavailable, playing silent: %v", err)
		return &audio.Nop{}
	}
	return p
}

func printLeaderboard(ctx context.Context, api *client.Client) {
	entries, err := api.Leaderboard(ctx, 10)
	if err != nil {
		logging.FromContext(ctx).Named("main.printLeaderboard").Errorf("leaderboard: %v", err)
		return
	}
	for _, e := range entries {
		_, _ = fmt.Fprintf(os.Stdout, "%3d %-2s %s %-20s %6d  %s\n", e.Rank, e.Medal, e.Flag, e.PlayerName, e.Score, e.Recency)
	}
}

// submitScore sends a finished game's score and returns the line to show
// the player. It outlives ctx so that quitting right after a game over
// still records the score.
func submitScore(ctx context.Context, api *client.Client, config Config, score int) string {
	logger := logging.FromContext(ctx).Named("main.submitScore")

	res, err := api.SubmitScore(context.WithoutCancel(ctx), backend.SubmitScoreRequest{
		PlayerName:  config.PlayerName,
		Score:       float64(score),
		Country:     config.Country,
		CountryCode: config.CountryCode,
	})
	if err != nil {
		logger.Errorf("submit score: %v", err)
		return fmt.Sprintf("score %d not submitted: %v", score, err)
	}
	if res.Saved {
		return fmt.Sprintf("score %d saved at rank %d", score, res.Rank)
	}
	return fmt.Sprintf("score %d: %s", score, res.Message)
}
