package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/announce"
	"github.com/docbreaker-games/docbreaker/internal/backend"
	"github.com/docbreaker-games/docbreaker/internal/buildinfo"
	"github.com/docbreaker-games/docbreaker/internal/cache"
	"github.com/docbreaker-games/docbreaker/internal/chatfeed"
	"github.com/docbreaker-games/docbreaker/internal/database"
	chatDb "github.com/docbreaker-games/docbreaker/internal/database/chat/database"
	scoreDb "github.com/docbreaker-games/docbreaker/internal/database/score/database"
	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/docbreaker-games/docbreaker/internal/server"
	"github.com/docbreaker-games/docbreaker/internal/shutdown"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	backend.Config

	DB       database.Config
	Announce announce.Config

	Port          string        `envconfig:"DOCBREAKER_PORT" default:"8080"`
	ProfPort      string        `envconfig:"DOCBREAKER_PROF_PORT" default:"6060"`
	Debug         bool          `envconfig:"DOCBREAKER_DEBUG" default:"false"`
	TrustProxy    bool          `envconfig:"DOCBREAKER_TRUST_PROXY" default:"false"`
	AllowOrigin   string        `envconfig:"DOCBREAKER_ALLOW_ORIGIN" default:"*"`
	CacheSize     int           `envconfig:"DOCBREAKER_CACHE_SIZE" default:"16"`
	SweepInterval time.Duration `envconfig:"DOCBREAKER_SWEEP_INTERVAL" default:"1m"`
}

func main() {
	_, _ = fmt.Fprintf(os.Stdout, "%s server %s (%s)\n", buildinfo.Name, buildinfo.Version, buildinfo.Commit)

	ctx, done := shutdown.New()
	defer done()

	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config Config) error {
	logger := logging.FromContext(ctx).Named("main.realMain")

	db, err := database.NewFromEnv(ctx, &config.DB)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	buckets := append(append([]string{}, scoreDb.Buckets...), chatDb.Buckets...)
	if err := db.EnsureBuckets(buckets...); err != nil {
		return fmt.Errorf("ensure buckets: %w", err)
	}

	leaderCache, err := cache.NewARC(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create arc cache: %w", err)
	}

	announcer, err := announce.New(ctx, config.Announce)
	if err != nil {
		return fmt.Errorf("announce.New: %w", err)
	}

	hub := chatfeed.NewHub()
	service, err := backend.New(
		config.Config,
		scoreDb.New(db, leaderCache),
		chatDb.New(db),
		backend.WithPublisher(hub),
		backend.WithAnnouncer(announcer),
	)
	if err != nil {
		return fmt.Errorf("backend.New: %w", err)
	}

	srv, err := server.New(config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/health", server.HandleHealth(ctx))
	mux.Handle("/api/", backend.Handler(ctx, service, backend.HTTPConfig{
		TrustProxy:  config.TrustProxy,
		AllowOrigin: config.AllowOrigin,
	}))
	mux.Handle("/ws/chat", hub.ServeWS(ctx))

	logger.Infof("listening on %s", srv.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ServeHTTP(gctx, &http.Server{Handler: mux})
	})
	g.Go(func() error {
		return service.Run(gctx, config.SweepInterval)
	})
	g.Go(func() error {
		return hub.Run(gctx)
	})

	go func() {
		if err := http.ListenAndServe(":"+config.ProfPort, nil); err != nil {
			logger.Errorf("pprof default server: %v", err)
		}
	}()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
