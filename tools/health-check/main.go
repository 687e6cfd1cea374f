package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/docbreaker-games/docbreaker/internal/client"
	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/docbreaker-games/docbreaker/internal/shutdown"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	flag.Parse()
	ctx, cancel := shutdown.New()
	logger := logging.FromContext(ctx)
	defer cancel()

	config := client.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logger.Fatalf("processing the config: %v", err)
	}

	if err := client.New(config).Health(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stdout, err)
		os.Exit(1)
	}

	_, _ = fmt.Fprintln(os.Stdout, "ok")
}
