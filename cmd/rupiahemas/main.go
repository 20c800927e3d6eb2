package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/yanuaroby/rupiahemas/internal/app"
	"github.com/yanuaroby/rupiahemas/internal/config"
	"github.com/yanuaroby/rupiahemas/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	once := flag.Bool("once", false, "run the pipeline a single time and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application failed to start", "error", err)
		return 1
	}
	defer application.Close()

	if *once {
		if results := application.RunOnce(ctx); !results.AnyDelivered() {
			logger.Error("run delivered nothing")
			return 1
		}
		return 0
	}

	if err := application.RunScheduled(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		return 1
	}
	return 0
}
