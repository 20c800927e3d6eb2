package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/rupiahemas/internal/config"
	"github.com/yanuaroby/rupiahemas/internal/extract"
	"github.com/yanuaroby/rupiahemas/internal/infrastructure/llm"
	"github.com/yanuaroby/rupiahemas/internal/infrastructure/scheduler"
	"github.com/yanuaroby/rupiahemas/internal/infrastructure/scraper"
	"github.com/yanuaroby/rupiahemas/internal/infrastructure/storage"
	"github.com/yanuaroby/rupiahemas/internal/infrastructure/telegram"
	"github.com/yanuaroby/rupiahemas/internal/logging"
	"github.com/yanuaroby/rupiahemas/internal/ports"
	"github.com/yanuaroby/rupiahemas/internal/usecase"
)

const stopTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	refs     ports.ReferenceStore
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance: reference store, scraper,
// summarizer and notifier, all wired into the pipeline from cfg.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	refs, err := storage.Open(cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open reference store: %w", err)
	}

	source := scraper.NewBloomberg(
		&http.Client{Timeout: cfg.Scraper.Timeout()},
		scraper.Options{
			BaseURL:    cfg.Scraper.BaseURL,
			UserAgent:  cfg.Scraper.UserAgent,
			MaxResults: cfg.Scraper.MaxResults,
		},
		baseLogger.With("component", "scraper"),
	)

	summarizer := llm.NewGroq(cfg.Groq, baseLogger.With("component", "summarizer"))

	notifier, err := telegram.NewNotifier(cfg.Notifications.Telegram, baseLogger.With("component", "telegram"))
	if err != nil {
		refs.Close()
		return nil, fmt.Errorf("build telegram notifier: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:         source,
		Summarizer:     summarizer,
		Notifier:       notifier,
		Refs:           refs,
		Registry:       extract.Default(),
		FallbackUSDIDR: decimal.NewFromInt(cfg.Rates.FallbackUSDIDR),
		Location:       cfg.Scheduler.Location(),
		Logger:         baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, refs: refs, pipeline: pipeline}, nil
}

// RunOnce performs a single pipeline execution at the current wall
// clock and reports which scripts went out.
func (a *Application) RunOnce(ctx context.Context) usecase.Results {
	return a.pipeline.Run(ctx, time.Now())
}

// RunScheduled starts the cron-driven daily loop and blocks until ctx
// is cancelled, then waits for a running job to finish.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(
		a.cfg.Scheduler.CronExpression,
		a.cfg.Scheduler.Location(),
		a.cfg.Scheduler.WeekdaysOnly,
		a.logger.With("component", "cron"),
	)
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return sched.Stop(stopCtx)
}

// Close releases long-lived resources, currently the reference store.
func (a *Application) Close() error {
	if a.refs == nil {
		return nil
	}
	return a.refs.Close()
}
