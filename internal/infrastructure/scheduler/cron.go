package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yanuaroby/rupiahemas/internal/ports"
)

// CronScheduler triggers jobs on a five-field cron expression
// evaluated in the configured timezone.
type CronScheduler struct {
	spec         string
	location     *time.Location
	weekdaysOnly bool
	logger       *slog.Logger
	runner       *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler. weekdaysOnly additionally skips
// Saturday and Sunday triggers, for specs without a weekday field.
func NewCronScheduler(spec string, loc *time.Location, weekdaysOnly bool, logger *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CronScheduler{
		spec:         spec,
		location:     loc,
		weekdaysOnly: weekdaysOnly,
		logger:       logger,
	}
}

// Start registers the job and begins ticking. Double starts are
// ignored.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if c.runner != nil {
		return nil
	}

	runner := cron.New(cron.WithLocation(c.location))
	_, err := runner.AddFunc(c.spec, func() {
		now := time.Now().In(c.location)
		if !shouldRun(now, c.weekdaysOnly) {
			c.logger.Info("skipping weekend trigger", "day", now.Weekday().String())
			return
		}
		job(now)
	})
	if err != nil {
		return fmt.Errorf("parse cron spec %q: %w", c.spec, err)
	}

	c.runner = runner
	runner.Start()
	c.logger.Info("scheduler started", "spec", c.spec, "timezone", c.location.String())
	return nil
}

// Stop halts the ticker and waits for a running job to finish or the
// context to expire.
func (c *CronScheduler) Stop(ctx context.Context) error {
	if c.runner == nil {
		return nil
	}
	done := c.runner.Stop().Done()
	c.runner = nil

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func shouldRun(t time.Time, weekdaysOnly bool) bool {
	if !weekdaysOnly {
		return true
	}
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
