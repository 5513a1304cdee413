package content

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartCacheWarmCron refreshes cached source listings on schedule (standard 5-field cron expression).
// It also runs once at startup as a cron job, so stopping the returned cron
// waits for that run too. The returned cron must be stopped on shutdown.
func StartCacheWarmCron(schedule string, agg *Aggregator, timeout time.Duration, log *zap.Logger) (*cron.Cron, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("cache-cron")

	refresh := cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res := agg.Warm(ctx)
		log.Info("content cache refreshed", zap.Int("items", len(res.Items)))
	})

	c := cron.New()
	if _, err := c.AddJob(schedule, refresh); err != nil {
		return nil, err
	}
	c.Schedule(&onceSchedule{}, refresh)
	c.Start()
	log.Info("scheduler started", zap.String("schedule", schedule))
	return c, nil
}

// onceSchedule fires immediately on its first activation and never again.
type onceSchedule struct {
	fired bool
}

func (s *onceSchedule) Next(t time.Time) time.Time {
	if s.fired {
		return time.Time{}
	}
	s.fired = true
	return t
}
