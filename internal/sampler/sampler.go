// Package sampler keeps the price history populated between user
// requests by taking scheduled market snapshots.
package sampler

import (
	"context"
	"log/slog"
	"time"

	robfigcron "github.com/robfig/cron/v3"
)

// PriceSource fetches the current gold unit price.
type PriceSource interface {
	UnitPrice(ctx context.Context) (float64, error)
}

// Recorder writes rate-limited price samples.
type Recorder interface {
	Record(ctx context.Context, price float64) error
}

// Service samples the gold price on a fixed schedule so charts have
// history even when nobody is asking.
type Service struct {
	scheduler *robfigcron.Cron
	prices    PriceSource
	recorder  Recorder
	timeout   time.Duration
}

func NewService(prices PriceSource, recorder Recorder) *Service {
	return &Service{
		scheduler: robfigcron.New(),
		prices:    prices,
		recorder:  recorder,
		timeout:   30 * time.Second,
	}
}

// Start registers the sample job and begins the scheduler. The schedule
// uses cron syntax, including descriptors like "@every 30m".
func (s *Service) Start(schedule string) error {
	if _, err := s.scheduler.AddFunc(schedule, s.Sample); err != nil {
		return err
	}
	s.scheduler.Start()
	slog.Info("sampler: started", "schedule", schedule)
	return nil
}

// Stop stops the scheduler. Running jobs finish.
func (s *Service) Stop() {
	s.scheduler.Stop()
}

// Sample takes one price snapshot. Failures are logged; the next tick
// tries again.
func (s *Service) Sample() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	price, err := s.prices.UnitPrice(ctx)
	if err != nil {
		slog.Error("sampler: price fetch failed", "error", err)
		return
	}
	if err := s.recorder.Record(ctx, price); err != nil {
		slog.Error("sampler: failed to record sample", "error", err)
		return
	}
	slog.Info("sampler: recorded price sample", "price", price)
}
