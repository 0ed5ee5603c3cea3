package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Recorder writes price samples, skipping writes while the latest
// sample is younger than the cooldown window.
type Recorder struct {
	store    Store
	cooldown time.Duration
	now      func() time.Time
}

func NewRecorder(store Store, cooldown time.Duration) *Recorder {
	return &Recorder{store: store, cooldown: cooldown, now: time.Now}
}

// WithClock overrides the recorder's clock, for tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record stores one sample unless the cooldown window is still open.
func (r *Recorder) Record(ctx context.Context, price float64) error {
	latest, err := r.store.Latest(ctx)
	if err != nil {
		return fmt.Errorf("pricing: failed to read latest sample: %w", err)
	}

	now := r.now()
	if latest != nil {
		age := now.Sub(time.UnixMilli(latest.Timestamp))
		if age < r.cooldown {
			slog.Debug("pricing: skipping sample inside cooldown", "age", age, "cooldown", r.cooldown)
			return nil
		}
	}

	if err := r.store.Put(ctx, Record{Timestamp: now.UnixMilli(), Price: price}); err != nil {
		return err
	}
	slog.Info("pricing: recorded gold price", "price", price)
	return nil
}
