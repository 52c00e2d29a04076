package transcript

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Reaper periodically ends sessions that have been idle longer than a TTL
type Reaper struct {
	store Store
	ttl   time.Duration
	cron  *cron.Cron
	now   func() time.Time
}

// NewReaper schedules an expiry sweep on the given cron spec (e.g. "@every 5m")
func NewReaper(store Store, ttl time.Duration, spec string) (*Reaper, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}

	r := &Reaper{
		store: store,
		ttl:   ttl,
		cron:  cron.New(),
		now:   time.Now,
	}

	if _, err := r.cron.AddFunc(spec, r.run); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	return r, nil
}

// Start begins running scheduled sweeps in the background
func (r *Reaper) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
}

// Sweep ends all sessions idle for longer than the TTL
func (r *Reaper) Sweep(ctx context.Context) (int, error) {
	return r.store.ExpireSessions(ctx, r.now().Add(-r.ttl))
}

// run is the cron job body
func (r *Reaper) run() {
	count, err := r.Sweep(context.Background())
	if err != nil {
		log.Printf("[TRANSCRIPT]: Failed to expire idle sessions: %v", err)
		return
	}

	if count > 0 {
		log.Printf("[TRANSCRIPT]: Ended %d idle session(s)", count)
	}
}
