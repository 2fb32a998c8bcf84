// Package janitor reclaims chat messages orphaned by project deletion.
// Project deletes do not cascade, so rows whose project is gone accumulate
// until the sweep removes them.
package janitor

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ai-creative-studio/studio-backend/internal/storage"
)

// DefaultSchedule runs the sweep every ten minutes.
const DefaultSchedule = "@every 10m"

type Janitor struct {
	store    storage.Store
	schedule string
	cron     *cron.Cron
}

func New(store storage.Store, schedule string) *Janitor {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Janitor{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep and begins the schedule.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.SweepOnce(context.Background())
	}); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// SweepOnce runs a single orphan sweep and logs the outcome.
func (j *Janitor) SweepOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	removed, err := j.store.DeleteOrphanMessages(ctx)
	if err != nil {
		log.Printf("[error] operation=orphan_sweep error=%v", err)
		return
	}
	if removed > 0 {
		log.Printf("[info] operation=orphan_sweep removed=%d", removed)
	}
}
