package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/denysvitali/plusfind/network"
	"github.com/denysvitali/plusfind/planner"
)

// StationSource fetches the full station collection.
type StationSource interface {
	GetAllStations(ctx context.Context) network.Response[[]planner.ChargingStation]
}

// Refresher periodically replaces the store's collection with a fresh copy
// from the source. A failed fetch leaves the store untouched.
type Refresher struct {
	source    StationSource
	store     *Store
	metrics   *Metrics
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewRefresher(source StationSource, store *Store, interval time.Duration, metrics *Metrics) (*Refresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Refresher{
		source:    source,
		store:     store,
		metrics:   metrics,
		interval:  interval,
		scheduler: s,
	}, nil
}

// RefreshNow fetches the collection once and installs it.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	res := r.source.GetAllStations(ctx)
	err := res.Err()
	r.metrics.observeRefresh(err)
	if err != nil {
		return fmt.Errorf("station refresh failed: %w", err)
	}
	r.store.Replace(res.Data)
	return nil
}

// Start schedules refreshes every interval until Stop is called. ctx bounds
// each fetch.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			if err := r.RefreshNow(ctx); err != nil {
				log.Warnf("%v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	r.scheduler.Start()
	return nil
}

func (r *Refresher) Stop() error {
	return r.scheduler.Shutdown()
}
