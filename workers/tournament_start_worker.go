package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// StartTournamentsJob names the scheduled job in logs and metrics
const StartTournamentsJob = "start_tournaments"

// TournamentStarter moves due tournaments to live
type TournamentStarter interface {
	StartDueTournaments(ctx context.Context, now time.Time) (int, error)
}

// RunObserver is told about every job run
type RunObserver interface {
	RecordSchedulerRun(job string, started int, err error)
}

// TournamentStartWorker periodically starts upcoming tournaments whose start time has passed
type TournamentStartWorker struct {
	starter  TournamentStarter
	interval time.Duration
	observer RunObserver
	now      func() time.Time
}

// NewTournamentStartWorker creates the worker. observer may be nil.
func NewTournamentStartWorker(starter TournamentStarter, interval time.Duration, observer RunObserver) *TournamentStartWorker {
	return &TournamentStartWorker{
		starter:  starter,
		interval: interval,
		observer: observer,
		now:      time.Now,
	}
}

// Start schedules the job and returns a function that stops the scheduler
func (w *TournamentStartWorker) Start(ctx context.Context) (func() error, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.RunOnce(ctx); err != nil {
				log.WithFields(log.Fields{
					"job":   StartTournamentsJob,
					"error": err,
				}).Error("Scheduled job failed")
			}
		}),
		gocron.WithName(StartTournamentsJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule %s: %w", StartTournamentsJob, err)
	}

	scheduler.Start()
	log.WithField("interval", w.interval).Info("Tournament start worker started")

	return func() error {
		log.Info("Tournament start worker shutting down...")
		return scheduler.Shutdown()
	}, nil
}

// RunOnce starts every due tournament and reports how many went live
func (w *TournamentStartWorker) RunOnce(ctx context.Context) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	started, err := w.starter.StartDueTournaments(ctx, w.now())
	if w.observer != nil {
		w.observer.RecordSchedulerRun(StartTournamentsJob, started, err)
	}
	if err != nil {
		return started, fmt.Errorf("failed to start due tournaments: %w", err)
	}

	if started > 0 {
		log.WithField("count", started).Info("Started due tournaments")
	}
	return started, nil
}
