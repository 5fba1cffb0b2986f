package scheduler

import (
	"context"
	"time"

	"brightnest-properties/internal/services"
	"brightnest-properties/pkg/config"
	"brightnest-properties/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the orphan-photo reconciliation sweep on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *services.PhotoReconciler
	config     *config.Config
	isRunning  bool
}

func NewScheduler(reconciler *services.PhotoReconciler, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		config:     cfg,
	}
}

// Start registers the sweep job and starts the cron loop. Disabled
// schedulers return nil so the server boots without sweeps.
func (s *Scheduler) Start() error {
	if !s.config.Reconciler.Enabled {
		logger.GlobalLogger.Println("Scheduler: reconciliation sweep is disabled in configuration")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.Reconciler.Schedule, func() {
		logger.GlobalLogger.Println("Scheduler: starting photo reconciliation sweep...")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		associations, err := s.reconciler.Reconcile(ctx)
		if err != nil {
			logger.GlobalLogger.Errorf("Scheduler: reconciliation sweep failed: %v", err)
			return
		}
		logger.GlobalLogger.Printf("Scheduler: reconciliation sweep completed, %d photos associated", len(associations))
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	logger.GlobalLogger.Printf("Scheduler: started with schedule %q (batch size %d)", s.config.Reconciler.Schedule, s.config.Reconciler.BatchSize)
	return nil
}

// Stop halts the cron loop. Jobs already running finish on their own.
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		logger.GlobalLogger.Println("Scheduler: stopped")
	}
}
