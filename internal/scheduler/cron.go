package scheduler

import (
	"context"
	"fmt"

	"github.com/amaumene/mediatrakker/internal/controllers"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	schedule    string
	cleanupCtrl *controllers.CleanupController
	logger      *logrus.Logger
}

// NewScheduler creates a new scheduler running cleanup on schedule
func NewScheduler(schedule string, cleanupCtrl *controllers.CleanupController, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		schedule:    schedule,
		cleanupCtrl: cleanupCtrl,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("failed to add cleanup job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runCleanup executes the orphan catalog cleanup job
func (s *Scheduler) runCleanup() {
	s.logger.Info("Running scheduled catalog cleanup")

	removed, err := s.cleanupCtrl.CleanupOrphanMedia(context.Background())
	if err != nil {
		s.logger.WithError(err).Error("Cleanup job failed")
		return
	}
	s.logger.WithField("removed", removed).Info("Cleanup job completed successfully")
}
