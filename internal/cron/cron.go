package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taskforge-labs/taskforge-backend/internal/config"
	"github.com/taskforge-labs/taskforge-backend/internal/repository"
	"github.com/taskforge-labs/taskforge-backend/internal/service"
)

// Scheduler handles scheduled housekeeping tasks
type Scheduler struct {
	cron          *cron.Cron
	cfg           *config.Config
	notifSvc      service.NotificationService
	timeEntryRepo repository.TimeEntryRepository
}

func NewScheduler(cfg *config.Config, notifSvc service.NotificationService, timeEntryRepo repository.TimeEntryRepository) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		cfg:           cfg,
		notifSvc:      notifSvc,
		timeEntryRepo: timeEntryRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Clean up old read notifications - Run every Sunday at midnight
	s.cron.AddFunc("0 0 * * 0", func() {
		log.Println("[Cron] Running notification cleanup...")
		s.cleanupOldNotifications()
	})

	// Close forgotten timers - Run every hour
	s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Running stale timer cleanup...")
		s.stopStaleTimers()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) cleanupOldNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.cfg.NotificationRetentionDays)
	deleted, err := s.notifSvc.PurgeRead(ctx, cutoff)
	if err != nil {
		log.Printf("[Cron] notification cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] deleted %d read notifications older than %s", deleted, cutoff.Format("2006-01-02"))
	}
}

func (s *Scheduler) stopStaleTimers() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-time.Duration(s.cfg.StaleTimerMaxHours) * time.Hour)
	stopped, err := s.timeEntryRepo.StopStale(ctx, cutoff)
	if err != nil {
		log.Printf("[Cron] stale timer cleanup failed: %v", err)
		return
	}
	if stopped > 0 {
		log.Printf("[Cron] closed %d timers running longer than %dh", stopped, s.cfg.StaleTimerMaxHours)
	}
}
