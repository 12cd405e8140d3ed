package services

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"account-research-report/internal/database"

	"github.com/robfig/cron/v3"
)

// RetentionService retires terminal tasks on a schedule. A retired task stops
// appearing in listings and its artifact directory is removed; this is the
// only way a task ever leaves the system.
type RetentionService struct {
	tasks   *TaskService
	archive *database.MongoDBClient // optional
	maxAge  time.Duration
	cron    *cron.Cron
}

// NewRetentionService creates a new retention service
func NewRetentionService(tasks *TaskService, archive *database.MongoDBClient, maxAge time.Duration) *RetentionService {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &RetentionService{
		tasks:   tasks,
		archive: archive,
		maxAge:  maxAge,
		cron:    c,
	}
}

// Start schedules the hourly retention sweep and starts the scheduler
func (s *RetentionService) Start() error {
	// Top of every hour: second minute hour day month weekday
	if _, err := s.cron.AddFunc("0 0 * * * *", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("Retention cron scheduler started")
	return nil
}

// Stop stops the cron scheduler
func (s *RetentionService) Stop() {
	s.cron.Stop()
	log.Println("Retention cron scheduler stopped")
}

// Sweep retires terminal tasks older than the retention age and cleans up
// their artifacts. Exposed so tests and operators can trigger it directly.
func (s *RetentionService) Sweep() {
	cutoff := time.Now().Add(-s.maxAge)
	retired := s.tasks.RetireTasksBefore(cutoff)

	for _, task := range retired {
		log.Printf("Retiring task %s (status %s, updated %s)", task.ID, task.Status, task.UpdatedAt.Format(time.RFC3339))

		if task.ArtifactPath != "" {
			if err := os.RemoveAll(filepath.Dir(task.ArtifactPath)); err != nil {
				log.Printf("WARNING: failed to remove artifact for task %s: %v", task.ID, err)
			}
		}

		if s.archive != nil {
			if err := s.archive.DeleteByCacheKey(database.GenerateCacheKey(task.Request)); err != nil {
				log.Printf("WARNING: failed to remove archive entry for task %s: %v", task.ID, err)
			}
		}
	}
}
