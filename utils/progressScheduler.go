package utils

import (
	"lms/services"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeProgressScheduler schedules the progress reconciliation job. The
// returned cron is already started; Stop it on shutdown.
func InitializeProgressScheduler(db *gorm.DB, schedule string) (*cron.Cron, error) {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		log.Println("[PROGRESS-SCHEDULER] Running progress reconciliation...")
		ReconcileProgress(db)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[PROGRESS-SCHEDULER] Progress scheduler started - runs on %q", schedule)
	return c, nil
}

// ReconcileProgress brings every stored enrollment progress in line with the
// current lecture sets of its course
func ReconcileProgress(db *gorm.DB) {
	updated, err := services.ReconcileAllProgress(db)
	if err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error reconciling progress: %v", err)
	}
	if updated > 0 {
		log.Printf("[PROGRESS-SCHEDULER] Updated progress on %d enrollments", updated)
	}
}
