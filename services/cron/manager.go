package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/services"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron     *cron.Cron
	db       *gorm.DB
	notifier *services.NotificationService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, notifier *services.NotificationService) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:     c,
		db:       db,
		notifier: notifier,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every 15 minutes: clear expired OTP fields
	_, err := m.cron.AddFunc("0 */15 * * * *", func() {
		m.logJobStart("cleanup_expired_otps")
		m.CleanupExpiredOTPs()
	})
	if err != nil {
		return err
	}

	// Daily at 2 AM: purge stale unverified signups
	_, err = m.cron.AddFunc("0 0 2 * * *", func() {
		m.logJobStart("purge_unverified_signups")
		m.PurgeUnverifiedSignups()
	})
	if err != nil {
		return err
	}

	// Daily at 8 AM: send follow-up reminder emails
	_, err = m.cron.AddFunc("0 0 8 * * *", func() {
		m.logJobStart("send_followup_reminders")
		m.SendFollowUpReminders()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
		Metadata:  datatypes.JSON("{}"),
	}
	m.db.Create(&cronLog)
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "completed",
			"completed_at": time.Now(),
			"message":      message,
		})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "failed",
			"completed_at": time.Now(),
			"error_msg":    err.Error(),
		})
}
