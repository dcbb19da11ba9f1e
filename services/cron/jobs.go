package cron

import (
	"fmt"
	"time"

	"github.com/atma-chethana/counselling-api/model"
)

// CleanupExpiredOTPs clears OTP pairs whose expiry has passed. Expired codes
// are useless but would otherwise let a stale reset-confirm slip through the
// "OTP cleared means verified" check.
func (m *CronManager) CleanupExpiredOTPs() {
	const jobName = "cleanup_expired_otps"

	result := m.db.Model(&model.Student{}).
		Where("otp IS NOT NULL AND otp_expires < ?", time.Now()).
		Updates(map[string]interface{}{
			"otp":         nil,
			"otp_expires": nil,
		})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("cleared %d expired OTPs", result.RowsAffected))
}

// PurgeUnverifiedSignups removes student records that never completed OTP
// verification within seven days.
func (m *CronManager) PurgeUnverifiedSignups() {
	const jobName = "purge_unverified_signups"

	cutoff := time.Now().AddDate(0, 0, -7)
	result := m.db.Unscoped().
		Where("is_verified = ? AND created_at < ?", false, cutoff).
		Delete(&model.Student{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("purged %d unverified signups", result.RowsAffected))
}

// SendFollowUpReminders emails students whose completed appointments have a
// follow-up scheduled for today. Each delivery appends a FollowUpEmail row
// through the notification service.
func (m *CronManager) SendFollowUpReminders() {
	const jobName = "send_followup_reminders"

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var due []model.Appointment
	err := m.db.
		Preload("Student").
		Where("follow_up_required = ? AND follow_up_date >= ? AND follow_up_date < ?", true, today, tomorrow).
		Find(&due).Error
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	sent := 0
	for _, apt := range due {
		message := fmt.Sprintf(
			"This is a reminder about the follow-up from your %s session.\nPlease reach out to the counselling office to schedule your next appointment.",
			apt.Type,
		)

		system := model.Principal{Role: model.RoleAdmin}
		aptID := apt.ID
		if _, err := m.notifier.SendFollowUp(system, apt.StudentID, "", message, &aptID); err != nil {
			m.logJobError(jobName, fmt.Errorf("appointment %d: %w", apt.ID, err))
			return
		}
		sent++
	}

	m.logJobComplete(jobName, fmt.Sprintf("sent %d follow-up reminders", sent))
}
