package cron

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/services"
)

type recordingMailer struct {
	sent int
}

func (m *recordingMailer) Send(to, subject, htmlBody string) error {
	m.sent++
	return nil
}

func (m *recordingMailer) Verify() error { return nil }

func newTestManager(t *testing.T) (*CronManager, *gorm.DB, *recordingMailer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&model.Student{},
		&model.Staff{},
		&model.Appointment{},
		&model.ActionItem{},
		&model.FollowUpEmail{},
		&model.CronJobLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	mailer := &recordingMailer{}
	notifier := services.NewNotificationService(db, mailer, "Atma Chethana")
	return NewCronManager(db, notifier), db, mailer
}

func TestCleanupExpiredOTPs(t *testing.T) {
	manager, db, _ := newTestManager(t)

	expired := "1234"
	fresh := "5678"
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	stale := model.Student{
		FirstName: "Stale", LastName: "Code", Email: "stale@test.com",
		Password: "x", OTP: &expired, OTPExpires: &past,
	}
	valid := model.Student{
		FirstName: "Valid", LastName: "Code", Email: "valid@test.com",
		Password: "x", OTP: &fresh, OTPExpires: &future,
	}
	db.Create(&stale)
	db.Create(&valid)

	manager.CleanupExpiredOTPs()

	var reloaded model.Student
	db.First(&reloaded, stale.ID)
	if reloaded.OTP != nil || reloaded.OTPExpires != nil {
		t.Error("expired OTP pair not cleared")
	}
	reloaded = model.Student{}
	db.First(&reloaded, valid.ID)
	if reloaded.OTP == nil {
		t.Error("unexpired OTP was cleared")
	}
}

func TestPurgeUnverifiedSignups(t *testing.T) {
	manager, db, _ := newTestManager(t)

	old := model.Student{
		FirstName: "Old", LastName: "Signup", Email: "old@test.com",
		Password: "x", IsVerified: false,
	}
	recent := model.Student{
		FirstName: "Recent", LastName: "Signup", Email: "recent@test.com",
		Password: "x", IsVerified: false,
	}
	verified := model.Student{
		FirstName: "Verified", LastName: "User", Email: "verified@test.com",
		Password: "x", IsVerified: true,
	}
	db.Create(&old)
	db.Create(&recent)
	db.Create(&verified)
	db.Model(&old).Update("created_at", time.Now().AddDate(0, 0, -10))
	db.Model(&verified).Update("created_at", time.Now().AddDate(0, 0, -30))

	manager.PurgeUnverifiedSignups()

	var count int64
	db.Model(&model.Student{}).Count(&count)
	if count != 2 {
		t.Errorf("remaining students = %d, want 2", count)
	}
	var gone model.Student
	if err := db.Unscoped().First(&gone, old.ID).Error; err == nil {
		t.Error("stale unverified signup survived the purge")
	}
}

func TestSendFollowUpReminders(t *testing.T) {
	manager, db, mailer := newTestManager(t)

	student := model.Student{
		FirstName: "Follow", LastName: "Up", Email: "follow@test.com",
		Password: "x", IsVerified: true,
	}
	db.Create(&student)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
	nextWeek := today.AddDate(0, 0, 7)

	due := model.Appointment{
		StudentID: student.ID, RequestedDate: today.AddDate(0, 0, -14),
		Status: model.StatusCompleted, Type: "Academic",
		FollowUpRequired: true, FollowUpDate: &today,
	}
	notYet := model.Appointment{
		StudentID: student.ID, RequestedDate: today.AddDate(0, 0, -7),
		Status: model.StatusCompleted, Type: "Career",
		FollowUpRequired: true, FollowUpDate: &nextWeek,
	}
	noFollowUp := model.Appointment{
		StudentID: student.ID, RequestedDate: today,
		Status: model.StatusCompleted, Type: "Personal",
	}
	db.Create(&due)
	db.Create(&notYet)
	db.Create(&noFollowUp)

	manager.SendFollowUpReminders()

	if mailer.sent != 1 {
		t.Errorf("sent %d reminders, want 1", mailer.sent)
	}

	var audits int64
	db.Model(&model.FollowUpEmail{}).Where("appointment_id = ?", due.ID).Count(&audits)
	if audits != 1 {
		t.Errorf("audit rows = %d, want 1", audits)
	}
}
