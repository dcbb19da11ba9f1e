package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atma-chethana/counselling-api/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Student{},
		&model.StudentSubject{},
		&model.StudentInterest{},
		&model.Staff{},
		&model.Appointment{},
		&model.ActionItem{},
		&model.RecurringPattern{},
		&model.FollowUpEmail{},
		&model.CronJobLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedStudent(t *testing.T, db *gorm.DB, email string) *model.Student {
	t.Helper()

	student := model.Student{
		FirstName:  "Test",
		LastName:   "Student",
		Email:      email,
		Password:   "not-a-real-hash",
		Role:       model.RoleStudent,
		Status:     model.StudentActive,
		IsVerified: true,
		IsActive:   true,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}
	return &student
}

func seedStaff(t *testing.T, db *gorm.DB, email string, role model.Role) *model.Staff {
	t.Helper()

	staff := model.Staff{
		Name:     "Test Staff",
		Email:    email,
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("failed to seed staff: %v", err)
	}
	return &staff
}

func seedAppointment(t *testing.T, db *gorm.DB, studentID uint, status model.AppointmentStatus, requestedDate time.Time) *model.Appointment {
	t.Helper()

	appointment := model.Appointment{
		StudentID:     studentID,
		RequestedDate: requestedDate,
		RequestedTime: "10:00",
		Type:          "Academic",
		Priority:      "Medium",
		Status:        status,
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("failed to seed appointment: %v", err)
	}
	return &appointment
}

func TestParseAppointmentDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2024-03-10", false},
		{"2024-03-10T14:30:00Z", false},
		{"10/03/2024", true},
		{"tomorrow", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := ParseAppointmentDate(tt.input)
		if tt.wantErr && !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseAppointmentDate(%q) = %v, want ErrInvalidDate", tt.input, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ParseAppointmentDate(%q) unexpected error: %v", tt.input, err)
		}
	}
}

func TestCreateForcesStudentOwnership(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	owner := seedStudent(t, db, "owner@test.com")
	other := seedStudent(t, db, "other@test.com")

	// A student supplying someone else's id still creates for themselves.
	appointment, err := svc.Create(owner.Principal(), CreateAppointmentInput{
		StudentID:     other.ID,
		RequestedDate: "2024-05-01",
		RequestedTime: "11:00",
		Type:          "Career",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if appointment.StudentID != owner.ID {
		t.Errorf("StudentID = %d, want %d (the caller)", appointment.StudentID, owner.ID)
	}
	if appointment.Status != model.StatusPending {
		t.Errorf("Status = %q, want Pending", appointment.Status)
	}
}

func TestCreateRequiresStudent(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)

	_, err := svc.Create(staff.Principal(), CreateAppointmentInput{
		RequestedDate: "2024-05-01",
	})
	if !errors.Is(err, ErrStudentRequired) {
		t.Errorf("Create without studentId = %v, want ErrStudentRequired", err)
	}
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)
	student := seedStudent(t, db, "student@test.com")

	_, err := svc.Create(student.Principal(), CreateAppointmentInput{
		RequestedDate: "2024-05-01",
		Status:        "Scheduled",
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Create with unknown status = %v, want ErrInvalidStatus", err)
	}
}

func TestCreateWithStatusStrictPolicy(t *testing.T) {
	db := openTestDB(t)
	student := seedStudent(t, db, "student@test.com")

	// Permissive mode lets a student create directly in Confirmed.
	permissive := NewAppointmentService(db, false)
	appointment, err := permissive.Create(student.Principal(), CreateAppointmentInput{
		RequestedDate: "2024-05-01",
		Status:        string(model.StatusConfirmed),
	})
	if err != nil {
		t.Fatalf("permissive Create failed: %v", err)
	}
	if appointment.Status != model.StatusConfirmed {
		t.Errorf("Status = %q, want Confirmed", appointment.Status)
	}

	// Strict mode reserves non-Pending initial states for staff.
	strict := NewAppointmentService(db, true)
	if _, err := strict.Create(student.Principal(), CreateAppointmentInput{
		RequestedDate: "2024-05-02",
		Status:        string(model.StatusConfirmed),
	}); !errors.Is(err, ErrForbidden) {
		t.Errorf("strict Create = %v, want ErrForbidden", err)
	}

	staff := seedStaff(t, db, "admin@test.com", model.RoleAdmin)
	if _, err := strict.Create(staff.Principal(), CreateAppointmentInput{
		StudentID:     student.ID,
		RequestedDate: "2024-05-02",
		Status:        string(model.StatusConfirmed),
	}); err != nil {
		t.Errorf("strict staff Create failed: %v", err)
	}
}

func TestUpdateNonOwnerForbidden(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	owner := seedStudent(t, db, "owner@test.com")
	intruder := seedStudent(t, db, "intruder@test.com")
	appointment := seedAppointment(t, db, owner.ID, model.StatusPending, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	reason := "hijacked"
	_, err := svc.Update(intruder.Principal(), appointment.ID, UpdateAppointmentInput{Reason: &reason})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Update by non-owner = %v, want ErrForbidden", err)
	}

	var reloaded model.Appointment
	if err := db.First(&reloaded, appointment.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Reason != "" {
		t.Errorf("Reason = %q, record changed by a forbidden update", reloaded.Reason)
	}
}

func TestUpdateRescheduleResetsConfirmation(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)

	appointment, err := svc.Create(student.Principal(), CreateAppointmentInput{
		RequestedDate: "2024-05-01",
		RequestedTime: "10:00",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	appointment, err = svc.Confirm(staff.Principal(), appointment.ID, "2024-05-02", "14:00")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if appointment.Status != model.StatusConfirmed || appointment.ConfirmedDate == nil || appointment.ConfirmedTime == nil {
		t.Fatalf("Confirm did not set status and confirmation pair: %+v", appointment)
	}

	// The owning student moves the requested slot; the confirmation is void.
	newDate := "2024-05-10"
	appointment, err = svc.Update(student.Principal(), appointment.ID, UpdateAppointmentInput{RequestedDate: &newDate})
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if appointment.Status != model.StatusPending {
		t.Errorf("Status after reschedule = %q, want Pending", appointment.Status)
	}
	if appointment.ConfirmedDate != nil || appointment.ConfirmedTime != nil {
		t.Errorf("confirmation pair not cleared: date=%v time=%v", appointment.ConfirmedDate, appointment.ConfirmedTime)
	}
	if got := appointment.RequestedDate.Format("2006-01-02"); got != newDate {
		t.Errorf("RequestedDate = %s, want %s", got, newDate)
	}
}

func TestUpdateDisallowedFieldsOnly(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	appointment := seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	// sessionSummary and status are counsellor fields; a student patch made
	// of nothing else is an error, not a silent no-op.
	summary := "sneaky"
	status := string(model.StatusCompleted)
	_, err := svc.Update(student.Principal(), appointment.ID, UpdateAppointmentInput{
		SessionSummary: &summary,
		Status:         &status,
	})
	if !errors.Is(err, ErrNoValidFields) {
		t.Fatalf("Update = %v, want ErrNoValidFields", err)
	}

	var reloaded model.Appointment
	if err := db.First(&reloaded, appointment.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.SessionSummary != "" || reloaded.Status != model.StatusPending {
		t.Errorf("record changed by a rejected update: %+v", reloaded)
	}
}

func TestUpdateCounsellorCanSetStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)
	appointment := seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	status := string(model.StatusCancelled)
	notes := "student requested cancellation"
	updated, err := svc.Update(staff.Principal(), appointment.ID, UpdateAppointmentInput{
		Status:          &status,
		PreSessionNotes: &notes,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != model.StatusCancelled {
		t.Errorf("Status = %q, want Cancelled", updated.Status)
	}
	if updated.PreSessionNotes != notes {
		t.Errorf("PreSessionNotes = %q, want %q", updated.PreSessionNotes, notes)
	}
}

func TestConfirmKeepsExistingValues(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)
	appointment := seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	confirmed, err := svc.Confirm(staff.Principal(), appointment.ID, "2024-05-02", "15:00")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// Confirming again with no payload keeps the previous pair.
	confirmed, err = svc.Confirm(staff.Principal(), appointment.ID, "", "")
	if err != nil {
		t.Fatalf("re-Confirm failed: %v", err)
	}
	if confirmed.ConfirmedDate == nil || confirmed.ConfirmedDate.Format("2006-01-02") != "2024-05-02" {
		t.Errorf("ConfirmedDate = %v, want 2024-05-02", confirmed.ConfirmedDate)
	}
	if confirmed.ConfirmedTime == nil || *confirmed.ConfirmedTime != "15:00" {
		t.Errorf("ConfirmedTime = %v, want 15:00", confirmed.ConfirmedTime)
	}
}

func TestConfirmMissingAppointment(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)
	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)

	if _, err := svc.Confirm(staff.Principal(), 999, "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Confirm(999) = %v, want ErrNotFound", err)
	}
}

func TestCompleteCreatesActionItems(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	appointment := seedAppointment(t, db, student.ID, model.StatusConfirmed, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	completed, err := svc.Complete(appointment.ID, CompleteAppointmentInput{
		SessionSummary:  "Good progress",
		Recommendations: "Weekly check-ins",
		FollowUpDate:    "2024-05-15",
		ActionItems:     []string{"Practice breathing exercises", "Keep a journal"},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != model.StatusCompleted {
		t.Errorf("Status = %q, want Completed", completed.Status)
	}
	if len(completed.ActionItems) != 2 {
		t.Errorf("ActionItems = %d, want 2", len(completed.ActionItems))
	}
	if completed.FollowUpDate == nil {
		t.Error("FollowUpDate not set")
	}

	// Empty action items create nothing.
	other := seedAppointment(t, db, student.ID, model.StatusConfirmed, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	completed, err = svc.Complete(other.ID, CompleteAppointmentInput{SessionSummary: "Brief session"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if len(completed.ActionItems) != 0 {
		t.Errorf("ActionItems = %d, want 0", len(completed.ActionItems))
	}
}

func TestCompleteRollsBackTogether(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	appointment := seedAppointment(t, db, student.ID, model.StatusConfirmed, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	// Break the action item table so the insert inside the transaction fails.
	if err := db.Migrator().DropTable(&model.ActionItem{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := svc.Complete(appointment.ID, CompleteAppointmentInput{
		SessionSummary: "should not stick",
		ActionItems:    []string{"doomed item"},
	})
	if err == nil {
		t.Fatal("Complete succeeded despite failing item insert")
	}

	var reloaded model.Appointment
	if err := db.First(&reloaded, appointment.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != model.StatusConfirmed {
		t.Errorf("Status = %q, status update survived a rolled back transaction", reloaded.Status)
	}
	if reloaded.SessionSummary != "" {
		t.Errorf("SessionSummary = %q, want empty after rollback", reloaded.SessionSummary)
	}
}

func TestSetStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	appointment := seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	for _, status := range []model.AppointmentStatus{
		model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled, model.StatusPending,
	} {
		updated, err := svc.SetStatus(appointment.ID, string(status))
		if err != nil {
			t.Fatalf("SetStatus(%q) failed: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("Status = %q, want %q", updated.Status, status)
		}
	}

	if _, err := svc.SetStatus(appointment.ID, "Bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("SetStatus(Bogus) = %v, want ErrInvalidStatus", err)
	}

	var reloaded model.Appointment
	if err := db.First(&reloaded, appointment.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != model.StatusPending {
		t.Errorf("Status = %q, changed by a rejected override", reloaded.Status)
	}
}

func TestDeleteMissingAppointment(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	if err := svc.Delete(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(42) = %v, want ErrNotFound", err)
	}
}

func TestListScopesStudentsToOwnRecords(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	mine := seedStudent(t, db, "mine@test.com")
	theirs := seedStudent(t, db, "theirs@test.com")
	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)

	seedAppointment(t, db, mine.ID, model.StatusPending, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	seedAppointment(t, db, mine.ID, model.StatusConfirmed, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	seedAppointment(t, db, theirs.ID, model.StatusPending, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))

	appointments, _, err := svc.List(mine.Principal(), AppointmentFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(appointments) != 2 {
		t.Errorf("student list = %d rows, want 2", len(appointments))
	}
	for _, apt := range appointments {
		if apt.StudentID != mine.ID {
			t.Errorf("student list leaked appointment of student %d", apt.StudentID)
		}
	}

	appointments, _, err = svc.List(staff.Principal(), AppointmentFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(appointments) != 3 {
		t.Errorf("staff list = %d rows, want 3", len(appointments))
	}
}

func TestListDateFilterHalfOpen(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)

	// 23:59 on the day is in, midnight of the next day is out.
	seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC))
	seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))

	appointments, _, err := svc.List(staff.Principal(), AppointmentFilter{Date: "2024-03-10"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(appointments) != 2 {
		t.Errorf("date filter matched %d rows, want 2", len(appointments))
	}
}

func TestListPagination(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)

	for i := 0; i < 25; i++ {
		seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 5, 1+i%28, 0, 0, 0, 0, time.UTC))
	}

	appointments, pagination, err := svc.List(staff.Principal(), AppointmentFilter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if pagination.Total != 25 {
		t.Errorf("Total = %d, want 25", pagination.Total)
	}
	if pagination.Pages != 3 {
		t.Errorf("Pages = %d, want 3", pagination.Pages)
	}
	if pagination.Current != 3 {
		t.Errorf("Current = %d, want 3", pagination.Current)
	}
	if len(appointments) != 5 {
		t.Errorf("page 3 = %d rows, want 5", len(appointments))
	}
}

func TestListPendingNewestFirst(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	seedAppointment(t, db, student.ID, model.StatusConfirmed, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	seedAppointment(t, db, student.ID, model.StatusPending, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))

	pending, err := svc.ListPending()
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d rows, want 2", len(pending))
	}
	for _, apt := range pending {
		if apt.Status != model.StatusPending {
			t.Errorf("pending list contains status %q", apt.Status)
		}
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	counsellor := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)

	appointment, err := svc.Create(student.Principal(), CreateAppointmentInput{
		RequestedDate: "2024-06-01",
		RequestedTime: "10:00",
		Type:          "Personal",
		Reason:        "exam stress",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	appointment, err = svc.Confirm(counsellor.Principal(), appointment.ID, "2024-06-01", "10:30")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// Student reschedules, which voids the confirmation.
	newDate := "2024-06-08"
	newTime := "09:00"
	appointment, err = svc.Update(student.Principal(), appointment.ID, UpdateAppointmentInput{
		RequestedDate: &newDate,
		RequestedTime: &newTime,
	})
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if appointment.Status != model.StatusPending {
		t.Fatalf("Status = %q, want Pending after reschedule", appointment.Status)
	}

	appointment, err = svc.Confirm(counsellor.Principal(), appointment.ID, "2024-06-08", "09:00")
	if err != nil {
		t.Fatalf("re-Confirm failed: %v", err)
	}

	appointment, err = svc.Complete(appointment.ID, CompleteAppointmentInput{
		SessionSummary: "Resolved",
		ActionItems:    []string{"Revisit in a month"},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if appointment.Status != model.StatusCompleted {
		t.Errorf("Status = %q, want Completed", appointment.Status)
	}
	if len(appointment.ActionItems) != 1 {
		t.Errorf("ActionItems = %d, want 1", len(appointment.ActionItems))
	}
}

func TestListStatusFilter(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	student := seedStudent(t, db, "student@test.com")
	staff := seedStaff(t, db, "counsellor@test.com", model.RoleCounsellor)

	statuses := []model.AppointmentStatus{
		model.StatusPending, model.StatusPending, model.StatusConfirmed, model.StatusCompleted,
	}
	for i, status := range statuses {
		seedAppointment(t, db, student.ID, status, time.Date(2024, 5, 1+i, 0, 0, 0, 0, time.UTC))
	}

	for status, want := range map[string]int{
		string(model.StatusPending):   2,
		string(model.StatusConfirmed): 1,
		string(model.StatusCancelled): 0,
	} {
		appointments, _, err := svc.List(staff.Principal(), AppointmentFilter{Status: status})
		if err != nil {
			t.Fatalf("List(%s) failed: %v", status, err)
		}
		if len(appointments) != want {
			t.Errorf("List(%s) = %d rows, want %d", status, len(appointments), want)
		}
	}
}

func TestGetByIDMissing(t *testing.T) {
	db := openTestDB(t)
	svc := NewAppointmentService(db, false)

	if _, err := svc.GetByID(123); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(123) = %v, want ErrNotFound", err)
	}
}

func uniqueEmail(i int) string {
	return fmt.Sprintf("student%d@test.com", i)
}
