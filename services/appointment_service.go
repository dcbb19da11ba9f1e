package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// Patchable appointment fields per role. Anything not listed here is
// silently dropped from an update, never an error.
var appointmentAllowedFields = map[model.Role][]string{
	model.RoleStudent: {
		"requestedDate", "requestedTime", "reason", "studentConcerns",
		"type", "mode", "priority",
	},
	model.RoleCounsellor: {
		"counsellorId", "confirmedDate", "confirmedTime", "status",
		"preSessionNotes", "sessionSummary", "recommendations",
		"nextSteps", "followUpRequired", "followUpDate", "urgencyLevel",
		"mode", "priority",
	},
}

func init() {
	// Admins patch the same surface counsellors do.
	appointmentAllowedFields[model.RoleAdmin] = appointmentAllowedFields[model.RoleCounsellor]
}

// fieldColumns maps patch field names onto database columns.
var fieldColumns = map[string]string{
	"requestedDate":    "requested_date",
	"requestedTime":    "requested_time",
	"reason":           "reason",
	"studentConcerns":  "student_concerns",
	"type":             "type",
	"mode":             "mode",
	"priority":         "priority",
	"counsellorId":     "counsellor_id",
	"confirmedDate":    "confirmed_date",
	"confirmedTime":    "confirmed_time",
	"status":           "status",
	"preSessionNotes":  "pre_session_notes",
	"sessionSummary":   "session_summary",
	"recommendations":  "recommendations",
	"nextSteps":        "next_steps",
	"followUpRequired": "follow_up_required",
	"followUpDate":     "follow_up_date",
	"urgencyLevel":     "urgency_level",
}

// Sortable columns for appointment listings.
var appointmentSortColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"requestedDate": "requested_date",
	"status":        "status",
	"priority":      "priority",
	"type":          "type",
}

// AppointmentService owns the appointment lifecycle state machine:
// Pending -> Confirmed -> Completed/Cancelled, with role-scoped field
// gating and per-transition side effects.
type AppointmentService struct {
	db *gorm.DB
	// strictTransitions makes confirm and create-with-status staff-only.
	// Off by default to preserve the permissive legacy behaviour.
	strictTransitions bool
}

// NewAppointmentService creates an appointment service.
func NewAppointmentService(db *gorm.DB, strictTransitions bool) *AppointmentService {
	return &AppointmentService{db: db, strictTransitions: strictTransitions}
}

// ParseAppointmentDate accepts a plain calendar date or an RFC3339 timestamp.
func ParseAppointmentDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// CreateAppointmentInput carries the creation payload after JSON decoding.
type CreateAppointmentInput struct {
	StudentID       uint
	CounsellorID    *uint
	RequestedDate   string
	RequestedTime   string
	Type            string
	Mode            string
	Priority        string
	Status          string
	Reason          string
	StudentConcerns string
}

// Create persists a new appointment. A student principal always creates for
// themselves regardless of the supplied studentId.
func (s *AppointmentService) Create(principal model.Principal, input CreateAppointmentInput) (*model.Appointment, error) {
	studentID := input.StudentID
	if principal.Role == model.RoleStudent {
		studentID = principal.ID
	}
	if studentID == 0 {
		return nil, ErrStudentRequired
	}

	requestedDate, err := ParseAppointmentDate(input.RequestedDate)
	if err != nil {
		return nil, err
	}

	status := model.StatusPending
	if input.Status != "" {
		status = model.AppointmentStatus(input.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		if s.strictTransitions && !principal.Role.IsStaff() && status != model.StatusPending {
			return nil, ErrForbidden
		}
	}

	appointment := model.Appointment{
		StudentID:       studentID,
		CounsellorID:    input.CounsellorID,
		RequestedDate:   requestedDate,
		RequestedTime:   input.RequestedTime,
		Type:            input.Type,
		Mode:            input.Mode,
		Priority:        input.Priority,
		Reason:          input.Reason,
		Status:          status,
		StudentConcerns: input.StudentConcerns,
	}

	if err := s.db.Create(&appointment).Error; err != nil {
		return nil, err
	}

	return s.GetByID(appointment.ID)
}

// UpdateAppointmentInput is a sparse patch; nil fields were absent from the
// request body.
type UpdateAppointmentInput struct {
	RequestedDate    *string `json:"requestedDate"`
	RequestedTime    *string `json:"requestedTime"`
	Reason           *string `json:"reason"`
	StudentConcerns  *string `json:"studentConcerns"`
	Type             *string `json:"type"`
	Mode             *string `json:"mode"`
	Priority         *string `json:"priority"`
	CounsellorID     *uint   `json:"counsellorId"`
	ConfirmedDate    *string `json:"confirmedDate"`
	ConfirmedTime    *string `json:"confirmedTime"`
	Status           *string `json:"status"`
	PreSessionNotes  *string `json:"preSessionNotes"`
	SessionSummary   *string `json:"sessionSummary"`
	Recommendations  *string `json:"recommendations"`
	NextSteps        *string `json:"nextSteps"`
	FollowUpRequired *bool   `json:"followUpRequired"`
	FollowUpDate     *string `json:"followUpDate"`
	UrgencyLevel     *string `json:"urgencyLevel"`
}

// fields flattens the patch into name -> raw value, skipping absent entries.
func (in UpdateAppointmentInput) fields() map[string]interface{} {
	out := make(map[string]interface{})
	put := func(name string, v *string) {
		if v != nil {
			out[name] = *v
		}
	}
	put("requestedDate", in.RequestedDate)
	put("requestedTime", in.RequestedTime)
	put("reason", in.Reason)
	put("studentConcerns", in.StudentConcerns)
	put("type", in.Type)
	put("mode", in.Mode)
	put("priority", in.Priority)
	put("confirmedDate", in.ConfirmedDate)
	put("confirmedTime", in.ConfirmedTime)
	put("status", in.Status)
	put("preSessionNotes", in.PreSessionNotes)
	put("sessionSummary", in.SessionSummary)
	put("recommendations", in.Recommendations)
	put("nextSteps", in.NextSteps)
	put("followUpDate", in.FollowUpDate)
	put("urgencyLevel", in.UrgencyLevel)
	if in.CounsellorID != nil {
		out["counsellorId"] = *in.CounsellorID
	}
	if in.FollowUpRequired != nil {
		out["followUpRequired"] = *in.FollowUpRequired
	}
	return out
}

// Update applies a role-gated partial update. Students may only touch their
// own appointments, and any student edit of requestedDate/requestedTime
// resets the record to Pending and clears the confirmation pair.
func (s *AppointmentService) Update(principal model.Principal, id uint, patch UpdateAppointmentInput) (*model.Appointment, error) {
	var existing model.Appointment
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	allowed, ok := appointmentAllowedFields[principal.Role]
	if !ok {
		return nil, ErrForbidden
	}
	if principal.Role == model.RoleStudent && existing.StudentID != principal.ID {
		return nil, ErrForbidden
	}

	requested := patch.fields()
	updates := make(map[string]interface{})
	for _, name := range allowed {
		value, present := requested[name]
		if !present {
			continue
		}

		switch name {
		case "requestedDate":
			parsed, err := ParseAppointmentDate(value.(string))
			if err != nil {
				return nil, err
			}
			value = parsed
		case "confirmedDate", "followUpDate":
			parsed, err := ParseAppointmentDate(value.(string))
			if err != nil {
				return nil, err
			}
			value = &parsed
		case "status":
			status := model.AppointmentStatus(value.(string))
			if !status.Valid() {
				return nil, ErrInvalidStatus
			}
			value = status
		}

		updates[fieldColumns[name]] = value
	}

	// Reschedule invalidates confirmation.
	if principal.Role == model.RoleStudent {
		_, dateChanged := updates["requested_date"]
		_, timeChanged := updates["requested_time"]
		if dateChanged || timeChanged {
			updates["status"] = model.StatusPending
			updates["confirmed_date"] = nil
			updates["confirmed_time"] = nil
		}
	}

	if len(updates) == 0 {
		return nil, ErrNoValidFields
	}

	if err := s.db.Model(&model.Appointment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Confirm moves an appointment to Confirmed, optionally fixing the final
// date and time. Existing confirmed values are kept when none are supplied.
func (s *AppointmentService) Confirm(principal model.Principal, id uint, confirmedDate, confirmedTime string) (*model.Appointment, error) {
	if s.strictTransitions && !principal.Role.IsStaff() {
		return nil, ErrForbidden
	}

	if err := s.ensureExists(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status": model.StatusConfirmed,
	}
	if confirmedDate != "" {
		parsed, err := ParseAppointmentDate(confirmedDate)
		if err != nil {
			return nil, err
		}
		updates["confirmed_date"] = &parsed
	}
	if confirmedTime != "" {
		updates["confirmed_time"] = confirmedTime
	}

	if err := s.db.Model(&model.Appointment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// CompleteAppointmentInput carries the post-session closeout payload.
type CompleteAppointmentInput struct {
	SessionSummary  string
	Recommendations string
	FollowUpDate    string
	ActionItems     []string
}

// Complete marks the appointment Completed and records its action items.
// The status update and item inserts commit or roll back together.
func (s *AppointmentService) Complete(id uint, input CompleteAppointmentInput) (*model.Appointment, error) {
	if err := s.ensureExists(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":          model.StatusCompleted,
		"session_summary": input.SessionSummary,
		"recommendations": input.Recommendations,
		"follow_up_date":  nil,
	}
	if input.FollowUpDate != "" {
		parsed, err := ParseAppointmentDate(input.FollowUpDate)
		if err != nil {
			return nil, err
		}
		updates["follow_up_date"] = &parsed
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Appointment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		for _, value := range input.ActionItems {
			item := model.ActionItem{AppointmentID: id, Value: value}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// SetStatus is the staff-only status override. The role gate sits on the
// route; the service still rejects anything outside the four known states.
func (s *AppointmentService) SetStatus(id uint, status string) (*model.Appointment, error) {
	next := model.AppointmentStatus(status)
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.ensureExists(id); err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.Appointment{}).Where("id = ?", id).Update("status", next).Error; err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete hard-deletes an appointment and its owned rows.
func (s *AppointmentService) Delete(id uint) error {
	result := s.db.Unscoped().Delete(&model.Appointment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches an appointment with its related records attached.
func (s *AppointmentService) GetByID(id uint) (*model.Appointment, error) {
	var appointment model.Appointment
	err := s.db.
		Preload("Student").
		Preload("Counsellor").
		Preload("ActionItems").
		Preload("RecurringPattern").
		First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// AppointmentFilter narrows and pages an appointment listing.
type AppointmentFilter struct {
	Status    string
	Type      string
	Priority  string
	Date      string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// List returns appointments visible to the principal. Student results are
// always scoped to their own records, whatever filters they pass.
func (s *AppointmentService) List(principal model.Principal, filter AppointmentFilter) ([]model.Appointment, response.PaginationMeta, error) {
	query := s.db.Model(&model.Appointment{})

	if principal.Role == model.RoleStudent {
		query = query.Where("student_id = ?", principal.ID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Date != "" {
		day, err := ParseAppointmentDate(filter.Date)
		if err != nil {
			return nil, response.PaginationMeta{}, err
		}
		// Half-open interval [day, day+1).
		query = query.Where("requested_date >= ? AND requested_date < ?", day, day.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, response.PaginationMeta{}, err
	}

	sortColumn, ok := appointmentSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	pagination := response.CalculatePagination(filter.Page, filter.Limit, total)

	var appointments []model.Appointment
	err := query.
		Preload("Student").
		Preload("Counsellor").
		Order(sortColumn + " " + direction).
		Offset((pagination.Current - 1) * pagination.Limit).
		Limit(pagination.Limit).
		Find(&appointments).Error
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	return appointments, pagination, nil
}

// ListPending returns all pending appointments, newest first.
func (s *AppointmentService) ListPending() ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := s.db.
		Where("status = ?", model.StatusPending).
		Order("created_at DESC").
		Preload("Student").
		Find(&appointments).Error
	return appointments, err
}

func (s *AppointmentService) ensureExists(id uint) error {
	var count int64
	if err := s.db.Model(&model.Appointment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
