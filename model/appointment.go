package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Valid reports whether the status is one of the four lifecycle states.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is the central entity of the system. StudentID is set at
// creation and never reassigned; ConfirmedDate/ConfirmedTime only become
// non-null through a confirm transition and are cleared again whenever the
// owning student reschedules.
type Appointment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StudentID    uint  `gorm:"index;not null" json:"studentId"`
	CounsellorID *uint `gorm:"index" json:"counsellorId,omitempty"`

	RequestedDate time.Time  `gorm:"not null;index" json:"requestedDate"`
	RequestedTime string     `json:"requestedTime"`
	ConfirmedDate *time.Time `json:"confirmedDate"`
	ConfirmedTime *string    `json:"confirmedTime"`

	Duration        int               `gorm:"default:60" json:"duration"`
	Type            string            `json:"type"`
	Mode            string            `json:"mode"`
	Priority        string            `json:"priority"`
	Reason          string            `gorm:"type:text" json:"reason"`
	StudentConcerns string            `gorm:"type:text" json:"studentConcerns"`
	Status          AppointmentStatus `gorm:"type:varchar(20);default:'Pending';index" json:"status"`

	PreSessionNotes  string     `gorm:"type:text" json:"preSessionNotes"`
	SessionSummary   string     `gorm:"type:text" json:"sessionSummary"`
	Recommendations  string     `gorm:"type:text" json:"recommendations"`
	NextSteps        string     `gorm:"type:text" json:"nextSteps"`
	UrgencyLevel     string     `json:"urgencyLevel"`
	FollowUpRequired bool       `gorm:"default:false" json:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate"`

	EmailSent   bool       `gorm:"default:false" json:"emailSent"`
	EmailSentAt *time.Time `json:"emailSentAt,omitempty"`
	EmailSentBy *uint      `json:"emailSentBy,omitempty"`

	Student          Student           `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Counsellor       *Staff            `gorm:"foreignKey:CounsellorID" json:"counsellor,omitempty"`
	ActionItems      []ActionItem      `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"actionItems,omitempty"`
	RecurringPattern *RecurringPattern `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"recurringPattern,omitempty"`
}

// ActionItem is a free-text follow-up task. Rows are created only as a side
// effect of the Completed transition.
type ActionItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppointmentID uint      `gorm:"index;not null" json:"appointmentId"`
	Value         string    `gorm:"type:text;not null" json:"value"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RecurringPattern describes an optional repetition rule for an appointment.
type RecurringPattern struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AppointmentID uint           `gorm:"uniqueIndex;not null" json:"appointmentId"`
	Frequency     string         `gorm:"type:varchar(20)" json:"frequency"`
	Interval      int            `gorm:"default:1" json:"interval"`
	DaysOfWeek    datatypes.JSON `json:"daysOfWeek,omitempty"`
	EndDate       *time.Time     `json:"endDate,omitempty"`
}

// FollowUpEmail is an append-only audit row recorded whenever an ad-hoc
// follow-up message is delivered for an appointment.
type FollowUpEmail struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppointmentID uint      `gorm:"index;not null" json:"appointmentId"`
	StudentID     uint      `gorm:"index;not null" json:"studentId"`
	Subject       string    `gorm:"not null" json:"subject"`
	Message       string    `gorm:"type:text" json:"message"`
	SentAt        time.Time `gorm:"not null" json:"sentAt"`
	SentBy        uint      `json:"sentBy"`
}
