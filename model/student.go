package model

import (
	"time"

	"gorm.io/gorm"
)

// StudentStatus is the enrolment status of a student record.
type StudentStatus string

const (
	StudentActive    StudentStatus = "Active"
	StudentInactive  StudentStatus = "Inactive"
	StudentGraduated StudentStatus = "Graduated"
)

// RiskLevel is the counselling risk classification of a student.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Student represents a counselling client. Secret fields (password, OTP)
// carry json:"-" so they are structurally excluded from every response body.
type Student struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FirstName string  `gorm:"not null" json:"firstName"`
	LastName  string  `gorm:"not null" json:"lastName"`
	Email     string  `gorm:"uniqueIndex;not null" json:"email"`
	Password  string  `gorm:"not null" json:"-"`
	Phone     string  `json:"phone"`
	USN       *string `gorm:"column:usn;uniqueIndex" json:"usn,omitempty"`

	Gender      string     `json:"gender"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Street      string     `json:"street"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Pincode     string     `json:"pincode"`

	CurrentClass string `json:"currentClass"`
	School       string `json:"school"`
	Board        string `json:"board"`
	CareerGoals  string `json:"careerGoals"`
	SpecialNeeds string `json:"specialNeeds"`

	ParentName         string `json:"parentName"`
	ParentRelationship string `json:"parentRelationship"`
	ParentPhone        string `json:"parentPhone"`
	ParentEmail        string `json:"parentEmail"`

	Role       Role          `gorm:"type:varchar(20);default:'student'" json:"role"`
	Status     StudentStatus `gorm:"type:varchar(20);default:'Inactive'" json:"status"`
	RiskLevel  RiskLevel     `gorm:"type:varchar(10);default:'Low'" json:"riskLevel"`
	IsVerified bool          `gorm:"default:false" json:"isVerified"`
	IsActive   bool          `gorm:"default:true" json:"isActive"`
	LastLogin  *time.Time    `json:"lastLogin,omitempty"`

	// One-time password pair, set transiently during signup and reset flows.
	OTP        *string    `gorm:"type:varchar(10)" json:"-"`
	OTPExpires *time.Time `json:"-"`

	Subjects  []StudentSubject  `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"subjects,omitempty"`
	Interests []StudentInterest `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"interests,omitempty"`
}

// FullName returns the display name used in email templates.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// OTPValid reports whether the stored OTP matches and has not expired.
func (s *Student) OTPValid(otp string, now time.Time) bool {
	if s.OTP == nil || *s.OTP != otp {
		return false
	}
	return s.OTPExpires != nil && now.Before(*s.OTPExpires)
}

// Principal returns the request-scoped identity projection for the student.
func (s *Student) Principal() Principal {
	return Principal{ID: s.ID, Email: s.Email, Role: RoleStudent}
}

// StudentSubject is a simple value tag owned by a student.
type StudentSubject struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StudentID uint   `gorm:"index;not null" json:"studentId"`
	Name      string `gorm:"not null" json:"name"`
}

// StudentInterest is a simple value tag owned by a student.
type StudentInterest struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StudentID uint   `gorm:"index;not null" json:"studentId"`
	Name      string `gorm:"not null" json:"name"`
}
