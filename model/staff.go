package model

import (
	"time"

	"gorm.io/gorm"
)

// Staff represents an admin or counsellor account. Staff records live in a
// namespace disjoint from students; the role claim on a token selects which
// table a principal is resolved against.
type Staff struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Role      Role       `gorm:"type:varchar(20);default:'counsellor'" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// TableName keeps the original table name used by the admin namespace.
func (Staff) TableName() string {
	return "admins"
}

// Principal returns the request-scoped identity projection for the staff member.
func (s *Staff) Principal() Principal {
	return Principal{ID: s.ID, Email: s.Email, Role: s.Role}
}
