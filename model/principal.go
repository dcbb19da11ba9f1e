package model

// Role is the closed set of actor roles in the system.
type Role string

const (
	RoleStudent    Role = "student"
	RoleCounsellor Role = "counsellor"
	RoleAdmin      Role = "admin"
)

// IsStaff reports whether the role belongs to the staff namespace.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleCounsellor
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleCounsellor || r == RoleAdmin
}

// Principal is the authenticated actor attached to a request. It is a
// projection of a Student or Staff record and never carries secret fields.
type Principal struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
