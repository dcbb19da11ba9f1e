package services

import "errors"

// Sentinel errors shared by the service layer. Handlers translate these into
// the response envelope at the boundary; anything unlisted becomes a 500.
var (
	ErrNotFound        = errors.New("record not found")
	ErrForbidden       = errors.New("not authorized for this resource")
	ErrInvalidDate     = errors.New("invalid date format")
	ErrNoValidFields   = errors.New("no valid fields provided for update")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrStudentRequired = errors.New("student id is required")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrDuplicateUSN    = errors.New("usn already registered")
	ErrInvalidOTP      = errors.New("invalid or expired OTP")
	ErrNotVerified     = errors.New("account not verified")
	ErrAlreadyVerified = errors.New("account already verified")
	ErrOTPNotVerified  = errors.New("OTP not verified")
	ErrInvalidRole     = errors.New("invalid role")
	ErrBadCredentials  = errors.New("invalid credentials")
)
