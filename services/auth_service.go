package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/utils/auth"
)

// AuthService owns login, signup, OTP verification and password flows.
// Students and staff live in disjoint tables; the userType on login picks
// which namespace a credential resolves against.
type AuthService struct {
	db         *gorm.DB
	jwtManager *auth.JWTManager
	notifier   *NotificationService
}

// NewAuthService creates an auth service.
func NewAuthService(db *gorm.DB, jwtManager *auth.JWTManager, notifier *NotificationService) *AuthService {
	return &AuthService{db: db, jwtManager: jwtManager, notifier: notifier}
}

// Login verifies a credential pair and issues a token. Student logins also
// stamp lastLogin; that write is best-effort and never fails the login.
func (s *AuthService) Login(email, password, userType string) (string, model.Principal, error) {
	if userType == "" {
		userType = "student"
	}

	var principal model.Principal
	var storedHash string

	if userType == "student" {
		var student model.Student
		if err := s.db.Where("email = ?", email).First(&student).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", principal, ErrBadCredentials
			}
			return "", principal, err
		}
		if !student.IsVerified {
			return "", principal, ErrNotVerified
		}
		principal = student.Principal()
		storedHash = student.Password
	} else {
		var staff model.Staff
		if err := s.db.Where("email = ?", email).First(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", principal, ErrBadCredentials
			}
			return "", principal, err
		}
		principal = staff.Principal()
		storedHash = staff.Password
	}

	if err := auth.VerifyPassword(storedHash, password); err != nil {
		return "", principal, ErrBadCredentials
	}

	token, err := s.jwtManager.GenerateToken(principal)
	if err != nil {
		return "", principal, err
	}

	if userType == "student" {
		now := time.Now()
		if err := s.db.Model(&model.Student{}).Where("id = ?", principal.ID).Update("last_login", &now).Error; err != nil {
			log.Println("Failed to update last login:", err)
		}
	}

	return token, principal, nil
}

// Signup creates an unverified student and emails a signup OTP. Re-signup
// over an unverified record replaces it; a verified duplicate is rejected.
func (s *AuthService) Signup(name, email, password string) (*model.Student, error) {
	var existing model.Student
	err := s.db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsVerified {
			return nil, ErrDuplicateEmail
		}
		if err := s.db.Unscoped().Delete(&existing).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Fresh signup.
	default:
		return nil, err
	}

	nameParts := strings.Fields(name)
	firstName := strings.SplitN(email, "@", 2)[0]
	lastName := "Student"
	if len(nameParts) > 0 {
		firstName = nameParts[0]
	}
	if len(nameParts) > 1 {
		lastName = strings.Join(nameParts[1:], " ")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(auth.OTPTTL)
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	student := model.Student{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Password:     hashed,
		Gender:       "Other",
		Phone:        "0000000000",
		CurrentClass: "Not specified",
		School:       "Not specified",
		DateOfBirth:  &dob,
		Role:         model.RoleStudent,
		IsVerified:   false,
		OTP:          &otp,
		OTPExpires:   &expires,
	}

	if err := s.db.Create(&student).Error; err != nil {
		return nil, err
	}

	if err := s.notifier.SendOTP(email, student.FullName(), otp, "signup"); err != nil {
		return nil, err
	}

	return &student, nil
}

// VerifyOTP is shared by the signup and password-reset flows. It clears the
// OTP pair; the first verification also activates the account. Returns a
// fresh student token.
func (s *AuthService) VerifyOTP(email, otp string) (string, error) {
	var student model.Student
	if err := s.db.Where("email = ?", email).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if !student.OTPValid(otp, time.Now()) {
		return "", ErrInvalidOTP
	}

	updates := map[string]interface{}{
		"otp":         nil,
		"otp_expires": nil,
	}
	if !student.IsVerified {
		updates["is_verified"] = true
		updates["status"] = model.StudentActive
	}

	if err := s.db.Model(&model.Student{}).Where("id = ?", student.ID).Updates(updates).Error; err != nil {
		return "", err
	}

	return s.jwtManager.GenerateToken(student.Principal())
}

// ResendOTP reissues a signup OTP for an unverified account.
func (s *AuthService) ResendOTP(email string) error {
	var student model.Student
	if err := s.db.Where("email = ?", email).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if student.IsVerified {
		return ErrAlreadyVerified
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	expires := time.Now().Add(auth.OTPTTL)

	updates := map[string]interface{}{
		"otp":         otp,
		"otp_expires": &expires,
	}
	if err := s.db.Model(&model.Student{}).Where("id = ?", student.ID).Updates(updates).Error; err != nil {
		return err
	}

	return s.notifier.SendOTP(email, student.FullName(), otp, "signup")
}

// CreateStaff provisions a counsellor or admin account.
func (s *AuthService) CreateStaff(name, email, password string, role model.Role) (*model.Staff, error) {
	if role == "" {
		role = model.RoleCounsellor
	}
	if role != model.RoleAdmin && role != model.RoleCounsellor {
		return nil, ErrInvalidRole
	}

	var count int64
	if err := s.db.Model(&model.Staff{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	staff := model.Staff{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}

	if err := s.db.Create(&staff).Error; err != nil {
		return nil, err
	}

	return &staff, nil
}

// CurrentUser loads the full account record behind a principal.
func (s *AuthService) CurrentUser(principal model.Principal) (interface{}, error) {
	if principal.Role == model.RoleStudent {
		var student model.Student
		if err := s.db.Preload("Subjects").Preload("Interests").First(&student, principal.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &student, nil
	}

	var staff model.Staff
	if err := s.db.First(&staff, principal.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(principal model.Principal, currentPassword, newPassword string) error {
	var storedHash string

	if principal.Role == model.RoleStudent {
		var student model.Student
		if err := s.db.First(&student, principal.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		storedHash = student.Password
	} else {
		var staff model.Staff
		if err := s.db.First(&staff, principal.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		storedHash = staff.Password
	}

	if err := auth.VerifyPassword(storedHash, currentPassword); err != nil {
		return ErrBadCredentials
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if principal.Role == model.RoleStudent {
		return s.db.Model(&model.Student{}).Where("id = ?", principal.ID).Update("password", hashed).Error
	}
	return s.db.Model(&model.Staff{}).Where("id = ?", principal.ID).Update("password", hashed).Error
}

// RequestPasswordReset stores a reset OTP on the student and emails it.
func (s *AuthService) RequestPasswordReset(email string) error {
	var student model.Student
	if err := s.db.Where("email = ?", email).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	expires := time.Now().Add(auth.OTPTTL)

	updates := map[string]interface{}{
		"otp":         otp,
		"otp_expires": &expires,
	}
	if err := s.db.Model(&model.Student{}).Where("id = ?", student.ID).Updates(updates).Error; err != nil {
		return err
	}

	return s.notifier.SendOTP(email, student.FullName(), otp, "reset")
}

// ConfirmPasswordReset sets a new password once the reset OTP has been
// verified (the verify step clears the stored OTP; a still-present OTP
// means verification never happened).
func (s *AuthService) ConfirmPasswordReset(email, newPassword string) error {
	var student model.Student
	if err := s.db.Where("email = ?", email).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if student.OTP != nil {
		return ErrOTPNotVerified
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Model(&model.Student{}).Where("id = ?", student.ID).Update("password", hashed).Error
}
