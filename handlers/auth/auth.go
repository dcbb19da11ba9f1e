package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/utils/middleware"
	"github.com/atma-chethana/counselling-api/utils/response"
	"github.com/atma-chethana/counselling-api/utils/validation"
)

// AuthHandler serves the /api/auth surface.
type AuthHandler struct {
	authService *services.AuthService
	bruteForce  *middleware.BruteForceProtection
	validator   *validation.Validator
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(authService *services.AuthService, bruteForce *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		bruteForce:  bruteForce,
		validator:   validation.NewValidator(),
	}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType" validate:"omitempty,oneof=student admin"`
}

// Login authenticates a student or staff credential pair.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password required")
	}

	req.Email = validation.SanitizeString(req.Email)

	token, principal, err := h.authService.Login(req.Email, req.Password, req.UserType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadCredentials):
			h.bruteForce.RecordFailedAttempt(c, c.IP())
			return response.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, services.ErrNotVerified):
			return response.Forbidden(c, "Email not verified")
		default:
			return response.InternalServerError(c, "")
		}
	}

	h.bruteForce.RecordSuccessfulAttempt(c, c.IP())

	return response.SuccessWithMessage(c, "Login successful", fiber.Map{
		"token": token,
		"user":  principal,
	})
}

// SignupRequest is the self-registration payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Signup creates an unverified student account and emails an OTP.
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password required")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Validation failed")
	}

	req.Email = validation.SanitizeString(req.Email)
	req.Name = validation.SanitizeString(req.Name)

	student, err := h.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return response.BadRequest(c, "User already exists, please login.")
		}
		return response.InternalServerError(c, "")
	}

	return response.Created(c, "Signup complete. Verify the OTP sent to your email", fiber.Map{
		"id":    student.ID,
		"email": student.Email,
	})
}

// VerifyOTPRequest carries the email/OTP pair.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=4"`
}

// VerifyOTP is shared by the signup and password-reset flows.
// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	token, err := h.authService.VerifyOTP(validation.SanitizeString(req.Email), req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.BadRequest(c, "Invalid email")
		case errors.Is(err, services.ErrInvalidOTP):
			return response.BadRequest(c, "Invalid or expired OTP")
		default:
			return response.InternalServerError(c, "")
		}
	}

	return response.SuccessWithMessage(c, "Account verified", fiber.Map{
		"token": token,
	})
}

// ResendOTPRequest carries the target email.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendOTP reissues a signup OTP, throttled per email.
// POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	email := validation.SanitizeString(req.Email)

	allowed, retryAfter, _ := h.bruteForce.AllowOTPResend(c, email)
	if !allowed {
		return response.TooManyRequests(c, fmt.Sprintf("OTP already sent. Try again in %d seconds", retryAfter))
	}

	if err := h.authService.ResendOTP(email); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrAlreadyVerified):
			return response.BadRequest(c, "Already verified")
		default:
			return response.InternalServerError(c, "")
		}
	}

	return response.SuccessWithMessage(c, "OTP resent", nil)
}
