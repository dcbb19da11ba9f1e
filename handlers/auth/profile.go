package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/utils/middleware"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// Me returns the full account record behind the bearer token.
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	user, err := h.authService.CurrentUser(principal)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "")
	}

	return response.Success(c, fiber.Map{"user": user})
}

// Logout acknowledges a logout. Tokens are stateless; the client drops it.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return response.SuccessWithMessage(c, "Logged out", nil)
}

// ChangePasswordRequest carries the password rotation payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// ChangePassword rotates the caller's password after verifying the old one.
// PUT /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Provide current & new password")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	if err := h.authService.ChangePassword(principal, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrBadCredentials):
			return response.BadRequest(c, "Incorrect current password")
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "")
		}
	}

	return response.SuccessWithMessage(c, "Password changed", nil)
}

// CreateStaffRequest is the admin-side staff provisioning payload.
type CreateStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin counsellor"`
}

// CreateStaff provisions a counsellor or admin account.
// POST /api/auth/create-staff
func (h *AuthHandler) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Name, email, password required")
	}

	staff, err := h.authService.CreateStaff(req.Name, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, services.ErrDuplicateEmail):
			return response.BadRequest(c, "User already exists")
		default:
			return response.InternalServerError(c, "")
		}
	}

	return response.Created(c, string(staff.Role)+" created", fiber.Map{
		"id":    staff.ID,
		"email": staff.Email,
	})
}

// ResetRequestRequest carries the reset-initiation payload.
type ResetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestPasswordReset stores and emails a reset OTP.
// POST /api/auth/reset-password/request
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req ResetRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "")
	}

	return response.SuccessWithMessage(c, "OTP sent to email", nil)
}

// ResetConfirmRequest carries the reset-completion payload.
type ResetConfirmRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ConfirmPasswordReset sets a new password once the OTP has been verified.
// POST /api/auth/reset-password/confirm
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req ResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Email and new password required")
	}

	if err := h.authService.ConfirmPasswordReset(req.Email, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrOTPNotVerified):
			return response.BadRequest(c, "OTP not verified")
		default:
			return response.InternalServerError(c, "")
		}
	}

	return response.SuccessWithMessage(c, "Password reset successful", nil)
}
