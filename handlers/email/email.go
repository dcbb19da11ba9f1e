package email

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/utils/middleware"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// EmailHandler serves the /api/email surface.
type EmailHandler struct {
	notifier *services.NotificationService
}

// NewEmailHandler creates an email handler.
func NewEmailHandler(notifier *services.NotificationService) *EmailHandler {
	return &EmailHandler{notifier: notifier}
}

// ConfirmationRequest targets one appointment with an optional note.
type ConfirmationRequest struct {
	AppointmentID uint   `json:"appointmentId"`
	CustomMessage string `json:"customMessage"`
}

// SendConfirmation emails the student their appointment details and stamps
// the email-audit fields.
// POST /api/email/appointment-confirmation
func (h *EmailHandler) SendConfirmation(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req ConfirmationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sentTo, err := h.notifier.SendAppointmentConfirmation(principal, req.AppointmentID, req.CustomMessage)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Appointment not found")
		}
		return response.InternalServerError(c, "Failed to send confirmation email")
	}

	return response.SuccessWithMessage(c, "Confirmation email sent", fiber.Map{
		"sentTo": sentTo,
		"sentAt": time.Now(),
	})
}

// FollowUpRequest is an ad-hoc message to one student.
type FollowUpRequest struct {
	StudentID     uint   `json:"studentId"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	AppointmentID *uint  `json:"appointmentId"`
}

// SendFollowUp delivers an ad-hoc follow-up message; when tied to an
// appointment it also appends a FollowUpEmail audit row.
// POST /api/email/follow-up
func (h *EmailHandler) SendFollowUp(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req FollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sentTo, err := h.notifier.SendFollowUp(principal, req.StudentID, req.Subject, req.Message, req.AppointmentID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to send follow-up email")
	}

	return response.SuccessWithMessage(c, "Follow-up email sent", fiber.Map{
		"sentTo": sentTo,
		"sentAt": time.Now(),
	})
}

// Test verifies SMTP connectivity and credentials.
// POST /api/email/test
func (h *EmailHandler) Test(c *fiber.Ctx) error {
	if err := h.notifier.Verify(); err != nil {
		return response.InternalServerError(c, "Email config test failed")
	}

	return response.SuccessWithMessage(c, "Email config works correctly", nil)
}
