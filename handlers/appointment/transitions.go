package appointment

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/utils/middleware"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// ConfirmRequest optionally fixes the final date and time.
type ConfirmRequest struct {
	ConfirmedDate string `json:"confirmedDate"`
	ConfirmedTime string `json:"confirmedTime"`
}

// Confirm moves an appointment to Confirmed.
// PATCH /api/appointments/:id/confirm
func (h *AppointmentHandler) Confirm(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid appointment id")
	}

	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	appointment, err := h.appointments.Confirm(principal, id, req.ConfirmedDate, req.ConfirmedTime)
	if err != nil {
		return mapServiceError(c, err, "Server error while confirming appointment")
	}

	return response.SuccessWithMessage(c, "Appointment confirmed successfully", fiber.Map{
		"appointment": appointment,
	})
}

// CompleteRequest carries the post-session closeout payload.
type CompleteRequest struct {
	SessionSummary  string   `json:"sessionSummary"`
	ActionItems     []string `json:"actionItems"`
	Recommendations string   `json:"recommendations"`
	FollowUpDate    string   `json:"followUpDate"`
}

// Complete marks an appointment Completed and stores its action items.
// PATCH /api/appointments/:id/complete
func (h *AppointmentHandler) Complete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid appointment id")
	}

	var req CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	appointment, err := h.appointments.Complete(id, services.CompleteAppointmentInput{
		SessionSummary:  req.SessionSummary,
		Recommendations: req.Recommendations,
		FollowUpDate:    req.FollowUpDate,
		ActionItems:     req.ActionItems,
	})
	if err != nil {
		return mapServiceError(c, err, "Server error while completing appointment")
	}

	return response.SuccessWithMessage(c, "Appointment completed successfully", fiber.Map{
		"appointment": appointment,
	})
}

// SetStatusRequest carries the status override.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus is the staff-only status override. The route carries the role
// gate; the service validates the status value.
// PATCH /api/appointments/:id/status
func (h *AppointmentHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid appointment id")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	appointment, err := h.appointments.SetStatus(id, req.Status)
	if err != nil {
		return mapServiceError(c, err, "Server error updating appointment status")
	}

	return response.SuccessWithMessage(c, fmt.Sprintf("Appointment marked as %s", appointment.Status), fiber.Map{
		"appointment": appointment,
	})
}
