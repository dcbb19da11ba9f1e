package appointment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/utils/middleware"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// AppointmentHandler serves the /api/appointments surface.
type AppointmentHandler struct {
	appointments *services.AppointmentService
}

// NewAppointmentHandler creates an appointment handler.
func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// mapServiceError converts lifecycle sentinel errors to the envelope.
func mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "Appointment not found")
	case errors.Is(err, services.ErrForbidden):
		return response.Forbidden(c, "Not authorized to edit this appointment")
	case errors.Is(err, services.ErrInvalidDate):
		return response.BadRequest(c, "Invalid date format")
	case errors.Is(err, services.ErrNoValidFields):
		return response.BadRequest(c, "No valid fields provided for update")
	case errors.Is(err, services.ErrInvalidStatus):
		return response.BadRequest(c, "Invalid status")
	case errors.Is(err, services.ErrStudentRequired):
		return response.BadRequest(c, "Student ID is required")
	default:
		return response.InternalServerError(c, fallback)
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// List returns appointments visible to the caller.
// GET /api/appointments
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	filter := services.AppointmentFilter{
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		Priority:  c.Query("priority"),
		Date:      c.Query("date"),
		SortBy:    c.Query("sortBy", "createdAt"),
		SortOrder: c.Query("sortOrder", "desc"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}

	appointments, pagination, err := h.appointments.List(principal, filter)
	if err != nil {
		return mapServiceError(c, err, "Server error while fetching appointments")
	}

	return response.Success(c, fiber.Map{
		"appointments": appointments,
		"pagination":   pagination,
	})
}

// Get returns one appointment with its relations.
// GET /api/appointments/:id
func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid appointment id")
	}

	appointment, err := h.appointments.GetByID(id)
	if err != nil {
		return mapServiceError(c, err, "Server error while fetching appointment")
	}

	return response.Success(c, fiber.Map{"appointment": appointment})
}

// CreateRequest mirrors the original nested creation payload.
type CreateRequest struct {
	AppointmentDetails struct {
		StudentID       uint   `json:"studentId"`
		CounsellorID    *uint  `json:"counsellorId"`
		RequestedDate   string `json:"requestedDate"`
		RequestedTime   string `json:"requestedTime"`
		Type            string `json:"type"`
		Mode            string `json:"mode"`
		Priority        string `json:"priority"`
		Status          string `json:"status"`
		StudentConcerns string `json:"studentConcerns"`
	} `json:"appointmentDetails"`
	Reason string `json:"reason"`
}

// Create books a new appointment.
// POST /api/appointments
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	d := req.AppointmentDetails
	input := services.CreateAppointmentInput{
		StudentID:       d.StudentID,
		CounsellorID:    d.CounsellorID,
		RequestedDate:   d.RequestedDate,
		RequestedTime:   d.RequestedTime,
		Type:            d.Type,
		Mode:            d.Mode,
		Priority:        d.Priority,
		Status:          d.Status,
		Reason:          req.Reason,
		StudentConcerns: d.StudentConcerns,
	}

	appointment, err := h.appointments.Create(principal, input)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return response.Forbidden(c, "Only staff may set an initial status")
		}
		return mapServiceError(c, err, "Server error while creating appointment")
	}

	return response.Created(c, "Appointment created successfully", fiber.Map{
		"appointment": appointment,
	})
}

// Update applies a role-gated partial update.
// PATCH /api/appointments/:id
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid appointment id")
	}

	var patch services.UpdateAppointmentInput
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	appointment, err := h.appointments.Update(principal, id, patch)
	if err != nil {
		return mapServiceError(c, err, "Server error while updating appointment")
	}

	return response.SuccessWithMessage(c, "Appointment updated successfully", fiber.Map{
		"appointment": appointment,
	})
}

// Delete hard-deletes an appointment.
// DELETE /api/appointments/:id
func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid appointment id")
	}

	if err := h.appointments.Delete(id); err != nil {
		return mapServiceError(c, err, "Server error while deleting appointment")
	}

	return response.SuccessWithMessage(c, "Appointment deleted successfully", nil)
}

// ListPending returns all pending appointments, newest first.
// GET /api/appointments/status/pending
func (h *AppointmentHandler) ListPending(c *fiber.Ctx) error {
	appointments, err := h.appointments.ListPending()
	if err != nil {
		return response.InternalServerError(c, "Server error fetching pending appointments")
	}

	return response.Success(c, fiber.Map{"appointments": appointments})
}
