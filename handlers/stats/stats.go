package stats

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/utils/middleware"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// StatsHandler serves the /api/stats surface.
type StatsHandler struct {
	stats *services.StatsService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard returns the student or staff dashboard depending on the caller.
// GET /api/stats/dashboard
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	now := time.Now()

	if principal.Role == model.RoleStudent {
		overview, err := h.stats.StudentDashboard(principal.ID, now)
		if err != nil {
			return response.InternalServerError(c, "")
		}
		return response.Success(c, fiber.Map{"overview": overview})
	}

	dashboard, err := h.stats.StaffDashboard(now)
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, fiber.Map{
		"overview":         dashboard.Overview,
		"appointmentTypes": dashboard.AppointmentTypes,
		"monthlyTrend":     dashboard.MonthlyTrend,
	})
}

// Students returns the student-body distribution stats.
// GET /api/stats/students
func (h *StatsHandler) Students(c *fiber.Ctx) error {
	stats, err := h.stats.StudentStats(time.Now())
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, stats)
}

// Appointments returns the appointment distribution stats.
// GET /api/stats/appointments
func (h *StatsHandler) Appointments(c *fiber.Ctx) error {
	stats, err := h.stats.AppointmentStats(time.Now())
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, stats)
}

// Calendar returns per-day appointment summaries for a month.
// GET /api/stats/calendar
func (h *StatsHandler) Calendar(c *fiber.Ctx) error {
	now := time.Now()
	month := c.QueryInt("month", int(now.Month()))
	year := c.QueryInt("year", now.Year())

	days, err := h.stats.Calendar(month, year)
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, fiber.Map{
		"month":             month,
		"year":              year,
		"dailyAppointments": days,
	})
}
