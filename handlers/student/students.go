package student

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/utils/middleware"
	"github.com/atma-chethana/counselling-api/utils/response"
	"github.com/atma-chethana/counselling-api/utils/validation"
)

// StudentHandler serves the /api/students surface.
type StudentHandler struct {
	students  *services.StudentService
	validator *validation.Validator
}

// NewStudentHandler creates a student handler.
func NewStudentHandler(students *services.StudentService) *StudentHandler {
	return &StudentHandler{
		students:  students,
		validator: validation.NewValidator(),
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Me returns the caller's own profile. Students only.
// GET /api/students/me
func (h *StudentHandler) Me(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	if principal.Role != model.RoleStudent {
		return response.Forbidden(c, "This endpoint is only accessible to students")
	}

	student, err := h.students.GetByID(principal.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Student profile not found")
		}
		return response.InternalServerError(c, "")
	}

	return response.Success(c, fiber.Map{"student": student})
}

// UpdateMe applies the nested self-service profile payload.
// PUT /api/students/me
func (h *StudentHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	if principal.Role != model.RoleStudent {
		return response.Forbidden(c, "This endpoint is only accessible to students")
	}

	var input services.ProfileUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	student, err := h.students.UpdateProfile(principal.ID, input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			return response.BadRequest(c, "Invalid date format")
		}
		return response.InternalServerError(c, "Server error while updating profile")
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", fiber.Map{
		"student": student,
	})
}

// List returns students for staff, paginated and searchable.
// GET /api/students
func (h *StudentHandler) List(c *fiber.Ctx) error {
	filter := services.StudentFilter{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy", "createdAt"),
		SortOrder: c.Query("sortOrder", "desc"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}

	students, pagination, err := h.students.List(filter)
	if err != nil {
		return response.InternalServerError(c, "Server error while fetching students")
	}

	return response.Success(c, fiber.Map{
		"students":   students,
		"pagination": pagination,
	})
}

// Get returns a single student record.
// GET /api/students/:id
func (h *StudentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}

	student, err := h.students.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "")
	}

	return response.Success(c, fiber.Map{"student": student})
}

// Create provisions a student record from the staff side.
// POST /api/students
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var input services.CreateStudentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(input); err != nil {
		return response.BadRequest(c, "Validation failed")
	}

	input.Email = validation.SanitizeString(input.Email)

	student, err := h.students.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateEmail), errors.Is(err, services.ErrDuplicateUSN):
			return response.BadRequest(c, "Student with this email or USN already exists")
		case errors.Is(err, services.ErrInvalidDate):
			return response.BadRequest(c, "Invalid date format")
		default:
			return response.InternalServerError(c, "Server error while creating student")
		}
	}

	return response.Created(c, "Student created successfully", fiber.Map{
		"student": student,
	})
}

// Update applies a staff-side partial update.
// PUT /api/students/:id
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}

	var input services.UpdateStudentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	student, err := h.students.Update(id, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Student not found")
		case errors.Is(err, services.ErrInvalidDate):
			return response.BadRequest(c, "Invalid date format")
		case errors.Is(err, services.ErrNoValidFields):
			return response.BadRequest(c, "No valid fields provided for update")
		default:
			return response.InternalServerError(c, "Server error while updating student")
		}
	}

	return response.SuccessWithMessage(c, "Student updated successfully", fiber.Map{
		"student": student,
	})
}

// Delete hard-deletes a student.
// DELETE /api/students/:id
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}

	if err := h.students.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Server error while deleting student")
	}

	return response.SuccessWithMessage(c, "Student deleted successfully", nil)
}

// Overview returns headline enrolment counts.
// GET /api/students/stats/overview
func (h *StudentHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.students.Overview()
	if err != nil {
		return response.InternalServerError(c, "Server error while fetching statistics")
	}

	return response.Success(c, overview)
}
