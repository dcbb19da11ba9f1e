package response

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

// Response is the standard API envelope. Every endpoint, success or error,
// answers with this shape.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PaginationMeta describes an offset-paginated result set.
type PaginationMeta struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// Success returns a 200 response with data.
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage returns a 200 response with a message and data.
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created returns a 201 response with a message and data.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error returns an error response with the given status code.
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Message: message,
	})
}

// BadRequest returns a 400 Bad Request response.
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized returns a 401 Unauthorized response.
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Not authorized to access this route"
	}
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden returns a 403 Forbidden response.
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "User role is not authorized to access this route"
	}
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound returns a 404 Not Found response.
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return Error(c, fiber.StatusNotFound, message)
}

// TooManyRequests returns a 429 Too Many Requests response.
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests. Try again later."
	}
	return Error(c, fiber.StatusTooManyRequests, message)
}

// InternalServerError returns a 500 Internal Server Error response.
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Server error"
	}
	return Error(c, fiber.StatusInternalServerError, message)
}

// CalculatePagination calculates pagination metadata from a page request and
// a total row count.
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	return PaginationMeta{
		Current: page,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
		Total:   total,
		Limit:   limit,
	}
}
