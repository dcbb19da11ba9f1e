package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/utils/auth"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// Required is middleware that requires a valid JWT token. The token role
// decides which account table the bearer is resolved against: students live
// in their own table, counsellors and admins share the staff table.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Not authorized to access this route")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Not authorized to access this route")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Not authorized to access this route")
		}

		var principal model.Principal
		if claims.Role == model.RoleStudent {
			var student model.Student
			if err := m.db.First(&student, claims.UserID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return response.Unauthorized(c, "User no longer exists")
				}
				return response.InternalServerError(c, "Failed to load user")
			}
			principal = student.Principal()
			c.Locals("student", &student)
		} else {
			var staff model.Staff
			if err := m.db.First(&staff, claims.UserID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return response.Unauthorized(c, "User no longer exists")
				}
				return response.InternalServerError(c, "Failed to load user")
			}
			principal = staff.Principal()
			c.Locals("staff", &staff)
		}

		c.Locals("principal", principal)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// RequireRole is middleware that requires one of the given roles
func (m *AuthMiddleware) RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "Not authorized to access this route")
		}

		for _, r := range roles {
			if principal.Role == r {
				return c.Next()
			}
		}

		return response.Forbidden(c, "User role is not authorized to access this route")
	}
}

// RequireStaff is middleware that requires a counsellor or admin role
func (m *AuthMiddleware) RequireStaff() fiber.Handler {
	return m.RequireRole(model.RoleCounsellor, model.RoleAdmin)
}

// GetPrincipal extracts the authenticated principal from context
func GetPrincipal(c *fiber.Ctx) (model.Principal, bool) {
	v := c.Locals("principal")
	if v == nil {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}

// GetStudent extracts the full student record from context, if the bearer is a student
func GetStudent(c *fiber.Ctx) (*model.Student, bool) {
	v := c.Locals("student")
	if v == nil {
		return nil, false
	}
	s, ok := v.(*model.Student)
	return s, ok
}

// GetStaff extracts the full staff record from context, if the bearer is staff
func GetStaff(c *fiber.Ctx) (*model.Staff, bool) {
	v := c.Locals("staff")
	if v == nil {
		return nil, false
	}
	s, ok := v.(*model.Staff)
	return s, ok
}

// GetClaims extracts the raw token claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	v := c.Locals("claims")
	if v == nil {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
