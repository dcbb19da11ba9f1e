package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/atma-chethana/counselling-api/config"
	"github.com/atma-chethana/counselling-api/database"
	"github.com/atma-chethana/counselling-api/handlers"
	appointment_handlers "github.com/atma-chethana/counselling-api/handlers/appointment"
	auth_handlers "github.com/atma-chethana/counselling-api/handlers/auth"
	email_handlers "github.com/atma-chethana/counselling-api/handlers/email"
	stats_handlers "github.com/atma-chethana/counselling-api/handlers/stats"
	student_handlers "github.com/atma-chethana/counselling-api/handlers/student"
	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/utils/auth"
	"github.com/atma-chethana/counselling-api/utils/cache"
	"github.com/atma-chethana/counselling-api/utils/middleware"
	"github.com/atma-chethana/counselling-api/utils/response"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnvironmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "counselling-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: env.JWT_EXPIRY,
		Issuer: jwtIssuer,
	})

	db := store.DB()

	// Redis backs brute force lockouts and OTP resend throttling. The API
	// stays usable without it.
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	mailer := services.NewSMTPMailer(env)
	notifier := services.NewNotificationService(db, mailer, env.APP_NAME)

	authService := services.NewAuthService(db, jwtManager, notifier)
	appointmentService := services.NewAppointmentService(db, env.STRICT_TRANSITIONS)
	studentService := services.NewStudentService(db)
	statsService := services.NewStatsService(db)

	authHandler := auth_handlers.NewAuthHandler(authService, bruteForceProtection)
	appointmentHandler := appointment_handlers.NewAppointmentHandler(appointmentService)
	studentHandler := student_handlers.NewStudentHandler(studentService)
	emailHandler := email_handlers.NewEmailHandler(notifier)
	statsHandler := stats_handlers.NewStatsHandler(statsService)
	healthHandler := handlers.NewHealthHandler(store)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Auth routes (public)
	authGroup := api.Group("/auth")

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)
	authGroup.Post("/reset-password/request", authHandler.RequestPasswordReset)
	authGroup.Post("/reset-password/confirm", authHandler.ConfirmPasswordReset)

	// Protected auth routes
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Put("/change-password", authMiddleware.Required(), authHandler.ChangePassword)
	authGroup.Post("/create-staff", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleAdmin), authHandler.CreateStaff)

	// Appointment routes (all protected). The pending listing registers
	// before /:id so Fiber does not swallow it as an id parameter.
	appointments := api.Group("/appointments", authMiddleware.Required())
	appointments.Get("/", appointmentHandler.List)
	appointments.Get("/status/pending", authMiddleware.RequireStaff(), appointmentHandler.ListPending)
	appointments.Get("/:id", appointmentHandler.Get)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Patch("/:id", appointmentHandler.Update)
	appointments.Delete("/:id", appointmentHandler.Delete)
	appointments.Patch("/:id/confirm", appointmentHandler.Confirm)
	appointments.Patch("/:id/complete", authMiddleware.RequireStaff(), appointmentHandler.Complete)
	appointments.Patch("/:id/status", authMiddleware.RequireStaff(), appointmentHandler.SetStatus)

	// Student routes. Self-service endpoints come first, the rest are staff.
	students := api.Group("/students", authMiddleware.Required())
	students.Get("/me", studentHandler.Me)
	students.Put("/me", studentHandler.UpdateMe)
	students.Get("/stats/overview", authMiddleware.RequireStaff(), studentHandler.Overview)
	students.Get("/", authMiddleware.RequireStaff(), studentHandler.List)
	students.Post("/", authMiddleware.RequireStaff(), studentHandler.Create)
	students.Get("/:id", authMiddleware.RequireStaff(), studentHandler.Get)
	students.Put("/:id", authMiddleware.RequireStaff(), studentHandler.Update)
	students.Delete("/:id", authMiddleware.RequireStaff(), studentHandler.Delete)

	// Email routes (staff only)
	emails := api.Group("/email", authMiddleware.Required(), authMiddleware.RequireStaff())
	emails.Post("/appointment-confirmation", emailHandler.SendConfirmation)
	emails.Post("/follow-up", emailHandler.SendFollowUp)
	emails.Post("/test", emailHandler.Test)

	// Stats routes. Dashboard adapts to the caller's role, the rest are staff.
	statsGroup := api.Group("/stats", authMiddleware.Required())
	statsGroup.Get("/dashboard", statsHandler.Dashboard)
	statsGroup.Get("/students", authMiddleware.RequireStaff(), statsHandler.Students)
	statsGroup.Get("/appointments", authMiddleware.RequireStaff(), statsHandler.Appointments)
	statsGroup.Get("/calendar", authMiddleware.RequireStaff(), statsHandler.Calendar)

	// Unknown routes get the same envelope as everything else
	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}
