package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/atma-chethana/counselling-api/api"
	"github.com/atma-chethana/counselling-api/config"
	"github.com/atma-chethana/counselling-api/database"
	"github.com/atma-chethana/counselling-api/router"
	"github.com/atma-chethana/counselling-api/services"
	"github.com/atma-chethana/counselling-api/services/cron"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM(env)
	if err != nil {
		print("Check whether Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Make sure a default admin account exists on first boot
	seeder := database.NewSeeder(store.DB())
	if err := seeder.SeedAdminUser(env.ADMIN_NAME, env.ADMIN_EMAIL, env.ADMIN_PASSWORD); err != nil {
		log.Printf("Warning: Failed to seed default admin: %v", err)
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		mailer := services.NewSMTPMailer(env)
		notifier := services.NewNotificationService(store.DB(), mailer, env.APP_NAME)

		cronManager = cron.NewCronManager(store.DB(), notifier)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached inside)
	router.SetupRoutes(app, store, env)

	// Shut down cleanly on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	return server.Run()
}
