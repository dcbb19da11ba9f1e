package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads environment variables from .env unless GO_ENV says otherwise
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	JWT_EXPIRY time.Duration
	// Redis Configuration
	REDIS_URL string
	// SMTP Configuration
	SMTP_HOST      string
	SMTP_PORT      string
	EMAIL_USER     string
	EMAIL_PASSWORD string
	EMAIL_FROM     string
	// Default admin account
	ADMIN_NAME     string
	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
	// Behaviour toggles
	APP_NAME           string
	ALLOWED_ORIGINS    string
	STRICT_TRANSITIONS bool
}

func Get() (*EnvironmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	jwtExpiry := 24 * time.Hour
	if v := os.Getenv("JWT_EXPIRY_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			jwtExpiry = time.Duration(hours) * time.Hour
		}
	}

	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	strictTransitions, _ := strconv.ParseBool(os.Getenv("STRICT_TRANSITIONS"))

	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "Atma Chethana"
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		JWT_EXPIRY: jwtExpiry,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// SMTP
		SMTP_HOST:      os.Getenv("SMTP_HOST"),
		SMTP_PORT:      smtpPort,
		EMAIL_USER:     os.Getenv("EMAIL_USER"),
		EMAIL_PASSWORD: os.Getenv("EMAIL_PASSWORD"),
		EMAIL_FROM:     os.Getenv("EMAIL_FROM"),
		// Default admin
		ADMIN_NAME:     os.Getenv("ADMIN_NAME"),
		ADMIN_EMAIL:    os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),
		// Toggles
		APP_NAME:           appName,
		ALLOWED_ORIGINS:    allowedOrigins,
		STRICT_TRANSITIONS: strictTransitions,
	}

	return envVariables, nil
}
