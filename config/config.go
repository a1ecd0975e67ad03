package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	APP_ENV     string
	APP_URL     string
	CORS_ORIGIN string
	LOG_LEVEL   string
	CONTENT_DIR string

	DB_URL      string
	JWT_SECRET  string
	SESSION_TTL time.Duration
	CSRF_KEY    string
	REDIS_URL   string

	GOOGLE_CLIENT_ID     string
	GOOGLE_CLIENT_SECRET string
	GOOGLE_REDIRECT_URL  string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string

	SMTP_HOST     string
	SMTP_PORT     int
	SMTP_USER     string
	SMTP_PASSWORD string
	SMTP_FROM     string
)

// LoadEnv reads .env (when present) and the process environment.
// DB_URL and JWT_SECRET are mandatory; every integration is optional.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	APP_ENV = getEnv("APP_ENV", "development")
	APP_URL = getEnv("APP_URL", "http://localhost:"+PORT)
	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	CONTENT_DIR = getEnv("CONTENT_DIR", "")

	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	SESSION_TTL = getDuration("SESSION_TTL", 24*time.Hour)
	CSRF_KEY = getEnv("CSRF_KEY", "")
	REDIS_URL = getEnv("REDIS_URL", "")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")

	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")

	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getInt("SMTP_PORT", 587)
	SMTP_USER = getEnv("SMTP_USER", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")
	SMTP_FROM = getEnv("SMTP_FROM", "Impulsa Marketing <no-reply@impulsa.co>")
}

func IsProduction() bool { return APP_ENV == "production" }

func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func StripeEnabled() bool { return STRIPE_SECRET_KEY != "" }

func SMTPEnabled() bool { return SMTP_HOST != "" }

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
