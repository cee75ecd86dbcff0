package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	BaseURL         string // Required: public origin for links in emails
	SessionSecret   string // Required: HS256 secret for session tokens (>= 32 bytes)
	ITApprovalEmail string // Required: recipient of admin verification links

	Issuer       string        // Optional: issuer claim for session tokens (default: accountd)
	SessionTTL   time.Duration // Optional: session token lifetime (default: 12h)
	TokenTTL     time.Duration // Optional: verification/reset token lifetime (default: 24h)
	DatabaseFile string        // Optional: path to SQLite database file (default: ./accounts.db)
	PepperFile   string        // Optional: path to file containing pepper for password hashing (default: ./pepper)

	SMTPHost     string // Required: SMTP relay host
	SMTPPort     int    // Optional: SMTP port (default: 587)
	SMTPUsername string // Optional: SMTP auth user
	SMTPPassword string // Optional: SMTP auth password
	SMTPFrom     string // Required: sender address

	S3Endpoint  string // Optional: S3-compatible endpoint (MinIO etc); empty for AWS
	S3Region    string // Optional: bucket region (default: us-east-1)
	S3Bucket    string // Required for avatar uploads: bucket name
	S3AccessKey string // Required with S3Bucket
	S3SecretKey string // Required with S3Bucket

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		BaseURL:         os.Getenv("ACCOUNTS_BASE_URL"),
		SessionSecret:   os.Getenv("ACCOUNTS_SESSION_SECRET"),
		ITApprovalEmail: os.Getenv("ACCOUNTS_IT_APPROVAL_EMAIL"),

		Issuer:       getEnvOrDefault("ACCOUNTS_ISSUER", "accountd"),
		SessionTTL:   getEnvDurationOrDefault("ACCOUNTS_SESSION_TTL", 12*time.Hour),
		TokenTTL:     getEnvDurationOrDefault("ACCOUNTS_TOKEN_TTL", 24*time.Hour),
		DatabaseFile: getEnvOrDefault("ACCOUNTS_DATABASE_FILE", "accounts.db"),
		PepperFile:   getEnvOrDefault("ACCOUNTS_PEPPER_FILE", "pepper"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
