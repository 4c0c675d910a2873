package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const insecureSessionSecret = "change-me-spendfolio-session-secret-at-least-32-bytes"

type AppConfig struct {
	Port         string
	LogLevel     string
	DatabasePath string

	DefaultSpender string
	FailurePolicy  string

	SessionSecret      string
	SessionTokenExpiry time.Duration
	RunCacheExpiry     time.Duration

	MaxUploadSizeBytes     int64
	ExportSanitizeFormulas bool
	AllowedOrigins         []string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	sessionSecret := getEnv("SESSION_SECRET", insecureSessionSecret)
	if sessionSecret == insecureSessionSecret {
		log.Println("WARNING: Using default insecure SESSION_SECRET. Set SESSION_SECRET environment variable for production.")
	}
	if len(sessionSecret) < 32 {
		log.Fatalf("FATAL: SESSION_SECRET must be at least 32 bytes long. Current length: %d", len(sessionSecret))
	}

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil || maxUploadSizeBytes <= 0 {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	failurePolicy := getEnv("FAILURE_POLICY", "isolate")
	if failurePolicy != "isolate" && failurePolicy != "all-or-nothing" {
		log.Printf("WARNING: Unknown FAILURE_POLICY '%s'. Using 'isolate'.", failurePolicy)
		failurePolicy = "isolate"
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./spendfolio.db"),

		DefaultSpender: getEnv("DEFAULT_SPENDER", "MICHELLE LAM"),
		FailurePolicy:  failurePolicy,

		SessionSecret:      sessionSecret,
		SessionTokenExpiry: getEnvAsDuration("SESSION_TOKEN_EXPIRY", 24*time.Hour),
		RunCacheExpiry:     getEnvAsDuration("RUN_CACHE_EXPIRY", 2*time.Hour),

		MaxUploadSizeBytes:     maxUploadSizeBytes,
		ExportSanitizeFormulas: getEnvAsBool("EXPORT_SANITIZE_FORMULAS", false),
		AllowedOrigins:         splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, FailurePolicy=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.FailurePolicy)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
