package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string

	// Adjudication policy
	AttenuationPct decimal.Decimal // fine reduction on guilty plea
	LevyTermDays   int             // default collection term, calendar days

	// External signing service (simulated locally when unset)
	SigningServiceURL     string
	SigningTimeoutSeconds int

	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent

	// Other
	AllowedOrigins []string
	AppURL         string

	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		DBPath:                getEnv("DB_PATH", "db/app.db"),
		Environment:           getEnv("ENVIRONMENT", "development"),
		UploadDir:             getEnv("UPLOAD_DIR", "static/uploads"),
		AttenuationPct:        getEnvDecimal("FINE_ATTENUATION_PCT", "0.40"),
		LevyTermDays:          getEnvInt("LEVY_TERM_DAYS", 30),
		SigningServiceURL:     getEnv("SIGNING_SERVICE_URL", ""),
		SigningTimeoutSeconds: getEnvInt("SIGNING_TIMEOUT_SECONDS", 10),
		ResendAPIKey:          getEnv("RESEND_API_KEY", ""),
		EmailFrom:             getEnv("EMAIL_FROM", "noreply@aduanaflow.org"),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "AduanaFlow"),
		EmailTestMode:         getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		AllowedOrigins:        strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:                getEnv("APP_URL", "http://localhost:8080"),
		R2AccountID:           getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:         getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:     getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:          getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:           getEnv("R2_PUBLIC_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		log.Printf("[WARNING] Invalid decimal for %s: %q, using default %s", key, value, defaultValue)
		parsed, _ = decimal.NewFromString(defaultValue)
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
