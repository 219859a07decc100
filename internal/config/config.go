package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTSecret   string
	JWTExpiry   time.Duration
	DevPassword string

	// DispatchProvider selects the outbound dispatcher: "vapi" (voice call)
	// or "sns" (SMS fallback).
	DispatchProvider  string
	VapiAPIKey        string
	VapiBaseURL       string
	VapiPhoneNumberID string // empty means the provider's default number
	SNSRegion         string

	SchedulerInterval time.Duration
	DispatchTimeout   time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Reminders string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Reminders: getEnv("DYNAMO_TABLE_REMINDERS", "reminders"),
		},

		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
		JWTExpiry:   time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 30)) * 24 * time.Hour,
		DevPassword: getEnv("DEV_PASSWORD", "dev123"),

		DispatchProvider:  getEnv("DISPATCH_PROVIDER", "vapi"),
		VapiAPIKey:        getEnv("VAPI_API_KEY", ""),
		VapiBaseURL:       getEnv("VAPI_BASE_URL", "https://api.vapi.ai"),
		VapiPhoneNumberID: getEnv("VAPI_PHONE_NUMBER_ID", ""),
		SNSRegion:         getEnv("SNS_REGION", "us-east-1"),

		SchedulerInterval: time.Duration(getEnvInt("SCHEDULER_INTERVAL_SECONDS", 30)) * time.Second,
		DispatchTimeout:   time.Duration(getEnvInt("DISPATCH_TIMEOUT_SECONDS", 30)) * time.Second,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
