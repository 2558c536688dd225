package handler

import (
	"os"
	"strconv"
	"time"
)

// DefaultSurveyTable is the table survey responses are written to
const DefaultSurveyTable = "managers_survey_responses"

// Config holds all configuration for the application.
// It is built once per process and passed to the router at construction.
type Config struct {
	// Server configuration
	Port string
	Host string

	// Supabase configuration. The service role key is used server-side only:
	// no user session is kept and no token is ever refreshed.
	SupabaseURL            string
	SupabaseServiceRoleKey string
	SurveyTable            string
	RequestTimeout         time.Duration

	// Direct Postgres connection, only needed to apply the schema
	DatabaseURL string

	// Observability
	MetricsEnabled bool
	LogLevel       string
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() *Config {
	config := &Config{
		// Server defaults
		Port: getEnv("PORT", "8080"),
		Host: getEnv("HOST", "0.0.0.0"),

		// Supabase configuration
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SurveyTable:            getEnv("SURVEY_TABLE", DefaultSurveyTable),
		RequestTimeout:         time.Duration(getEnvAsInt("SUPABASE_TIMEOUT_SECONDS", 30)) * time.Second,

		DatabaseURL: getEnv("SUPABASE_DB_URL", ""),

		// Observability
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	return config
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer with a fallback default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as boolean with a fallback default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.LogLevel == "production" || os.Getenv("GIN_MODE") == "release" || os.Getenv("VERCEL") == "1"
}

// HasSupabaseConfig returns true if both the Supabase URL and service role key are set
func (c *Config) HasSupabaseConfig() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceRoleKey != ""
}

// HasDatabaseConfig returns true if a direct Postgres connection string is set
func (c *Config) HasDatabaseConfig() bool {
	return c.DatabaseURL != ""
}

// Table returns the configured survey table, falling back to the default
func (c *Config) Table() string {
	if c.SurveyTable == "" {
		return DefaultSurveyTable
	}
	return c.SurveyTable
}
