package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// JWT issued by this API
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Supabase token bridge. When empty, Supabase tokens are rejected and
	// only locally issued tokens are accepted.
	SupabaseJWTSecret string

	// CORS
	CORSAllowOrigin string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "allowance_ally"),

		// JWT
		JWTSecret:         getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),

		// CORS
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
	}

	// Parse JWT expiration duration. The frontend stores tokens for a week.
	expStr := getEnv("JWT_EXPIRES_IN", "168h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 168h\n", expStr)
		expDur = 168 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set overrides the global configuration. Intended for tests.
func Set(c *Config) {
	appConfig = c
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
