package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is the v1 Up API endpoint.
const DefaultAPIBaseURL = "https://api.up.com.au/api/v1"

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Up API
	UpAccessToken string
	UpAPIBaseURL  string
	// UpRequestTimeout bounds each individual request to the Up API.
	UpRequestTimeout time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:          getEnv("PORT", "8080"),
		UpAccessToken: getEnv("UP_ACCESS_TOKEN", ""),
		UpAPIBaseURL:  getEnv("UP_API_BASE_URL", DefaultAPIBaseURL),
	}

	// Parse the Up request timeout
	timeoutStr := getEnv("UP_REQUEST_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Warning: invalid UP_REQUEST_TIMEOUT value '%s', falling back to 30s\n", timeoutStr)
		timeout = 30 * time.Second
	}
	config.UpRequestTimeout = timeout

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

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
