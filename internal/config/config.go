package config

import (
	"log"
	"os"
	"strconv"
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
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Quote provider
	QuoteBaseURL   string
	QuoteAPIToken  string
	QuoteTimeout   time.Duration
	QuoteRateLimit float64
	QuoteRateBurst int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "papertrade"),
		DBPassword: getEnv("DB_PASSWORD", "papertrade"),
		DBName:     getEnv("DB_NAME", "papertrade"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Quote provider
		QuoteBaseURL:  getEnv("QUOTE_BASE_URL", "https://cloud.iexapis.com/stable"),
		QuoteAPIToken: getEnv("QUOTE_API_TOKEN", ""),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	// Parse quote provider timeout
	timeoutStr := getEnv("QUOTE_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Warning: invalid QUOTE_TIMEOUT value '%s', falling back to 5s\n", timeoutStr)
		timeout = 5 * time.Second
	}
	config.QuoteTimeout = timeout

	// Quote requests per second allowed against the provider, with burst.
	rateStr := getEnv("QUOTE_RATE_LIMIT", "10")
	rateLimit, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rateLimit <= 0 {
		log.Printf("Warning: invalid QUOTE_RATE_LIMIT value '%s', falling back to 10\n", rateStr)
		rateLimit = 10
	}
	config.QuoteRateLimit = rateLimit

	burstStr := getEnv("QUOTE_RATE_BURST", "20")
	burst, err := strconv.Atoi(burstStr)
	if err != nil || burst <= 0 {
		log.Printf("Warning: invalid QUOTE_RATE_BURST value '%s', falling back to 20\n", burstStr)
		burst = 20
	}
	config.QuoteRateBurst = burst

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
