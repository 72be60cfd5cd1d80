package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// bcrypt hash required by cmd/token when set
	OperatorPasswordHash string

	// Library policy
	LoanPeriodDays    int
	RenewalPeriodDays int

	// Finance policy
	BudgetGrowthRate decimal.Decimal

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "bookkeeper"),
		DBPassword: getEnv("DB_PASSWORD", "bookkeeper"),
		DBName:     getEnv("DB_NAME", "bookkeeper"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "bookkeeper.db"),

		JWTSecret:            getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),

		LoanPeriodDays:    getEnvInt("LOAN_PERIOD_DAYS", 14),
		RenewalPeriodDays: getEnvInt("RENEWAL_PERIOD_DAYS", 7),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 100),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	rateStr := getEnv("BUDGET_GROWTH_RATE", "0.2")
	rate, err := decimal.NewFromString(rateStr)
	if err != nil || rate.IsNegative() {
		log.Printf("Warning: invalid BUDGET_GROWTH_RATE value '%s', falling back to 0.2\n", rateStr)
		rate = decimal.RequireFromString("0.2")
	}
	config.BudgetGrowthRate = rate

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

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, v, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %g\n", key, v, defaultValue)
		return defaultValue
	}
	return f
}
