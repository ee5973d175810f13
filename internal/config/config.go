package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	AppName string
	AppURL  string
	Port    string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	UploadDir      string
	PerPage        int
	CurrencySymbol string

	LowStockThreshold int

	AdminEmail    string
	AdminPassword string
}

// LoadEnv reads .env into the process environment when the file exists
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
}

// Load builds the configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getEnvOrDefault("APP_NAME", "Storefront Admin"),
		AppURL:  getEnvOrDefault("APP_URL", "http://localhost:3000"),
		Port:    getEnvOrDefault("PORT", "3000"),

		DBDriver:    getEnvOrDefault("DB_DRIVER", "postgres"),
		DatabaseURL: databaseURL(),
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "storefront.db"),

		JWTSecret: getEnvOrDefault("JWT_SECRET", "change-me-in-production"),
		JWTTTL:    time.Duration(getIntOrDefault("JWT_TTL_HOURS", 24)) * time.Hour,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getIntOrDefault("REDIS_DB", 0),
		CacheTTL:      time.Duration(getIntOrDefault("CACHE_TTL_SECONDS", 300)) * time.Second,

		UploadDir:      getEnvOrDefault("UPLOAD_DIR", "uploads"),
		PerPage:        getIntOrDefault("PER_PAGE", 10),
		CurrencySymbol: getEnvOrDefault("CURRENCY_SYMBOL", "$"),

		LowStockThreshold: getIntOrDefault("LOW_STOCK_THRESHOLD", 5),

		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
	}
}

// databaseURL prefers DATABASE_URL and falls back to the discrete DB_* variables
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	if os.Getenv("DB_HOST") == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getEnvOrDefault("DB_PORT", "5432"),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
