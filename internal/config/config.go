package config

import (
	"errors"  // For the missing-secret error
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For boolean parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration. It is built once at start-up
// and handed to every component that needs it.
type Config struct {
	AppPort    string        // Application port
	DBDriver   string        // mysql or postgres
	DBUser     string        // Database user
	DBPassword string        // Database password
	DBHost     string        // Database host
	DBPort     string        // Database port
	DBName     string        // Database name
	DBSSLMode  string        // Postgres sslmode
	JWTSecret  string        // JWT secret key
	JWTTTL     time.Duration // Token lifetime
	RedisAddr  string        // Redis server address, empty disables caching
	RedisPass  string        // Redis password
	RedisDB    int           // Redis database number
	CacheTTL   time.Duration // Lifetime of cached reads
	BcryptCost int           // Password hashing cost
	LogLevel   string        // logrus level name
	LogFormat  string        // text or json
	IsProd     bool          // Is production environment
}

// ErrMissingSecret is returned when JWT_SECRET is not set
var ErrMissingSecret = errors.New("config: JWT_SECRET is required")

// Load reads configuration from the environment, after loading .env if present
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{
		AppPort:    GetEnv("APP_PORT", "8080"),
		DBDriver:   strings.ToLower(GetEnv("DB_DRIVER", "mysql")),
		DBUser:     GetEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "127.0.0.1"),
		DBPort:     os.Getenv("DB_PORT"),
		DBName:     GetEnv("DB_NAME", "wallet_ledger"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "disable"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTTTL:     GetDurationEnv("JWT_TTL", 24*time.Hour),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		RedisPass:  os.Getenv("REDIS_PASS"),
		RedisDB:    GetIntEnv("REDIS_DB", 0),
		CacheTTL:   GetDurationEnv("CACHE_TTL", 60*time.Second),
		BcryptCost: GetIntEnv("BCRYPT_COST", 10),
		LogLevel:   GetEnv("LOG_LEVEL", "info"),
		LogFormat:  GetEnv("LOG_FORMAT", "text"),
		IsProd:     GetBoolEnv("IS_PROD", false),
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "3306"
		if cfg.DBDriver == "postgres" {
			cfg.DBPort = "5432"
		}
	}
	return cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// GetEnv returns an environment variable or a default value
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv accepts Go duration syntax ("90s", "24h")
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
