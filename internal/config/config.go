package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendFile     = "file"
	SessionBackendPostgres = "postgres"
)

type Config struct {
	// Database (optional: session slot and error log sink)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBLogs     bool

	LogRetention time.Duration

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Session slot
	SessionBackend string
	SessionFile    string

	// Multiplier applied to per-operation simulated delays; 0 disables them.
	LatencyScale float64

	// Server
	Port            string
	CORSOrigins     string
	RateLimitPerMin int
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env file could not be read", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "needit"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBLogs:     parseBool(getEnv("DB_LOGS", "false")),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 720*time.Hour),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),

		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendFile),
		SessionFile:    getEnv("SESSION_FILE", "needit-session.json"),

		LatencyScale: parseFloat(getEnv("SIMULATED_LATENCY_SCALE", "1"), 1),

		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMin: parseInt(getEnv("RATE_LIMIT_PER_MIN", "60"), 60),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	switch c.SessionBackend {
	case SessionBackendFile:
		if c.SessionFile == "" {
			return errors.New("SESSION_FILE must not be empty")
		}
	case SessionBackendPostgres:
	default:
		return errors.New("SESSION_BACKEND must be \"file\" or \"postgres\"")
	}
	if c.LatencyScale < 0 {
		return errors.New("SIMULATED_LATENCY_SCALE must not be negative")
	}
	return nil
}

// NeedsDatabase is true when any component is configured to use postgres.
func (c *Config) NeedsDatabase() bool {
	return c.DBLogs || c.SessionBackend == SessionBackendPostgres
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
