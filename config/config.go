package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Group     GroupConfig
	Admin     AdminConfig
	Redis     RedisConfig
	S3        S3Config
	OpenAI    OpenAIConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Reconcile ReconcileConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	// URL selects the driver by scheme: "postgres://..." or "sqlite://path".
	URL string
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type GroupConfig struct {
	// Code is the shared admission secret; compared after trim+lowercase.
	Code string
}

type AdminConfig struct {
	// Users is the static admin list, read once at startup.
	Users []string
	// RuntimeEnv names the env var re-read on every policy check, so
	// admins can be granted without a restart.
	RuntimeEnv string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string
}

func (c *S3Config) Enabled() bool {
	return c.Bucket != ""
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type ReconcileConfig struct {
	// CronSpec schedules the vote-counter reconciliation sweep.
	CronSpec string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "sqlite://cottagechooser.db"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "dev-secret-key"),
			TTL:    parseDuration(getEnv("SESSION_TTL", "720h")),
		},
		Group: GroupConfig{
			Code: getEnv("GROUP_CODE", "saywards"),
		},
		Admin: AdminConfig{
			Users:      parseSlice(getEnv("ADMIN_USERS", "admin")),
			RuntimeEnv: "ADMINS",
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-west-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		RateLimit: RateLimitConfig{
			RPS:   parseFloat(getEnv("RATE_LIMIT_RPS", "5"), 5),
			Burst: parseInt(getEnv("RATE_LIMIT_BURST", "10"), 10),
		},
		Reconcile: ReconcileConfig{
			CronSpec: getEnv("RECONCILE_CRON", "*/10 * * * *"),
		},
	}

	return config, nil
}

// RuntimeAdmins reads the runtime-configurable admin list. It is read on
// every call so membership can change without a restart.
func (c *AdminConfig) RuntimeAdmins() []string {
	return parseSlice(os.Getenv(c.RuntimeEnv))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 720h", s)
		return 720 * time.Hour
	}
	return duration
}

func parseInt(s string, defaultValue int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return n
}

func parseFloat(s string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
