// Package config loads runtime settings for the complaint desk.
//
// Settings come from the process environment, with an optional .env file in
// the working directory filling in anything not already set. Business
// constants that are not deployment specific live in complaint_config.go.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Group platforms the staff notifications can be delivered to.
const (
	PlatformLine     = "line"
	PlatformTelegram = "telegram"
)

// Object storage backends.
const (
	StorageFTP      = "ftp"
	StorageSupabase = "supabase"
)

// Config holds all application configuration.
type Config struct {
	HTTPAddr    string
	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string

	WebBaseURL string
	Language   string

	// LINE Messaging API
	LineChannelSecret string
	LineAccessToken   string
	LineGroupID       string

	// GroupPlatform selects where staff group notifications go.
	GroupPlatform    string
	TelegramBotToken string
	TelegramChatID   int64

	StorageBackend string
	FTPHost        string
	FTPPort        string
	FTPUser        string
	FTPPassword    string
	FTPDir         string
	FTPBaseURL     string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	IntakeWorkers   int
	IntakeQueueSize int
	HTTPTimeout     time.Duration
}

// Load reads the environment (and .env, if present) and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	chatID, err := getEnvInt64("TELEGRAM_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:    getEnvOrDefault("HTTP_ADDR", ":8080"),
		DatabaseDSN: getEnvOrDefault("DATABASE_DSN", defaultDSN()),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnvOrDefault("JWT_ISSUER", "complaintdesk"),

		WebBaseURL: strings.TrimRight(os.Getenv("WEB_BASE_URL"), "/"),
		Language:   getEnvOrDefault("LANGUAGE", DefaultLanguage),

		LineChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
		LineAccessToken:   os.Getenv("LINE_ACCESS_TOKEN"),
		LineGroupID:       os.Getenv("LINE_GROUP_ID"),

		GroupPlatform:    strings.ToLower(getEnvOrDefault("GROUP_PLATFORM", PlatformLine)),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   chatID,

		StorageBackend: strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageSupabase)),
		FTPHost:        os.Getenv("FTP_HOST"),
		FTPPort:        getEnvOrDefault("FTP_PORT", "21"),
		FTPUser:        os.Getenv("FTP_USER"),
		FTPPassword:    os.Getenv("FTP_PASSWORD"),
		FTPDir:         strings.Trim(getEnvOrDefault("FTP_DIR", "complaints"), "/"),
		FTPBaseURL:     strings.TrimRight(os.Getenv("FTP_BASE_URL"), "/"),
		SupabaseURL:    strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		SupabaseBucket: os.Getenv("SUPABASE_BUCKET"),

		IntakeWorkers:   getEnvInt("INTAKE_WORKERS", DefaultIntakeWorker),
		IntakeQueueSize: getEnvInt("INTAKE_QUEUE_SIZE", DefaultIntakeQueue),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required settings for the selected backends are present.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.LineAccessToken == "" || c.LineChannelSecret == "" {
		return fmt.Errorf("LINE_ACCESS_TOKEN and LINE_CHANNEL_SECRET are required")
	}

	switch c.GroupPlatform {
	case PlatformLine:
		if c.LineGroupID == "" {
			return fmt.Errorf("LINE_GROUP_ID is required when GROUP_PLATFORM=line")
		}
	case PlatformTelegram:
		if c.TelegramBotToken == "" || c.TelegramChatID == 0 {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required when GROUP_PLATFORM=telegram")
		}
	default:
		return fmt.Errorf("unknown GROUP_PLATFORM %q", c.GroupPlatform)
	}

	switch c.StorageBackend {
	case StorageFTP:
		if c.FTPHost == "" || c.FTPBaseURL == "" {
			return fmt.Errorf("FTP_HOST and FTP_BASE_URL are required when STORAGE_BACKEND=ftp")
		}
	case StorageSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" || c.SupabaseBucket == "" {
			return fmt.Errorf("SUPABASE_URL, SUPABASE_KEY and SUPABASE_BUCKET are required when STORAGE_BACKEND=supabase")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.IntakeWorkers < 1 {
		return fmt.Errorf("INTAKE_WORKERS must be at least 1, got %d", c.IntakeWorkers)
	}
	if c.IntakeQueueSize < 1 {
		return fmt.Errorf("INTAKE_QUEUE_SIZE must be at least 1, got %d", c.IntakeQueueSize)
	}
	return nil
}

func defaultDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnvOrDefault("DB_HOST", "localhost"),
		getEnvOrDefault("DB_USER", "user"),
		getEnvOrDefault("DB_PASSWORD", "password"),
		getEnvOrDefault("DB_NAME", "complaintdesk"),
		getEnvOrDefault("DB_PORT", "5432"),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

// getEnvDuration accepts Go duration strings like "5s" or "1h30m".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
