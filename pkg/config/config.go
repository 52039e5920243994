package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Storage       StorageConfig
	JWT           JWTConfig
	Scheduler     SchedulerConfig
	Notifications NotificationsConfig
	GigaChat      GigaChatConfig
	Logger        LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string // json or console
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32

	// TimeZone is the session time zone; DATE(created_at) buckets follow it.
	TimeZone       string
	ConnectRetries int
}

// StorageConfig selects the ledger store. "memory" keeps everything in process and is meant
// for local runs without Postgres.
type StorageConfig struct {
	Driver string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type SchedulerConfig struct {
	RecurringSpec string
	RunOnStart    bool
	TickTimeout   time.Duration
	Location      *time.Location
}

type NotificationsConfig struct {
	PerUser int
}

// GigaChatConfig is optional: with an empty APIKey spending advice falls back to the
// rule-based analysis only.
type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

func (c GigaChatConfig) Enabled() bool {
	return c.APIKey != ""
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables win in containers
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout := getEnvInt("SERVER_READ_TIMEOUT", 30)
	writeTimeout := getEnvInt("SERVER_WRITE_TIMEOUT", 30)
	jwtExp := getEnvInt("JWT_EXPIRATION_HOURS", 24)
	refreshExp := getEnvInt("JWT_REFRESH_EXPIRATION_HOURS", 720)
	tickTimeout := getEnvInt("RECURRING_TICK_TIMEOUT_SECONDS", 300)

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Local"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3001"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "fin_guardian"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConns:       int32(getEnvInt("DB_MAX_CONNS", 10)),
			TimeZone:       getEnv("DB_TIMEZONE", "UTC"),
			ConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 5),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "postgres"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "guardian-dev"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Scheduler: SchedulerConfig{
			RecurringSpec: getEnv("RECURRING_CRON", "@daily"),
			RunOnStart:    getEnvBool("RECURRING_RUN_ON_START", false),
			TickTimeout:   time.Duration(tickTimeout) * time.Second,
			Location:      loc,
		},
		Notifications: NotificationsConfig{
			PerUser: getEnvInt("NOTIFICATIONS_PER_USER", 20),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: getEnvBool("GIGACHAT_INSECURE_SKIP_VERIFY", false),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
