package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"leadhub/models"
)

var (
	DB        *gorm.DB
	AppConfig Config
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type Config struct {
	Environment    string      `json:"environment"`
	ServerPort     string      `json:"server_port"`
	DBHost         string      `json:"db_host"`
	DBPort         string      `json:"db_port"`
	DBUser         string      `json:"db_user"`
	DBPassword     string      `json:"-"`
	DBName         string      `json:"db_name"`
	DBSSLMode      string      `json:"db_ssl_mode"`
	DBMaxIdleConns int         `json:"db_max_idle_conns"`
	DBMaxOpenConns int         `json:"db_max_open_conns"`
	SentryDSN      string      `json:"-"`
	Redis          RedisConfig `json:"redis"`

	// Requests per minute per client IP on the /api group.
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// How often the cache janitor sweeps expired entries.
	CacheSweepInterval time.Duration `json:"cache_sweep_interval"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		ServerPort:         getEnv("SERVER_PORT", "5000"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "leadhub"),
		DBSSLMode:          getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		CacheSweepInterval: getEnvAsDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute),
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	if AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	return nil
}

func ConnectDB() error {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.Product{},
		&models.Lead{},
		&models.Message{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	DB = db
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
