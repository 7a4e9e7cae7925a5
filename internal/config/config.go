package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Recs     RecsConfig
	Stream   StreamConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret     string
	TokenTTLHours int
}

type RecsConfig struct {
	// ModelDir holds the serialized model artifacts written by offline training.
	ModelDir string

	// CatalogScanLimit bounds how many products the collaborative path
	// scores per request. That path is linear in catalog size; very large
	// catalogs need candidate pre-filtering upstream of this service.
	CatalogScanLimit int

	// CacheTTLSeconds is how long ranked recommendation IDs stay in Redis.
	CacheTTLSeconds int
}

type StreamConfig struct {
	TopicEvents          string
	TopicRecommendations string
	ConsumerGroup        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:     getEnv("JWT_SECRET", "default_secret"),
			TokenTTLHours: getEnvAsInt("JWT_TTL_HOURS", 24),
		},
		Recs: RecsConfig{
			ModelDir:         getEnv("MODEL_PATH", "./models"),
			CatalogScanLimit: getEnvAsInt("RECS_CATALOG_SCAN_LIMIT", 5000),
			CacheTTLSeconds:  getEnvAsInt("RECS_CACHE_TTL_SECONDS", 300),
		},
		Stream: StreamConfig{
			TopicEvents:          getEnv("TOPIC_EVENTS", "user-events"),
			TopicRecommendations: getEnv("TOPIC_RECOMMENDATIONS", "recommendations"),
			ConsumerGroup:        getEnv("STREAM_CONSUMER_GROUP", "recommendation_processor"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
