package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"parceltrack-service/internal/domain/entity"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Admin / webhook shared secrets
	AdminAPIKey   string
	WebhookAPIKey string

	// PostgreSQL
	PostgresDSN string

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// WhatsApp gateway
	WhatsAppEndpoint string
	WhatsAppToken    string

	// Background loops
	ExecutorInterval time.Duration
	WebhookInterval  time.Duration

	// Simulation fallback defaults (used when no row exists in storage)
	Simulation entity.SimulationConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	defaults := entity.DefaultSimulationConfig()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		AdminAPIKey:   getEnv("ADMIN_API_KEY", ""),
		WebhookAPIKey: getEnv("WEBHOOK_API_KEY", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres dbname=parceltrack port=5432 sslmode=disable"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "parceltrack"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		WhatsAppEndpoint: getEnv("WHATSAPP_SERVICE_URL", ""),
		WhatsAppToken:    getEnv("WHATSAPP_TOKEN", ""),

		ExecutorInterval: time.Duration(getEnvAsInt("EXECUTOR_INTERVAL", 30)) * time.Second,
		WebhookInterval:  time.Duration(getEnvAsInt("WEBHOOK_RETRY_INTERVAL", 60)) * time.Second,

		Simulation: entity.SimulationConfig{
			OriginCity:             getEnv("SIM_ORIGIN_CITY", defaults.OriginCity),
			OriginState:            getEnv("SIM_ORIGIN_STATE", defaults.OriginState),
			OriginLat:              getEnvAsFloat("SIM_ORIGIN_LAT", defaults.OriginLat),
			OriginLng:              getEnvAsFloat("SIM_ORIGIN_LNG", defaults.OriginLng),
			MinDeliveryDays:        getEnvAsInt("SIM_MIN_DELIVERY_DAYS", defaults.MinDeliveryDays),
			MaxDeliveryDays:        getEnvAsInt("SIM_MAX_DELIVERY_DAYS", defaults.MaxDeliveryDays),
			UpdateStartHour:        getEnvAsInt("SIM_UPDATE_START_HOUR", defaults.UpdateStartHour),
			UpdateEndHour:          getEnvAsInt("SIM_UPDATE_END_HOUR", defaults.UpdateEndHour),
			CheckpointIntervalDays: getEnvAsInt("SIM_CHECKPOINT_INTERVAL_DAYS", defaults.CheckpointIntervalDays),
		},
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
