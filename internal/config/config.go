package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	OpenAI    OpenAIConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Artifacts ArtifactsConfig
	Client    ClientConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// MongoDBConfig holds MongoDB connection details (optional, for the task
// archive and completed-report cache)
type MongoDBConfig struct {
	URI        string
	Username   string
	Password   string
	Host       string
	Port       string
	Database   string
	Collection string
	AuthSource string // Database to authenticate against (default: admin)
}

// AuthConfig holds optional JWT bearer auth configuration. API auth is
// disabled when the secret is empty.
type AuthConfig struct {
	JWTSecret string
}

// ArtifactsConfig holds settings for rendered PDF storage and retirement
type ArtifactsConfig struct {
	Dir          string
	RetentionAge time.Duration
}

// ClientConfig holds settings for the wizard client
type ClientConfig struct {
	ServerURL    string
	PollInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8085"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.63),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 0), // 0 means no limit
		},
		MongoDB: MongoDBConfig{
			URI:        getEnv("MONGODB_URI", ""),
			Username:   getEnv("MONGODB_USERNAME", ""),
			Password:   getEnv("MONGODB_PASSWORD", ""),
			Host:       getEnv("MONGODB_HOST", ""),
			Port:       getEnv("MONGODB_PORT", "27017"),
			Database:   getEnv("MONGODB_DATABASE", "account_research"),
			Collection: getEnv("MONGODB_COLLECTION", "tasks"),
			AuthSource: getEnv("MONGODB_AUTH_SOURCE", "admin"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Artifacts: ArtifactsConfig{
			Dir:          getEnv("ARTIFACTS_DIR", "output"),
			RetentionAge: getEnvDuration("ARTIFACTS_RETENTION", 24*time.Hour),
		},
		Client: ClientConfig{
			ServerURL:    getEnv("SERVER_URL", "http://localhost:8085"),
			PollInterval: getEnvDuration("POLL_INTERVAL", 3*time.Second),
		},
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates that required configuration values are present
func ValidateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if config.Artifacts.Dir == "" {
		return fmt.Errorf("ARTIFACTS_DIR must not be empty")
	}
	if config.Artifacts.RetentionAge <= 0 {
		return fmt.Errorf("ARTIFACTS_RETENTION must be positive")
	}
	// OpenAI API key is not required at startup: without it the server still
	// serves status/listing endpoints and fails generation tasks cleanly.
	return nil
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
