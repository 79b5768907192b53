package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	ATTOM    ATTOMConfig
	Search   SearchConfig
	Ranking  RankingConfig
	Session  SessionConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// DatabaseConfig holds PostgreSQL configuration for lead persistence
type DatabaseConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// GeminiConfig holds Google Gemini API configuration
type GeminiConfig struct {
	APIKey              string
	ChatModel           string // Model for conversational replies
	ChatTemperature     float32
	ChatTopP            float32
	ChatMaxTokens       int32
	AnalysisModel       string // Model for fair-value analysis
	AnalysisTemperature float32
	AnalysisMaxTokens   int32
	Enabled             bool
}

// ATTOMConfig holds ATTOM Data property API configuration
type ATTOMConfig struct {
	APIKey   string
	APIBase  string
	PageSize int
	Timeout  int
	Enabled  bool
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
	SummaryTopN  int
}

// RankingConfig holds deal-score weights configuration
type RankingConfig struct {
	WeightValue   float64
	WeightSpecs   float64
	WeightRecency float64
}

// SessionConfig holds chat session lifecycle configuration
type SessionConfig struct {
	TTLMinutes     int
	SweepSeconds   int
	HistoryWindow  int
	SegmentHistory int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Database: DatabaseConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			Enabled:            getEnv("DATABASE_URL", getEnv("PG_DSN", "")) != "",
		},
		Gemini: GeminiConfig{
			APIKey:              getEnv("GEMINI_API_KEY", ""),
			ChatModel:           getEnv("GEMINI_CHAT_MODEL", "gemini-2.5-flash"),
			ChatTemperature:     float32(getEnvAsFloat("GEMINI_CHAT_TEMPERATURE", 0.7)),
			ChatTopP:            float32(getEnvAsFloat("GEMINI_CHAT_TOP_P", 0.95)),
			ChatMaxTokens:       int32(getEnvAsInt("GEMINI_CHAT_MAX_TOKENS", 2048)),
			AnalysisModel:       getEnv("GEMINI_ANALYSIS_MODEL", "gemini-2.0-flash"),
			AnalysisTemperature: float32(getEnvAsFloat("GEMINI_ANALYSIS_TEMPERATURE", 0.3)),
			AnalysisMaxTokens:   int32(getEnvAsInt("GEMINI_ANALYSIS_MAX_TOKENS", 1000)),
			Enabled:             getEnv("GEMINI_API_KEY", "") != "",
		},
		ATTOM: ATTOMConfig{
			APIKey:   getEnv("ATTOM_API_KEY", ""),
			APIBase:  getEnv("ATTOM_API_BASE", "https://api.gateway.attomdata.com/propertyapi/v1.0.0"),
			PageSize: getEnvAsInt("ATTOM_PAGE_SIZE", 50),
			Timeout:  getEnvAsInt("ATTOM_TIMEOUT", 30),
			Enabled:  getEnv("ATTOM_API_KEY", "") != "",
		},
		Search: SearchConfig{
			DefaultLimit: getEnvAsInt("SEARCH_DEFAULT_LIMIT", 10),
			MaxLimit:     getEnvAsInt("SEARCH_MAX_LIMIT", 50),
			SummaryTopN:  getEnvAsInt("SEARCH_SUMMARY_TOP_N", 5),
		},
		Ranking: RankingConfig{
			WeightValue:   getEnvAsFloat("RANK_WEIGHT_VALUE", 0.6),
			WeightSpecs:   getEnvAsFloat("RANK_WEIGHT_SPECS", 0.25),
			WeightRecency: getEnvAsFloat("RANK_WEIGHT_RECENCY", 0.15),
		},
		Session: SessionConfig{
			TTLMinutes:     getEnvAsInt("SESSION_TTL_MINUTES", 60),
			SweepSeconds:   getEnvAsInt("SESSION_SWEEP_SECONDS", 60),
			HistoryWindow:  getEnvAsInt("SESSION_HISTORY_WINDOW", 15),
			SegmentHistory: getEnvAsInt("SESSION_SEGMENT_HISTORY", 3),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
