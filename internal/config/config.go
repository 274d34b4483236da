package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
// It is built once in main and passed explicitly to the components that need it.
type Config struct {
	ServerPort   string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	OpenAIAPIKey string
	OpenAIModel  string
	SwaggerHost  string
	LogLevel     string
	LogFormat    string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first if present.
//
// MYSQL_DSN and OPENAI_API_KEY have no defaults on purpose: the server
// still starts without them and runs with auth or diagnosis disabled.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("PORT", "4000"),
		MySQLDSN:     os.Getenv("MYSQL_DSN"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    os.Getenv("LOG_FORMAT"),
	}
}

// AuthEnabled reports whether the credential store is configured.
func (c *Config) AuthEnabled() bool {
	return c.MySQLDSN != ""
}

// DiagnosisEnabled reports whether the LLM provider is configured.
func (c *Config) DiagnosisEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
