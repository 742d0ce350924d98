package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     int

	OpenAIAPIKey  string
	OpenAIBaseURL string
	LLMModel      string

	ChatTokenSecret string
	ChatTokenTTL    time.Duration

	UploadDir       string
	UploadRetention time.Duration
	ExamplesPath    string
	URLFetchTimeout time.Duration
	MaxInputChars   int

	LogLevel string
	LogPath  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of a local .env for dev convenience.
	_ = godotenv.Load()

	env := normalizeEnv(getEnv("ENV", "dev"))

	secret := strings.TrimSpace(os.Getenv("CHAT_TOKEN_SECRET"))
	if secret == "" {
		if env == "production" {
			log.Printf("CHAT_TOKEN_SECRET is required in production")
		}
		secret = "dev-secret"
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		DBHost:     getEnv("DB_HOST", ""),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", ""),
		DBPort:     getEnvInt("DB_PORT", 3306),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		LLMModel:      getEnv("LLM_MODEL", "gpt-4o-mini"),

		ChatTokenSecret: secret,
		ChatTokenTTL:    getEnvDuration("CHAT_TOKEN_TTL", 2*time.Hour),

		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		UploadRetention: getEnvDuration("UPLOAD_RETENTION", 7*24*time.Hour),
		ExamplesPath:    getEnv("FAQ_EXAMPLES_PATH", "faq_examples.json"),
		URLFetchTimeout: getEnvDuration("URL_FETCH_TIMEOUT", 30*time.Second),
		MaxInputChars:   getEnvInt("MAX_INPUT_CHARS", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}

// DSN builds a MySQL DSN from the discrete DB_* settings.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// HasDatabase reports whether enough DB settings are present to connect.
func (c Config) HasDatabase() bool {
	return strings.TrimSpace(c.DBHost) != "" && strings.TrimSpace(c.DBName) != ""
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
