package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Addr        string
	CORSOrigins []string
	LogLevel    string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	MaxCaptionLen  int

	ChromeBin      string
	ExportSettleMs int
	ExportTimeout  int

	OutputDir string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Addr:        getEnv("ADDR", ":8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MaxCaptionLen:  getEnvInt("MAX_CAPTION_LEN", 2000),

		ChromeBin:      getEnv("CHROME_BIN", ""),
		ExportSettleMs: getEnvInt("EXPORT_SETTLE_MS", 300),
		ExportTimeout:  getEnvInt("EXPORT_TIMEOUT_SEC", 60),

		OutputDir: getEnv("OUTPUT_DIR", "./output"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
