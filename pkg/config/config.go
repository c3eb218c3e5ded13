package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     int

	MongoURI string
	MongoDB  string

	JWTSecret string

	// GeminiAPIKey may be empty. An empty key is a valid state: AI search is
	// disabled and every query takes the text fallback.
	GeminiAPIKey string
}

func Load() Config {
	// Best effort, env vars win over .env values.
	_ = godotenv.Load()

	return Config{
		AppEnv:       getEnv("APP_ENV", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnvInt("PORT", 8080),
		MongoURI:     getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "lumina-market"),
		JWTSecret:    getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		GeminiAPIKey: geminiKey(),
	}
}

// geminiKey mirrors the provider key lookup order and treats the sample
// placeholder from .env.example as unset.
func geminiKey() string {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("API_KEY")
	}
	if key == "your_gemini_api_key_here" {
		return ""
	}
	return key
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
