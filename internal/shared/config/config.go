package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"aquabov-backend/internal/shared/telemetry"
)

// UnsetSentinel marks an API key that is deliberately not configured.
const UnsetSentinel = "unset"

// Config holds application configuration.
type Config struct {
	Port              string
	Env               string
	CORSAllowOrigin   []string
	ClassifierURL     string
	ClassifierField   string
	ClassifierTimeout time.Duration
	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiModel       string
	GeminiTimeout     time.Duration
	ObjectStoreType   string
	LocalStoreDir     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	SSEKMSKeyID       string
	DatabaseURL       string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		Env:               env,
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		ClassifierURL:     strings.TrimRight(getEnv("CLASSIFIER_URL", "http://localhost:5000"), "/"),
		ClassifierField:   getEnv("CLASSIFIER_FIELD", "image"),
		ClassifierTimeout: getSeconds("CLASSIFIER_TIMEOUT_SECONDS", 60*time.Second),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", UnsetSentinel),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTimeout:     getSeconds("GEMINI_TIMEOUT_SECONDS", 60*time.Second),
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", "images/"),
		SSEKMSKeyID:       getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:       dbURL,
	}
}

// AdvisoryAvailable reports whether the generative-language API may be called.
// It is decided once from configuration and never changes while the process runs.
func (c Config) AdvisoryAvailable() bool {
	key := strings.TrimSpace(c.GeminiAPIKey)
	return key != "" && !strings.EqualFold(key, UnsetSentinel)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		telemetry.Warn("config.invalid_seconds", map[string]any{"key": key, "value": raw, "default": def.String()})
		return def
	}
	return time.Duration(parsed) * time.Second
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

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "none", "off":
		return "none"
	default:
		return "local"
	}
}
