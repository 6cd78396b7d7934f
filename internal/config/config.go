package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all aviscan configuration.
type Config struct {
	Server ServerConfig
	Engine EngineConfig
	Media  MediaConfig
	Store  StoreConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	BaseURL        string
	AllowedOrigins []string
	APIKey         string
	APIKeyHeader   string
	RequestTimeout time.Duration
}

// EngineConfig holds inference engine settings.
type EngineConfig struct {
	ModelPath  string
	LabelsPath string
}

// MediaConfig holds media store settings.
type MediaConfig struct {
	Provider       string // "supabase" or "local"
	UploadDir      string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
}

// StoreConfig holds scan record store settings.
type StoreConfig struct {
	Provider    string // "mongo", "postgres", or "memory"
	MongoURI    string
	MongoDB     string
	PostgresDSN string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text" or "json"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr:           getenv("AVISCAN_ADDR", ":8080"),
			BaseURL:        getenv("AVISCAN_BASE_URL", "http://localhost:8080"),
			AllowedOrigins: splitCSV(getenv("AVISCAN_ALLOWED_ORIGINS", "*")),
			APIKey:         os.Getenv("AVISCAN_API_KEY"),
			APIKeyHeader:   getenv("AVISCAN_API_KEY_HEADER", "X-API-Key"),
			RequestTimeout: getenvDuration("AVISCAN_REQUEST_TIMEOUT", 30*time.Second),
		},
		Engine: EngineConfig{
			ModelPath:  getenv("AVISCAN_MODEL_PATH", "models/cdd_efficientnet.onnx"),
			LabelsPath: getenv("AVISCAN_LABELS_PATH", "models/label_map.json"),
		},
		Media: MediaConfig{
			Provider:       getenv("AVISCAN_MEDIA_PROVIDER", "local"),
			UploadDir:      getenv("AVISCAN_UPLOAD_DIR", "uploads"),
			SupabaseURL:    os.Getenv("AVISCAN_SUPABASE_URL"),
			SupabaseKey:    os.Getenv("AVISCAN_SUPABASE_KEY"),
			SupabaseBucket: getenv("AVISCAN_SUPABASE_BUCKET", "images"),
		},
		Store: StoreConfig{
			Provider:    getenv("AVISCAN_STORE_PROVIDER", "memory"),
			MongoURI:    getenv("AVISCAN_MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:     getenv("AVISCAN_MONGO_DB", "cdd"),
			PostgresDSN: os.Getenv("AVISCAN_POSTGRES_DSN"),
		},
		Log: LogConfig{
			Level:  getenv("AVISCAN_LOG_LEVEL", "info"),
			Format: getenv("AVISCAN_LOG_FORMAT", "text"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare numbers are treated as seconds.
		if secs, convErr := strconv.Atoi(v); convErr == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

// splitCSV splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
