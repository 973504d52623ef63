package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the two PDF slots the site serves.
const (
	DefaultMainPdfPath   = "/home.pdf"
	DefaultBookerPdfPath = "/abracadabra.pdf"
)

type Config struct {
	Port string

	// Chat
	GeminiAPIKey string
	ModelName    string
	UseMockLLM   bool
	WordDelay    time.Duration
	IdleTimeout  time.Duration

	// Asset cache
	DBPath        string
	AssetBaseURL  string
	MainPdfPath   string
	BookerPdfPath string

	// Transcript archive: "memory" or "firestore"
	ArchiveBackend string
	GCPProjectID   string

	// Admin surface
	AdminUser string
	AdminPass string
	JWTSecret string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

// Load reads all env vars and builds the config. A .env file in the
// working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("AMARASTE_PORT", "8080"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		ModelName:    getEnv("AMARASTE_MODEL_NAME", "gemini-2.5-flash"),
		UseMockLLM:   getBoolEnv("AMARASTE_USE_MOCK_LLM", false),
		WordDelay:    getDurationEnv("AMARASTE_WORD_DELAY_MS", 60*time.Millisecond),
		IdleTimeout:  getDurationEnv("AMARASTE_IDLE_TIMEOUT_MS", 10*time.Second),

		DBPath:        getEnv("AMARASTE_DB_PATH", "amaraste.db"),
		AssetBaseURL:  getEnv("AMARASTE_ASSET_BASE_URL", ""),
		MainPdfPath:   getEnv("AMARASTE_MAIN_PDF_PATH", DefaultMainPdfPath),
		BookerPdfPath: getEnv("AMARASTE_BOOKER_PDF_PATH", DefaultBookerPdfPath),

		ArchiveBackend: getEnv("AMARASTE_ARCHIVE_BACKEND", "memory"),
		GCPProjectID:   getEnv("AMARASTE_GCP_PROJECT", ""),

		AdminUser: getEnv("AMARASTE_ADMIN_USER", "1234"),
		AdminPass: getEnv("AMARASTE_ADMIN_PASS", "1234"),
		JWTSecret: getEnv("AMARASTE_JWT_SECRET", ""),
	}
}
