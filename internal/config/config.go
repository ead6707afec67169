package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"licensing-map/internal/datastore"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// GetDataStoreConfig returns the backing store configuration from the environment.
func GetDataStoreConfig() datastore.Config {
	return DataStoreConfigFor(os.Getenv("LICMAP_STORE_TYPE"))
}

// DataStoreConfigFor builds the configuration for a store type name. Unknown
// names keep the catalog in memory.
func DataStoreConfigFor(storeType string) datastore.Config {
	config := datastore.Config{}

	switch strings.ToLower(strings.TrimSpace(storeType)) {
	case "postgresql", "postgres", "db":
		config.Type = datastore.PostgreSQLStore
		config.ConnectionString = getConnectionString()
	case "file", "mock":
		config.Type = datastore.FileStore
		config.DataPath = getDataFilePath()
	default:
		// In-memory only
		config.Type = datastore.NoStore
	}

	return config
}

// getDataFilePath returns the path of the JSON catalog file
func getDataFilePath() string {
	return getEnv("LICMAP_DATA_FILE", "data/catalog.json")
}

// getConnectionString returns the database connection string
func getConnectionString() string {
	// Default connection string for local development
	return getEnv("DB_CONN_STRING", "postgres://localhost:5432/postgres?sslmode=disable")
}

// GeminiAPIKey returns the Gemini key, accepting GOOGLE_API_KEY as a fallback.
func GeminiAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// GeminiModel returns the model name, empty for the agent's default.
func GeminiModel() string {
	return os.Getenv("GEMINI_MODEL")
}

// Port returns the HTTP listen port.
func Port() string {
	return getEnv("PORT", "8080")
}

// JWTSecret returns the session signing secret.
func JWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("warning: JWT_SECRET not set, using development secret")
		return "licensing-map-dev-secret"
	}
	return secret
}

// SessionTTL returns how long admin session tokens stay valid.
func SessionTTL() time.Duration {
	minutes, err := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "480"))
	if err != nil || minutes <= 0 {
		minutes = 480
	}
	return time.Duration(minutes) * time.Minute
}

// AdminPasscode returns the passcode that grants the ADMIN role.
func AdminPasscode() string {
	return getEnv("ADMIN_PASSCODE", "ADMIN")
}

// SuperPasscode returns the passcode that grants the SUPER_ADMIN role.
func SuperPasscode() string {
	return getEnv("SUPER_PASSCODE", "SUPER")
}

// ExportBucket returns the S3 bucket for CSV export archival, empty to disable.
func ExportBucket() string {
	return os.Getenv("EXPORT_BUCKET")
}

// AWSRegion returns the region for the export bucket.
func AWSRegion() string {
	return getEnv("AWS_REGION", "us-east-1")
}

// IsInMemory returns true if no backing store is configured
func IsInMemory() bool {
	return GetDataStoreConfig().Type == datastore.NoStore
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
