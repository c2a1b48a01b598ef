package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Pipeline PipelineConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	// Driver selects the backing store: "postgres" or "sqlite".
	Driver          string
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// OCRConfig holds recognition-related configuration
type OCRConfig struct {
	// Tesseract is the binary name or path handed to the command runner.
	Tesseract string
	Language  string
	// PSM/OEM select tesseract's page segmentation and engine modes.
	// PSM 6 ("assume a single uniform block of text") keeps tabular
	// invoice layouts intact.
	PSM     int
	OEM     int
	Timeout time.Duration
	// DPI used when rasterizing PDF pages.
	DPI int
}

// PipelineConfig holds processing defaults
type PipelineConfig struct {
	DefaultCurrency string
	TempDir         string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			DSN:             getEnv("DB_URL", "billscan.db"),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			Tesseract: getEnv("TESSERACT_PATH", "tesseract"),
			Language:  getEnv("OCR_LANGUAGE", "eng"),
			PSM:       getEnvAsInt("OCR_PSM", 6),
			OEM:       getEnvAsInt("OCR_OEM", 3),
			Timeout:   getEnvAsDuration("OCR_TIMEOUT", 2*time.Minute),
			DPI:       getEnvAsInt("PDF_RENDER_DPI", 300),
		},
		Pipeline: PipelineConfig{
			DefaultCurrency: getEnv("DEFAULT_CURRENCY", "EUR"),
			TempDir:         getEnv("TEMP_DIR", os.TempDir()),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return NewAppError("CONFIG_ERROR", "DB_DRIVER must be postgres or sqlite", ErrInvalidInput)
	}
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "PDF_RENDER_DPI must be positive", ErrInvalidInput)
	}
	return nil
}
