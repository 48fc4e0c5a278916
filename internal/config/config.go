// Package config provides configuration management for the BillEase server.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	Bill     BillConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string
}

// AIConfig holds the Gemini collaborator configuration.
type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

// BillConfig holds bill-session policy knobs.
type BillConfig struct {
	MaxPeople int
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: parseCSV(os.Getenv("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/billease.db"),
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		},
		Bill: BillConfig{
			MaxPeople: getEnvInt("MAX_PEOPLE", 20),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func parseCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
