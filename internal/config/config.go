package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
)

// Default Gemini model names; overridable via env for preview rollovers.
const (
	defaultChatModel  = "gemini-3-flash-preview"
	defaultTitleModel = "gemini-2.5-flash-lite"
	defaultTTSModel   = "gemini-2.5-flash-preview-tts"
)

// Config holds the application configuration
type Config struct {
	DatabaseURL  string
	Port         string
	GeminiAPIKey string
	ChatModel    string
	TitleModel   string
	TTSModel     string
	DevMode      bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:       "8080", // default port
		ChatModel:  defaultChatModel,
		TitleModel: defaultTitleModel,
		TTSModel:   defaultTTSModel,
	}

	// Load DATABASE_URL and log connection details (password masked)
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.DatabaseURL = databaseURL

	if u, err := url.Parse(databaseURL); err == nil {
		host := u.Hostname()
		if host == "" {
			host = "localhost"
		}
		port := u.Port()
		if port == "" {
			port = "5432"
		}
		dbName := strings.TrimPrefix(u.Path, "/")
		if idx := strings.Index(dbName, "?"); idx >= 0 {
			dbName = dbName[:idx]
		}
		user := u.User.Username()
		if user == "" {
			user = "(none)"
		}
		log.Printf("DB connect: host=%s port=%s db=%s user=%s", host, port, dbName, user)
	}

	// Load PORT (optional, defaults to 8080)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	// Load GEMINI_API_KEY (required)
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	cfg.GeminiAPIKey = apiKey

	// Optional model overrides
	if m := os.Getenv("CHAT_MODEL"); m != "" {
		cfg.ChatModel = m
	}
	if m := os.Getenv("TITLE_MODEL"); m != "" {
		cfg.TitleModel = m
	}
	if m := os.Getenv("TTS_MODEL"); m != "" {
		cfg.TTSModel = m
	}

	// Load DEV_MODE (optional, defaults to false). In dev mode the send-OTP
	// response echoes the generated code so the app can be tested without SMS.
	devMode := os.Getenv("DEV_MODE")
	cfg.DevMode = devMode == "true"

	return cfg, nil
}
