package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDatabasePath = "data/storefront.db"
	defaultMenuFilePath = "data/menu-items.json"
	defaultPriceLabel   = "Rs."
	defaultLogLevel     = "info"
	defaultDraftTTL     = 15 * time.Minute
)

// Config holds the configuration for the application.
type Config struct {
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	DatabasePath string
	MenuFilePath string
	PriceLabel   string
	LogLevel     string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	DraftTTL               time.Duration
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL environment variable not set")
	}

	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")
	if supabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY environment variable not set")
	}

	// Telegram Config (Optional for CLI, required for Bot)
	allowed, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if s := os.Getenv("ADMIN_TELEGRAM_ID"); s != "" {
		adminID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	draftTTL := defaultDraftTTL
	if s := os.Getenv("DRAFT_TTL_SECONDS"); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid DRAFT_TTL_SECONDS: %q", s)
		}
		draftTTL = time.Duration(secs) * time.Second
	}

	return &Config{
		SupabaseURL:            strings.TrimRight(supabaseURL, "/"),
		SupabaseAnonKey:        supabaseAnonKey,
		SupabaseJWTSecret:      os.Getenv("SUPABASE_JWT_SECRET"),
		DatabasePath:           getEnvOr("DATABASE_PATH", defaultDatabasePath),
		MenuFilePath:           getEnvOr("MENU_FILE_PATH", defaultMenuFilePath),
		PriceLabel:             getEnvOr("PRICE_LABEL", defaultPriceLabel),
		LogLevel:               getEnvOr("LOG_LEVEL", defaultLogLevel),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		DraftTTL:               draftTTL,
	}, nil
}

// IsUserAllowed reports whether a Telegram user may use the bot. An empty
// allow list admits everyone.
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
