package config

import (
	"os"
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Success", func(t *testing.T) {
		setEnv("SUPABASE_URL", "http://supabase.test/")
		setEnv("SUPABASE_ANON_KEY", "anon_key")
		setEnv("DATABASE_PATH", "")
		setEnv("PRICE_LABEL", "")
		setEnv("DRAFT_TTL_SECONDS", "")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.SupabaseURL != "http://supabase.test" {
			t.Errorf("Expected SupabaseURL to be 'http://supabase.test', got '%s'", cfg.SupabaseURL)
		}
		if cfg.SupabaseAnonKey != "anon_key" {
			t.Errorf("Expected SupabaseAnonKey to be 'anon_key', got '%s'", cfg.SupabaseAnonKey)
		}
		if cfg.DatabasePath != "data/storefront.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.PriceLabel != "Rs." {
			t.Errorf("Expected default PriceLabel 'Rs.', got '%s'", cfg.PriceLabel)
		}
		if cfg.DraftTTL != 15*time.Minute {
			t.Errorf("Expected default DraftTTL of 15m, got %s", cfg.DraftTTL)
		}
		if !cfg.IsUserAllowed(12345) {
			t.Error("Expected every user to be allowed with an empty allow list")
		}
	})

	t.Run("TelegramSettings", func(t *testing.T) {
		setEnv("SUPABASE_URL", "http://supabase.test")
		setEnv("SUPABASE_ANON_KEY", "anon_key")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "11, 22")
		setEnv("ADMIN_TELEGRAM_ID", "11")
		setEnv("DRAFT_TTL_SECONDS", "60")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !cfg.IsUserAllowed(22) || cfg.IsUserAllowed(33) {
			t.Errorf("Unexpected allow list: %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 11 {
			t.Errorf("Expected AdminTelegramID 11, got %d", cfg.AdminTelegramID)
		}
		if cfg.DraftTTL != time.Minute {
			t.Errorf("Expected DraftTTL of 1m, got %s", cfg.DraftTTL)
		}
	})

	t.Run("MissingSupabaseURL", func(t *testing.T) {
		setEnv("SUPABASE_ANON_KEY", "anon_key")

		// Unset SUPABASE_URL specifically for this test
		setEnv("SUPABASE_URL", "")
		os.Unsetenv("SUPABASE_URL")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing SUPABASE_URL, got nil")
		}
		expectedError := "SUPABASE_URL environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingSupabaseAnonKey", func(t *testing.T) {
		setEnv("SUPABASE_URL", "http://supabase.test")
		setEnv("SUPABASE_ANON_KEY", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing SUPABASE_ANON_KEY, got nil")
		}
		expectedError := "SUPABASE_ANON_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		setEnv("SUPABASE_URL", "http://supabase.test")
		setEnv("SUPABASE_ANON_KEY", "anon_key")

		for key, value := range map[string]string{
			"TELEGRAM_ALLOWED_USER_IDS": "11,abc",
			"ADMIN_TELEGRAM_ID":         "admin",
			"DRAFT_TTL_SECONDS":         "-5",
		} {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)
				if _, err := NewFromEnv(); err == nil {
					t.Errorf("Expected an error for %s=%q, got nil", key, value)
				}
			})
		}
	})
}
