package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		os.Unsetenv("DATABASE_PATH")
		os.Unsetenv("TELEGRAM_ALLOWED_USER_IDS")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/nutriplan.db" {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
		if len(cfg.TelegramAllowedUserIDs) != 0 {
			t.Errorf("Expected no allowed user IDs, got %v", cfg.TelegramAllowedUserIDs)
		}
	})

	t.Run("ExplicitValues", func(t *testing.T) {
		t.Setenv("DATABASE_PATH", "/tmp/test.db")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123, 456")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected database path '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[0] != 123 || cfg.TelegramAllowedUserIDs[1] != 456 {
			t.Errorf("Expected allowed user IDs [123 456], got %v", cfg.TelegramAllowedUserIDs)
		}
	})

	t.Run("AdminID", func(t *testing.T) {
		t.Setenv("ADMIN_TELEGRAM_ID", "789")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.AdminTelegramID != 789 {
			t.Errorf("Expected admin ID 789, got %d", cfg.AdminTelegramID)
		}
	})

	t.Run("InvalidAdminID", func(t *testing.T) {
		t.Setenv("ADMIN_TELEGRAM_ID", "not-a-number")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for a non-numeric admin ID, got nil")
		}
	})

	t.Run("InvalidUserID", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123,abc")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for a non-numeric user ID, got nil")
		}
	})
}

func TestRequireTelegram(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireTelegram(); err == nil {
		t.Fatal("Expected an error for missing bot token, got nil")
	}

	cfg.TelegramBotToken = "token"
	err := cfg.RequireTelegram()
	if err == nil {
		t.Fatal("Expected an error for missing webhook URL, got nil")
	}
	expectedError := "TELEGRAM_WEBHOOK_URL environment variable not set"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}

	cfg.TelegramWebhookURL = "https://bot.test/webhook"
	if err := cfg.RequireTelegram(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestRequireLLM(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireLLM(); err == nil {
		t.Fatal("Expected an error when no LLM key is set, got nil")
	}

	cfg.GroqAPIKey = "groq_key"
	if err := cfg.RequireLLM(); err != nil {
		t.Errorf("Expected no error with a Groq key set, got %v", err)
	}
}
