package config

import "testing"

func TestLoad(t *testing.T) {
	t.Run("quote_rate_defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.QuoteRateLimit != 10 {
			t.Errorf("expected default rate limit 10, got %v", cfg.QuoteRateLimit)
		}
		if cfg.QuoteRateBurst != 20 {
			t.Errorf("expected default rate burst 20, got %d", cfg.QuoteRateBurst)
		}
	})

	t.Run("quote_rate_from_env", func(t *testing.T) {
		t.Setenv("QUOTE_RATE_LIMIT", "2.5")
		t.Setenv("QUOTE_RATE_BURST", "7")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.QuoteRateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", cfg.QuoteRateLimit)
		}
		if cfg.QuoteRateBurst != 7 {
			t.Errorf("expected rate burst 7, got %d", cfg.QuoteRateBurst)
		}
	})

	t.Run("invalid_quote_rate_falls_back", func(t *testing.T) {
		t.Setenv("QUOTE_RATE_LIMIT", "fast")
		t.Setenv("QUOTE_RATE_BURST", "-1")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.QuoteRateLimit != 10 {
			t.Errorf("expected fallback rate limit 10, got %v", cfg.QuoteRateLimit)
		}
		if cfg.QuoteRateBurst != 20 {
			t.Errorf("expected fallback rate burst 20, got %d", cfg.QuoteRateBurst)
		}
	})
}
