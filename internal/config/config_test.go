package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.URL != "http://localhost:3001" {
		t.Fatalf("unexpected server url: %s", cfg.Server.URL)
	}
	if cfg.Server.UserID != "1" {
		t.Fatalf("unexpected user id: %s", cfg.Server.UserID)
	}
	if cfg.UI.DefaultView != "discover" {
		t.Fatalf("unexpected default view: %s", cfg.UI.DefaultView)
	}
	if cfg.Cache.Dir == "" {
		t.Fatalf("expected a default cache dir")
	}
	if cfg.Logging.Level != "INFO" {
		t.Fatalf("unexpected log level: %s", cfg.Logging.Level)
	}
}
