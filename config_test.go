package main

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/smartfit")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("APP_TIMEZONE", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "3000" || cfg.OpenAIBaseURL != "https://api.openai.com" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin, got %v", cfg.AllowedOrigins)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("expected UTC, got %s", cfg.Location)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/smartfit")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:9999/")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.OpenAIBaseURL != "http://localhost:9999" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv("DB_URL", "")
	if _, err := loadConfig(); err == nil {
		t.Error("expected an error without DB_URL")
	}

	t.Setenv("DB_URL", "postgres://localhost/smartfit")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")
	if _, err := loadConfig(); err == nil {
		t.Error("expected an error for an unknown timezone")
	}
}
