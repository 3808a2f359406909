package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CLINIC_API_BASE_URL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.ClinicAPIBaseURL != "" {
		t.Fatalf("expected default clinic api url empty, got %s", cfg.ClinicAPIBaseURL)
	}
	if cfg.ConflictCacheTTL != 30*time.Second {
		t.Fatalf("expected default conflict cache ttl, got %s", cfg.ConflictCacheTTL)
	}
	if cfg.WorkdayStartHour != 8 || cfg.WorkdayEndHour != 18 {
		t.Fatalf("expected default workday hours, got %d-%d", cfg.WorkdayStartHour, cfg.WorkdayEndHour)
	}
	if cfg.ResizeMinutesPerUnit != 1.0 {
		t.Fatalf("expected default resize sensitivity, got %f", cfg.ResizeMinutesPerUnit)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("CLINIC_API_BASE_URL", "https://api.clinicdesk.example")
	t.Setenv("CONFLICT_CACHE_TTL", "45s")
	t.Setenv("WORKDAY_START_HOUR", "7")
	t.Setenv("WORKDAY_END_HOUR", "20")
	t.Setenv("RESIZE_MINUTES_PER_UNIT", "0.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.ClinicAPIBaseURL != "https://api.clinicdesk.example" {
		t.Fatalf("expected clinic api override, got %s", cfg.ClinicAPIBaseURL)
	}
	if cfg.ConflictCacheTTL != 45*time.Second {
		t.Fatalf("expected conflict cache ttl override, got %s", cfg.ConflictCacheTTL)
	}
	if cfg.WorkdayStartHour != 7 || cfg.WorkdayEndHour != 20 {
		t.Fatalf("expected workday hours override, got %d-%d", cfg.WorkdayStartHour, cfg.WorkdayEndHour)
	}
	if cfg.ResizeMinutesPerUnit != 0.5 {
		t.Fatalf("expected resize sensitivity override, got %f", cfg.ResizeMinutesPerUnit)
	}
}
