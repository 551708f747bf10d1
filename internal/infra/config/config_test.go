package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.App.Name != "auth-service" {
		t.Errorf("unexpected app name: %s", cfg.App.Name)
	}
	if cfg.App.Production() {
		t.Error("default environment must not be production")
	}
	if cfg.Lockout.Threshold != 5 {
		t.Errorf("unexpected lockout threshold: %d", cfg.Lockout.Threshold)
	}
	if cfg.Lockout.Window != 15*time.Minute {
		t.Errorf("unexpected lockout window: %v", cfg.Lockout.Window)
	}
	if cfg.Session.TTL != 720*time.Hour {
		t.Errorf("unexpected session ttl: %v", cfg.Session.TTL)
	}
	if cfg.Password.HistorySize != 5 {
		t.Errorf("unexpected history size: %d", cfg.Password.HistorySize)
	}
	if cfg.Argon2.Memory != 65536 {
		t.Errorf("unexpected argon2 memory: %d", cfg.Argon2.Memory)
	}
	if cfg.Telemetry.OTLPEndpoint != "localhost:4318" {
		t.Errorf("unexpected otlp endpoint: %s", cfg.Telemetry.OTLPEndpoint)
	}
	if cfg.Telemetry.SamplingRate != 1.0 {
		t.Errorf("unexpected sampling rate: %v", cfg.Telemetry.SamplingRate)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AUTH_APP_ENV", "production")
	t.Setenv("AUTH_LOCKOUT_THRESHOLD", "7")
	t.Setenv("AUTH_LOCKOUT_MAX_DURATION", "12h")
	t.Setenv("AUTH_SESSION_TOKEN_BYTES", "48")
	t.Setenv("AUTH_POSTGRES_HOST", "db.internal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if !cfg.App.Production() {
		t.Error("expected production environment")
	}
	if cfg.Lockout.Threshold != 7 {
		t.Errorf("expected threshold 7, got %d", cfg.Lockout.Threshold)
	}
	if cfg.Lockout.MaxDuration != 12*time.Hour {
		t.Errorf("expected 12h max lock, got %v", cfg.Lockout.MaxDuration)
	}
	if cfg.Session.TokenBytes != 48 {
		t.Errorf("expected 48 token bytes, got %d", cfg.Session.TokenBytes)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("expected overridden postgres host, got %s", cfg.Postgres.Host)
	}
}
