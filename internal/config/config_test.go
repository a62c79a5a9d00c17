package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VAPI_DRY_RUN", "true")
	t.Setenv("VOICEBOT_PUBLIC_BASE_URL", "https://bots.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ActivationDelay != 24*time.Hour {
		t.Errorf("ActivationDelay = %v, want 24h", cfg.ActivationDelay)
	}
	if cfg.PublicBaseURL != "https://bots.example.com" {
		t.Errorf("PublicBaseURL = %q, trailing slash should be trimmed", cfg.PublicBaseURL)
	}
	if cfg.ActivationSweepEnabled {
		t.Error("sweeper should be disabled by default")
	}
	if cfg.GetDatabaseReadDSN() != cfg.GetDatabaseWriteDSN() {
		t.Error("read DSN should fall back to write DSN")
	}
	if cfg.Addr() != ":8195" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing vapi key",
			env:  map[string]string{"VAPI_DRY_RUN": "false", "VAPI_PRIVATE_KEY": ""},
		},
		{
			name: "auth without issuer",
			env:  map[string]string{"VAPI_DRY_RUN": "true", "AUTH_ENABLED": "true", "AUTH_JWKS_URL": "https://issuer/jwks"},
		},
		{
			name: "s3 without bucket",
			env:  map[string]string{"VAPI_DRY_RUN": "true", "DOCUMENT_STORAGE_BACKEND": "s3"},
		},
		{
			name: "negative activation delay",
			env:  map[string]string{"VAPI_DRY_RUN": "true", "BOT_ACTIVATION_DELAY": "-1h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestReadDSNUsesReplica(t *testing.T) {
	cfg := &Config{
		DBPostgresqlWriteDSN: "postgres://w",
		DBPostgresqlRead1DSN: "postgres://r",
	}
	if got := cfg.GetDatabaseReadDSN(); got != "postgres://r" {
		t.Errorf("GetDatabaseReadDSN() = %q", got)
	}
}
