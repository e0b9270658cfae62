package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_MODEL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-flash-image" {
		t.Fatalf("GeminiModel mismatch: got %q", cfg.GeminiModel)
	}
	if cfg.SessionStore != SessionStoreMemory {
		t.Fatalf("SessionStore mismatch: got %q", cfg.SessionStore)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("SessionTTL mismatch: got %s", cfg.SessionTTL)
	}
	if cfg.GeminiConfigured() {
		t.Fatalf("expected gemini to be unconfigured without a key")
	}
}

func TestLoadConfigMissingKeyIsNotFatal(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "   ")
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("missing key must not fail config loading: %v", err)
	}
}

func TestLoadConfigRejectsUnknownStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "etcd")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown session store")
	}
}

func TestLoadConfigParsesOrigins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", " secret ")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.GeminiConfigured() || cfg.GeminiAPIKey != "secret" {
		t.Fatalf("GeminiAPIKey mismatch: %q", cfg.GeminiAPIKey)
	}
	if cfg.SessionStore != SessionStoreRedis {
		t.Fatalf("SessionStore mismatch: %q", cfg.SessionStore)
	}
	expected := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}
