package config

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "account_service" || cfg.Redis.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected storage defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Workers.Count != 8 || cfg.Workers.QueueSize != 256 || cfg.Security.BcryptCost != 10 {
		t.Fatalf("unexpected worker defaults: %+v %+v", cfg.Workers, cfg.Security)
	}
	if cfg.ShutdownTimeout != 10*time.Second || !cfg.IsDevelopment() {
		t.Fatalf("unexpected shutdown defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
		"ENV":        "production",
		"WORKERS":    "2",
		"CACHE_TTL":  "30s",
		"REDIS_DB":   "3",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDevelopment() || cfg.Workers.Count != 2 || cfg.Redis.CacheTTL != 30*time.Second || cfg.Redis.DB != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "at least 32 bytes"},
		{"zero workers", map[string]string{"JWT_SECRET": secret, "WORKERS": "0"}, "WORKERS"},
		{"bad duration", map[string]string{"JWT_SECRET": secret, "CACHE_TTL": "soon"}, "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(tt.env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if !errors.Is(err, envconfig.ErrMissingRequired) {
		t.Fatalf("expected ErrMissingRequired, got %v", err)
	}
}
