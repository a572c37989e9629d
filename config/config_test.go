package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Auth:    AuthConfig{JWTSecret: "0123456789abcdef"},
		Pricing: PricingConfig{TaxRate: "0.13", Timezone: "UTC"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative tax", func(c *Config) { c.Pricing.TaxRate = "-0.01" }, true},
		{"tax of one", func(c *Config) { c.Pricing.TaxRate = "1" }, true},
		{"zero tax", func(c *Config) { c.Pricing.TaxRate = "0" }, false},
		{"garbage tax", func(c *Config) { c.Pricing.TaxRate = "trece" }, true},
		{"unknown zone", func(c *Config) { c.Pricing.Timezone = "Mars/Olympus" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("auth:\n  jwt_secret: file-secret-0123456789\npricing:\n  tax_rate: \"0.10\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CLUB_SERVER_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("env should override port, got %d", cfg.Server.Port)
	}
	rate, _ := cfg.Pricing.TaxRateDecimal()
	if rate.String() != "0.1" {
		t.Errorf("expected tax rate 0.1 from file, got %s", rate)
	}
	if cfg.Pricing.Timezone != "America/Costa_Rica" {
		t.Errorf("expected default timezone, got %s", cfg.Pricing.Timezone)
	}
	if cfg.Redis.HolidayCacheTTL != 6*time.Hour {
		t.Errorf("expected default cache ttl 6h, got %s", cfg.Redis.HolidayCacheTTL)
	}
	if !cfg.Feature.HolidayCacheEnabled {
		t.Error("holiday cache should be enabled by default")
	}
}
