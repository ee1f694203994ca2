package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("WEATHER_APP_ID", "app-1")
	t.Setenv("WEATHER_APP_SECRET", "app-secret")
	t.Setenv("WEATHER_WEBHOOK_SECRET", "whsecret")
	t.Setenv("WEATHER_TWC_USER", "wuser")
	t.Setenv("WEATHER_TWC_PASSWORD", "wpassword")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.ID != "app-1" || cfg.App.WebhookSecret != "whsecret" {
		t.Errorf("unexpected app config %+v", cfg.App)
	}
	if cfg.Weather.User != "wuser" {
		t.Errorf("unexpected weather config %+v", cfg.Weather)
	}
	// reverse-proxy mode: no TLS defaults forced
	if cfg.Server.Port != "8080" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	// in-memory store by default
	if cfg.Store.URI != "state" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
}

func TestLoadDefaultsToDirectTLS(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.SSLPort != "443" {
		t.Errorf("unexpected ssl port %q", cfg.Server.SSLPort)
	}
	if cfg.Server.SSLCert != "./server.crt" || cfg.Server.SSLKey != "./server.key" {
		t.Errorf("unexpected tls defaults %+v", cfg.Server)
	}
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEATHER_APP_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected validation to fail without an app secret")
	}
}
