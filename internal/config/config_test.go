package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/config"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DSN", "host=localhost dbname=devhire")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_MIN", "60")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTExpiresMin != 60 {
		t.Errorf("JWTExpiresMin = %d, want 60", cfg.JWTExpiresMin)
	}
	if cfg.AppPort != "8080" {
		t.Errorf("AppPort default = %q", cfg.AppPort)
	}
	if cfg.Notify.SweepSpec != "@every 1m" {
		t.Errorf("SweepSpec default = %q", cfg.Notify.SweepSpec)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing DB_DSN/JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "DB_DSN") || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error should name both keys: %v", err)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	t.Setenv("DB_DSN", "from-env")
	t.Setenv("JWT_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), "devhire.yaml")
	body := "app_port: \"9090\"\nmail:\n  api_url: https://mail.example.com/send\nnotify:\n  max_attempts: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != "9090" {
		t.Errorf("AppPort = %q, want 9090", cfg.AppPort)
	}
	if cfg.Mail.APIURL != "https://mail.example.com/send" {
		t.Errorf("Mail.APIURL = %q", cfg.Mail.APIURL)
	}
	if cfg.Notify.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d", cfg.Notify.MaxAttempts)
	}
	if cfg.DBDSN != "from-env" {
		t.Errorf("env value lost after overlay: %q", cfg.DBDSN)
	}
}
