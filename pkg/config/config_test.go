package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("default port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("default driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.SQLitePath != "voice_attendance.db" {
		t.Errorf("default sqlite path = %q", cfg.Database.SQLitePath)
	}
	if cfg.Voice.PrimaryThreshold != 0.60 || cfg.Voice.FallbackThreshold != 0.40 {
		t.Errorf("default thresholds = %v/%v, want 0.60/0.40",
			cfg.Voice.PrimaryThreshold, cfg.Voice.FallbackThreshold)
	}
	if cfg.JWT.AccessExpiry.Minutes() != 30 {
		t.Errorf("default access expiry = %v, want 30m", cfg.JWT.AccessExpiry)
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be disabled without REDIS_ADDR")
	}
	if cfg.Storage.Enabled() {
		t.Error("storage should be disabled without MINIO_ENDPOINT")
	}
	if cfg.AssemblyAI.Enabled() {
		t.Error("word check should be disabled without an API key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("VOICE_PRIMARY_THRESHOLD", "0.75")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Voice.PrimaryThreshold != 0.75 {
		t.Errorf("primary threshold = %v, want 0.75", cfg.Voice.PrimaryThreshold)
	}
	if !cfg.Redis.Enabled() {
		t.Error("Redis should be enabled with REDIS_ADDR set")
	}
}

func TestValidateRejectsBadDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted an unsupported driver")
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	t.Setenv("VOICE_PRIMARY_THRESHOLD", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a threshold above 1")
	}
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted the default JWT secret in production")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.User = "app"
	cfg.Database.Password = "secret"
	cfg.Database.Name = "voice_attendance"
	cfg.Database.SSLMode = "disable"

	want := "host=db port=5432 user=app password=secret dbname=voice_attendance sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN = %q, want %q", got, want)
	}
}
