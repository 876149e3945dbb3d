package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvCredentialMode, "")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("backend=%s", cfg.BackendURL)
	}
	if cfg.Mode != ModeEnvironment {
		t.Fatalf("mode=%s", cfg.Mode)
	}
}

func TestFromEnvTrimsTrailingSlash(t *testing.T) {
	t.Setenv(EnvBackendURL, "http://api.internal:9000/")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackendURL != "http://api.internal:9000" {
		t.Fatalf("backend=%s", cfg.BackendURL)
	}
}

func TestFromEnvRejectsUnknownMode(t *testing.T) {
	t.Setenv(EnvCredentialMode, "kerberos")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
