// Package config reads the process-wide configuration for the bridge.
// Everything is sourced from the environment once at startup and is
// read-only for the process lifetime.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Credential-mode values for Config.Mode.
const (
	ModeExplicit    = "explicit"
	ModeEnvironment = "environment"
	ModeLegacy      = "legacy"
)

// Environment variable names.
const (
	EnvBackendURL      = "QUARRY_BACKEND_URL"
	EnvCredentialMode  = "QUARRY_CREDENTIAL_MODE"
	EnvCredentialsJSON = "GOOGLE_CREDENTIALS_JSON"
	EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvDataset         = "QUARRY_DATASET"
	EnvTrace           = "QUARRY_TRACE"
)

// Config holds the process configuration.
type Config struct {
	// BackendURL is the base URL of the analytics backend, without a
	// trailing slash.
	BackendURL string
	// Mode selects the credential-resolution policy (explicit,
	// environment or legacy).
	Mode string
	// CredentialsJSON is a serialized service-account blob taken directly
	// from the environment. It wins over CredentialsFile.
	CredentialsJSON string
	// CredentialsFile is a path to a service-account file, consulted only
	// when CredentialsJSON is empty.
	CredentialsFile string
	// Dataset is the global dataset scope used by legacy deployments.
	Dataset string
	// TraceStdout enables the stdout trace exporter.
	TraceStdout bool
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	cfg := Config{
		BackendURL:      getEnv(EnvBackendURL, "http://localhost:8000"),
		Mode:            getEnv(EnvCredentialMode, ModeEnvironment),
		CredentialsJSON: os.Getenv(EnvCredentialsJSON),
		CredentialsFile: os.Getenv(EnvCredentialsFile),
		Dataset:         os.Getenv(EnvDataset),
		TraceStdout:     os.Getenv(EnvTrace) == "stdout",
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	switch cfg.Mode {
	case ModeExplicit, ModeEnvironment, ModeLegacy:
	default:
		return Config{}, fmt.Errorf("%s: unknown credential mode %q", EnvCredentialMode, cfg.Mode)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
