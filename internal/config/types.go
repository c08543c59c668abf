// Package config provides layered configuration for the pipeline:
// defaults, stratify.yaml, STRATIFY_ environment variables, and CLI flags,
// in ascending precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/stratify-labs/stratify/internal/validate"
	"github.com/stratify-labs/stratify/pkg/adapter"
)

// Default configuration values.
const (
	DefaultRawDir      = "rawdata"
	DefaultStateFile   = ".stratify/state.db"
	DefaultEnv         = "dev"
	DefaultConcurrency = 4
)

// TargetConfig holds warehouse target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres

	// File path for DuckDB, database name for network targets.
	Database string `koanf:"database"`

	// Network targets.
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Driver-specific options (e.g. sslmode).
	Options map[string]string `koanf:"options"`
}

// Validate checks the target against the adapter registry.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.List()}
	}
	return nil
}

// AdapterConfig converts the target to the adapter connection config.
func (t *TargetConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     strings.ToLower(t.Type),
		Database: t.Database,
		Host:     t.Host,
		Port:     t.Port,
		User:     t.User,
		Password: t.Password,
		Options:  t.Options,
	}
}

// ValidationConfig holds data quality check configuration.
type ValidationConfig struct {
	// Disabled contains check IDs to skip.
	Disabled []string `koanf:"disabled"`

	// Plausibility bounds, ISO dates. Empty means built-in defaults.
	MinBirthdate string `koanf:"min_birthdate"`
	MinDate      string `koanf:"min_date"`
	MaxDate      string `koanf:"max_date"`
}

// Bounds resolves the configured plausibility window, falling back to the
// built-in defaults for unset fields.
func (v *ValidationConfig) Bounds(now time.Time) (validate.Bounds, error) {
	b := validate.DefaultBounds(now)
	if v == nil {
		return b, nil
	}

	fields := []struct {
		value string
		dest  *time.Time
		name  string
	}{
		{v.MinBirthdate, &b.MinBirthdate, "min_birthdate"},
		{v.MinDate, &b.MinDate, "min_date"},
		{v.MaxDate, &b.MaxDate, "max_date"},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", f.value, time.UTC)
		if err != nil {
			return validate.Bounds{}, fmt.Errorf("invalid validation.%s %q: %w", f.name, f.value, err)
		}
		*f.dest = t
	}
	return b, nil
}

// EnvConfig holds environment-specific overrides.
type EnvConfig struct {
	RawDir string        `koanf:"raw_dir"`
	Target *TargetConfig `koanf:"target"`
}

// Config holds all pipeline configuration.
type Config struct {
	RawDir       string               `koanf:"raw_dir"`
	StatePath    string               `koanf:"state_path"`
	Environment  string               `koanf:"environment"`
	Concurrency  int                  `koanf:"concurrency"`
	Verbose      bool                 `koanf:"verbose"`
	Target       *TargetConfig        `koanf:"target"`
	Validation   *ValidationConfig    `koanf:"validation"`
	Environments map[string]EnvConfig `koanf:"environments"`
}
