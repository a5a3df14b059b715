// Package config provides configuration loading for snowjson. Settings come
// from defaults, an optional snowjson.yaml, SNOWJSON_ environment variables,
// and CLI flags, in rising precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/data-natewilbert/snow-json/internal/adapter"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // snowflake, duckdb, postgres

	// File-based databases (DuckDB)
	Path string `koanf:"path"` // file path or :memory:

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Database string `koanf:"database"`
	Schema   string `koanf:"schema"`

	// Snowflake-specific
	Account   string `koanf:"account"`
	Warehouse string `koanf:"warehouse"`
	Role      string `koanf:"role"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	return nil
}

// ToAdapterConfig converts the target to an adapter connection config.
func (t *TargetConfig) ToAdapterConfig() adapter.Config {
	return adapter.Config{
		Type:      t.Type,
		Account:   t.Account,
		Path:      t.Path,
		Host:      t.Host,
		Port:      t.Port,
		Database:  t.Database,
		Schema:    t.Schema,
		Username:  t.User,
		Password:  t.Password,
		Warehouse: t.Warehouse,
		Role:      t.Role,
		Options:   t.Options,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	// Case controls alias casing in generated views: match or upper.
	Case string `koanf:"case"`
	// Types controls attribute casts: match or string.
	Types string `koanf:"types"`
	// ViewSuffix is appended to the table name for default view names.
	ViewSuffix string `koanf:"view_suffix"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// Target is the default connection target.
	Target *TargetConfig `koanf:"target"`
	// Targets holds named targets selectable with --target.
	Targets map[string]*TargetConfig `koanf:"targets"`
}

// Default configuration values.
const (
	DefaultCaseMode   = "match"
	DefaultTypeMode   = "match"
	DefaultViewSuffix = "_VW"
	DefaultOutput     = "text"
)

// ApplyTargetDefaults applies default values to a TargetConfig based on
// the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	switch t.Type {
	case "postgres":
		if t.Port == 0 {
			t.Port = 5432
		}
		if t.Schema == "" {
			t.Schema = "public"
		}
	case "duckdb":
		if t.Path == "" {
			t.Path = ":memory:"
		}
		if t.Schema == "" {
			t.Schema = "main"
		}
	case "snowflake":
		if t.Schema == "" {
			t.Schema = "PUBLIC"
		}
	}
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := &TargetConfig{
		Type:      base.Type,
		Path:      base.Path,
		Host:      base.Host,
		Port:      base.Port,
		User:      base.User,
		Password:  base.Password,
		Database:  base.Database,
		Schema:    base.Schema,
		Account:   base.Account,
		Warehouse: base.Warehouse,
		Role:      base.Role,
		Options:   make(map[string]string),
	}

	for k, v := range base.Options {
		merged.Options[k] = v
	}

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	if override.Account != "" {
		merged.Account = override.Account
	}
	if override.Warehouse != "" {
		merged.Warehouse = override.Warehouse
	}
	if override.Role != "" {
		merged.Role = override.Role
	}

	for k, v := range override.Options {
		merged.Options[k] = v
	}

	return merged
}
