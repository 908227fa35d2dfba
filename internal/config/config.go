// Package config handles loading and parsing application configuration.
// Values are read from three sources, later ones overriding earlier ones:
//  1. A .env file in the working directory (optional)
//  2. A YAML file:  CONFIG_PATH=/path/to/config.yaml  or  --config=/path/to/config.yaml
//  3. Environment variables named in the env:"..." tags below
//
// Every field has a default, so the binary runs without any configuration
// at all: it serves on 127.0.0.1:8000 from ./students.db.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Environment names accepted in Config.Env.
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Storage backends accepted in Config.Backend.
const (
	BackendORM = "orm" // gorm entity mapping
	BackendSQL = "sql" // hand-built parameterized SQL
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"students.db" validate:"required"`

	// SchemaPath optionally replaces the creation script compiled into the
	// binary. Empty means "use the embedded script".
	SchemaPath string `yaml:"schema_path" env:"SCHEMA_PATH"`

	// Backend selects which data access implementation serves /students.
	Backend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"orm" validate:"oneof=orm sql"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	Addr         string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"127.0.0.1:8000" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Load reads the configuration. path is the value of the --config flag and
// may be empty; CONFIG_PATH is consulted when it is. When neither names a
// file, only the environment and the defaults are used.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: read .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path != "" {
		// Verify the file exists before trying to read it, so the error
		// names the path instead of a bare "no such file".
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config.Load: config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: validate: %w", err)
	}

	return &cfg, nil
}
