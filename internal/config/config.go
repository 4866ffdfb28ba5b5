// Package config resolves the cleaner's settings from defaults, an optional
// YAML file and AADHAAR_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"aadhaarclean/internal/pipeline"
	"aadhaarclean/internal/shard"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	EnvInputRoot = "AADHAAR_INPUT_ROOT"
	EnvOutputDir = "AADHAAR_OUTPUT_DIR"
	EnvMaxRows   = "AADHAAR_MAX_ROWS"
	EnvWriteXLSX = "AADHAAR_WRITE_XLSX"
	EnvSQLite    = "AADHAAR_SQLITE"
	EnvLogLevel  = "AADHAAR_LOG_LEVEL"

	// SQLiteOff disables the SQLite export when given as the sqlite setting.
	SQLiteOff = "off"
)

type Config struct {
	InputRoot string `yaml:"input_root"`
	// InputDirs overrides a category's input directory, keyed by prefix
	// (biometric, demographic, enrolment).
	InputDirs map[string]string `yaml:"input_dirs"`
	OutputDir string            `yaml:"output_dir"`
	MaxRows   int               `yaml:"max_rows"`
	WriteXLSX bool              `yaml:"write_xlsx"`
	// SQLite is the database file, relative to OutputDir unless absolute.
	SQLite   string `yaml:"sqlite"`
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		InputRoot: ".",
		OutputDir: "cleaned_data",
		MaxRows:   shard.DefaultMaxRows,
		SQLite:    "cleaned.sqlite",
		LogLevel:  "info",
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then the environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv exports the variables in name into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(name string) error {
	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(name)
}

func (c *Config) applyEnv() error {
	c.InputRoot = envString(EnvInputRoot, c.InputRoot)
	c.OutputDir = envString(EnvOutputDir, c.OutputDir)
	c.SQLite = envString(EnvSQLite, c.SQLite)
	c.LogLevel = envString(EnvLogLevel, c.LogLevel)

	var err error
	if c.MaxRows, err = envInt(EnvMaxRows, c.MaxRows); err != nil {
		return err
	}
	if c.WriteXLSX, err = envBool(EnvWriteXLSX, c.WriteXLSX); err != nil {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is empty", ErrInvalidConfig)
	}
	if c.MaxRows <= 0 {
		return fmt.Errorf("%w: max_rows must be positive, got %d", ErrInvalidConfig, c.MaxRows)
	}
	if c.WriteXLSX && c.MaxRows > shard.DefaultMaxRows {
		return fmt.Errorf("%w: max_rows %d does not fit one Excel sheet (limit %d)", ErrInvalidConfig, c.MaxRows, shard.DefaultMaxRows)
	}
	for prefix := range c.InputDirs {
		if _, ok := pipeline.CategoryByPrefix(prefix); !ok {
			return fmt.Errorf("%w: unknown category %q in input_dirs", ErrInvalidConfig, prefix)
		}
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(c.LogLevel)
}

// SQLitePath is the database path, or "" when the export is disabled.
func (c Config) SQLitePath() string {
	if c.SQLite == "" || c.SQLite == SQLiteOff {
		return ""
	}
	if filepath.IsAbs(c.SQLite) {
		return c.SQLite
	}
	return filepath.Join(c.OutputDir, c.SQLite)
}

func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		InputRoot:  c.InputRoot,
		InputDirs:  c.InputDirs,
		OutputDir:  c.OutputDir,
		MaxRows:    c.MaxRows,
		WriteXLSX:  c.WriteXLSX,
		SQLitePath: c.SQLitePath(),
	}
}

// envString returns the variable key, or fallback when it is unset or empty.
func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, v)
	}
	return b, nil
}
