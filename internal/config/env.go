package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvDSN       = "GEDCOM7IMPORT_DSN"
	EnvDBDir     = "GEDCOM7IMPORT_DB_DIR"
	EnvMediaRoot = "GEDCOM7IMPORT_MEDIA_ROOT"
)

// LoadDotEnv loads variables from the given .env files, or from ./.env when
// none is given. Variables already set in the environment are kept. A
// missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv copies the environment variables found by lookup over c.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvDSN); ok && v != "" {
		c.DSN = v
	}
	if v, ok := lookup(EnvDBDir); ok && v != "" {
		c.DBDir = v
	}
	if v, ok := lookup(EnvMediaRoot); ok && v != "" {
		c.MediaRoot = v
	}
}
