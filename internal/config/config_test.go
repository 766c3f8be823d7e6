package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/gedcom7import/internal/extension"
)

// TestNewConfig documents the defaults through tests.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Concurrency is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 4 {
			t.Errorf("expected Concurrency to be 4, got %d", cfg.Concurrency)
		}
	})

	t.Run("default MaxFileSize is 256MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxFileSize != 256*1024*1024 {
			t.Errorf("expected MaxFileSize to be 256MB, got %d", cfg.MaxFileSize)
		}
	})

	t.Run("default Format is text", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != FormatText {
			t.Errorf("expected Format to be text, got %q", cfg.Format)
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("unknown extensions warn by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.WarnUnknown {
			t.Error("expected WarnUnknown to be true")
		}
		if cfg.Strict {
			t.Error("expected Strict to be false")
		}
	})

	t.Run("SQLite is the default store", func(t *testing.T) {
		t.Parallel()
		if cfg.UsePostgres() {
			t.Error("expected SQLite by default")
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Paths = []string{"family.ged"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(*Config) {}},
		{name: "no input", modify: func(c *Config) { c.Paths = nil }, wantErr: ErrNoInput},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "negative max file size", modify: func(c *Config) { c.MaxFileSize = -1 }, wantErr: ErrInvalidMaxFileSize},
		{name: "unknown format", modify: func(c *Config) { c.Format = "html" }, wantErr: ErrInvalidFormat},
		{name: "negative cache size", modify: func(c *Config) { c.CacheSize = -1 }, wantErr: ErrInvalidCacheSize},
		{name: "zero cache size is allowed", modify: func(c *Config) { c.CacheSize = 0 }},
		{
			name:   "supported extension",
			modify: func(c *Config) { c.Extensions = []string{extension.URIEvidence} },
		},
		{
			name:    "unsupported extension",
			modify:  func(c *Config) { c.Extensions = []string{"https://example.com/schema"} },
			wantErr: ErrUnknownExtension,
		},
		{
			name:    "bad file pattern",
			modify:  func(c *Config) { c.Files = map[string]FileConfig{"[": {}} },
			wantErr: ErrInvalidFilePattern,
		},
		{
			name: "unsupported extension in file override",
			modify: func(c *Config) {
				c.Files = map[string]FileConfig{"*.ged": {Extensions: []string{"urn:unknown"}}}
			},
			wantErr: ErrUnknownExtension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// TestSettingsFor tests that per-file overrides are merged over the globals.
func TestSettingsFor(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.PlaceForm = []string{"City", "County", "State", "Country"}
	cfg.MediaRoot = "/srv/media"
	cfg.Files = map[string]FileConfig{
		"census/*.ged": {PlaceForm: []string{"Township", "County", "State"}},
		"*.ged":        {WarnUnknown: boolPtr(false)},
		"legacy-*.ged": {Strict: boolPtr(true), MediaRoot: "/srv/legacy"},
	}

	t.Run("no override", func(t *testing.T) {
		t.Parallel()

		s, ok := cfg.SettingsFor("notes.txt")
		if ok {
			t.Error("expected no matching override")
		}
		if !slices.Equal(s.DefaultPlaceForm, cfg.PlaceForm) || !s.WarnUnknown || s.MediaRoot != "/srv/media" {
			t.Errorf("expected global settings, got %+v", s)
		}
	})

	t.Run("path pattern and base name pattern both apply", func(t *testing.T) {
		t.Parallel()

		s, ok := cfg.SettingsFor("census/1850.ged")
		if !ok {
			t.Fatal("expected a matching override")
		}
		if !slices.Equal(s.DefaultPlaceForm, []string{"Township", "County", "State"}) {
			t.Errorf("unexpected place form %v", s.DefaultPlaceForm)
		}
		if s.WarnUnknown {
			t.Error("expected *.ged to turn off unknown warnings")
		}
		if s.Strict {
			t.Error("strict should stay off")
		}
	})

	t.Run("base name match in another directory", func(t *testing.T) {
		t.Parallel()

		s, _ := cfg.SettingsFor(filepath.Join("archive", "legacy-1999.ged"))
		if !s.Strict || s.MediaRoot != "/srv/legacy" {
			t.Errorf("expected legacy overrides, got %+v", s)
		}
		if !slices.Equal(s.DefaultPlaceForm, cfg.PlaceForm) {
			t.Errorf("expected global place form, got %v", s.DefaultPlaceForm)
		}
	})
}

// TestApplyFile tests that set values override and unset values are kept.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.ApplyFile(&File{
		Database: DatabaseSection{DSN: "postgres://db/genealogy", CacheSize: 64},
		Import: ImportSection{
			Concurrency: 8,
			PlaceForm:   []string{"City", "Country"},
			WarnUnknown: boolPtr(false),
			Extensions:  []string{extension.URIOccurrences},
		},
		Report: ReportSection{Format: FormatMarkdown},
		Files:  map[string]FileConfig{"*.ged": {Strict: boolPtr(true)}},
	})

	if !cfg.UsePostgres() || cfg.CacheSize != 64 {
		t.Errorf("expected database section applied, got dsn=%q cache=%d", cfg.DSN, cfg.CacheSize)
	}
	if cfg.DBDir != XDGDataDir() {
		t.Error("unset dir should keep the default")
	}
	if cfg.Concurrency != 8 || cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("unexpected import limits %d %d", cfg.Concurrency, cfg.MaxFileSize)
	}
	if cfg.WarnUnknown || cfg.Strict {
		t.Error("expected warn_unknown false and strict untouched")
	}
	if cfg.Format != FormatMarkdown {
		t.Errorf("expected markdown, got %q", cfg.Format)
	}
	if len(cfg.Files) != 1 {
		t.Error("expected per-file overrides")
	}

	cfg.ApplyFile(nil)
	if cfg.Format != FormatMarkdown {
		t.Error("nil file should change nothing")
	}
}

// TestApplyEnv tests the environment overrides.
func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvDSN:       "postgres://app:pw@db/genealogy",
		EnvMediaRoot: "/media",
		EnvDBDir:     "",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := NewConfig()
	cfg.ApplyEnv(lookup)

	if cfg.DSN != env[EnvDSN] {
		t.Errorf("expected DSN from env, got %q", cfg.DSN)
	}
	if cfg.MediaRoot != "/media" {
		t.Errorf("expected media root from env, got %q", cfg.MediaRoot)
	}
	if cfg.DBDir != XDGDataDir() {
		t.Error("an empty variable should not clear the default")
	}

	cfg.ApplyEnv(nil)
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.gedcom7import")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `database:
  dir: /var/lib/gedcom7import
import:
  concurrency: 2
  strict: true
  place_form: [City, County, State, Country]
report:
  format: json
files:
  "census/*.ged":
    place_form: [Township, County]
    warn_unknown: false
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Database.Dir != "/var/lib/gedcom7import" {
			t.Errorf("unexpected dir %q", cf.Database.Dir)
		}
		if cf.Import.Concurrency != 2 || cf.Import.Strict == nil || !*cf.Import.Strict {
			t.Errorf("unexpected import section %+v", cf.Import)
		}
		if len(cf.Import.PlaceForm) != 4 {
			t.Errorf("expected 4 place levels, got %v", cf.Import.PlaceForm)
		}
		census, ok := cf.Files["census/*.ged"]
		if !ok {
			t.Fatal("expected census override")
		}
		if census.WarnUnknown == nil || *census.WarnUnknown {
			t.Error("expected warn_unknown false")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Files map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("report:\n  format: text\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Files == nil {
			t.Error("expected Files map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("report: {}"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestLoad tests the precedence of file and environment.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := "database:\n  dir: /from/file\n  cache_size: 16\n"
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		lookup := func(key string) (string, bool) {
			if key == EnvDBDir {
				return "/from/env", true
			}
			return "", false
		}

		cfg, err := Load(configPath, lookup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DBDir != "/from/env" {
			t.Errorf("expected env to win, got %q", cfg.DBDir)
		}
		if cfg.CacheSize != 16 {
			t.Errorf("expected file value, got %d", cfg.CacheSize)
		}
		if cfg.ConfigFilePath != configPath {
			t.Errorf("expected config path %q, got %q", configPath, cfg.ConfigFilePath)
		}
	})
}

// TestLoadDotEnv sets process environment, so it does not run in parallel.
func TestLoadDotEnv(t *testing.T) {
	const key = "GEDCOM7IMPORT_TEST_DOTENV"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte(key+"=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Errorf("expected variable from .env, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("a missing file should be ignored, got %v", err)
	}
}

// TestWriteTemplate tests that the template is written once and parses.
func TestWriteTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)

	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteTemplate(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("expected ErrConfigExists, got %v", err)
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	cfg := NewConfig()
	cfg.ApplyFile(cf)
	cfg.Paths = []string{"family.ged"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("template settings do not validate: %v", err)
	}
	if cfg.Format != FormatText || cfg.CacheSize != DefaultCacheSize || !cfg.WarnUnknown {
		t.Errorf("template should restate the defaults, got %+v", cfg)
	}
	if !strings.Contains(string(Template), EnvDSN) {
		t.Error("template should document the environment variables")
	}
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for _, dir := range []string{XDGDataDir(), XDGConfigDir()} {
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("expected %q to end with %s", dir, AppName)
		}
	}
}
