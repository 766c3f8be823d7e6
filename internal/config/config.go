package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"

	"github.com/nao1215/gedcom7import/internal/extension"
	"github.com/nao1215/gedcom7import/internal/importer"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "gedcom7import"

	// DefaultConcurrency is the number of documents imported in parallel.
	DefaultConcurrency = 4

	// DefaultMaxFileSize is the largest document accepted, in bytes.
	DefaultMaxFileSize int64 = 256 * 1024 * 1024

	// DefaultCacheSize is the number of stored entities kept in the read
	// cache of the store.
	DefaultCacheSize = 1024

	// DefaultFormat is the report format used when none is given.
	DefaultFormat = FormatText
)

// Report formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted report formats.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown}

// Config holds all settings of a run. It is populated by NewConfig, the
// configuration file, the environment and CLI flags, then passed down
// explicitly.
type Config struct {
	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit configuration file. If empty, the file
	// is searched for by FindConfigFile.
	ConfigFilePath string

	// Paths are the GEDCOM files to import.
	Paths []string

	// Concurrency is the number of documents imported in parallel.
	Concurrency int

	// MaxFileSize is the largest document accepted, in bytes.
	MaxFileSize int64

	// Force imports documents whose digest is already stored.
	Force bool

	// DryRun maps documents without writing to the store.
	DryRun bool

	// Format is the report format: text, json or markdown.
	Format string

	// ReportFile writes reports to this file instead of stdout.
	ReportFile string

	// DBDir is the directory of the SQLite store.
	// Defaults to the XDG data directory (~/.local/share/gedcom7import on Linux).
	DBDir string

	// DSN selects a PostgreSQL store instead of SQLite when set.
	DSN string

	// CacheSize is the size of the store's entity read cache. Zero means
	// DefaultCacheSize.
	CacheSize int

	// MediaRoot enables hashing and EXIF probing of media files below it.
	MediaRoot string

	// PlaceForm names the jurisdiction levels of place names, smallest
	// first, for documents without HEAD.PLAC.FORM.
	PlaceForm []string

	// Strict drops supported extension tags a document did not declare.
	Strict bool

	// WarnUnknown reports unknown extension records as warnings.
	WarnUnknown bool

	// Extensions restricts the enabled extension schemas. Empty enables all.
	Extensions []string

	// Files holds per-file overrides keyed by glob pattern.
	Files map[string]FileConfig
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Concurrency: DefaultConcurrency,
		MaxFileSize: DefaultMaxFileSize,
		Format:      DefaultFormat,
		DBDir:       XDGDataDir(),
		CacheSize:   DefaultCacheSize,
		WarnUnknown: true,
	}
}

// XDGDataDir returns the XDG data directory for gedcom7import.
// On Linux: ~/.local/share/gedcom7import
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for gedcom7import.
// On Linux: ~/.config/gedcom7import
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// UsePostgres reports whether the run stores into PostgreSQL.
func (c *Config) UsePostgres() bool {
	return c.DSN != ""
}

// ImportSettings returns the importer settings shared by every document.
func (c *Config) ImportSettings() importer.Settings {
	return importer.Settings{
		DefaultPlaceForm: c.PlaceForm,
		Strict:           c.Strict,
		WarnUnknown:      c.WarnUnknown,
		Extensions:       c.Extensions,
		MediaRoot:        c.MediaRoot,
	}
}

// SettingsFor returns the importer settings for one document, with the
// matching per-file overrides applied. The second result reports whether
// any override matched.
func (c *Config) SettingsFor(path string) (importer.Settings, bool) {
	s := c.ImportSettings()
	fc, ok := c.FileConfigFor(path)
	if !ok {
		return s, false
	}
	return fc.apply(s), true
}

// Validate checks the settings of an import run and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		return ErrNoInput
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxFileSize <= 0 {
		return ErrInvalidMaxFileSize
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}
	if c.CacheSize < 0 {
		return ErrInvalidCacheSize
	}
	if err := validateExtensions(c.Extensions); err != nil {
		return err
	}
	for pattern, fc := range c.Files {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFilePattern, pattern)
		}
		if err := validateExtensions(fc.Extensions); err != nil {
			return fmt.Errorf("files %q: %w", pattern, err)
		}
	}
	return nil
}

func validateExtensions(uris []string) error {
	supported := extension.Supported()
	for _, uri := range uris {
		if !slices.Contains(supported, uri) {
			return fmt.Errorf("%w: %s", ErrUnknownExtension, uri)
		}
	}
	return nil
}
