package config

import (
	"path/filepath"
	"slices"

	"github.com/nao1215/gedcom7import/internal/importer"
)

// FileConfig holds per-file overrides of the import settings. Zero fields
// keep the global value.
type FileConfig struct {
	// PlaceForm overrides the default place form for matching files.
	PlaceForm []string `yaml:"place_form,omitempty"`

	// Strict overrides the extension declaration policy.
	Strict *bool `yaml:"strict,omitempty"`

	// WarnUnknown overrides the unknown extension warning.
	WarnUnknown *bool `yaml:"warn_unknown,omitempty"`

	// Extensions overrides the enabled extension schemas.
	Extensions []string `yaml:"extensions,omitempty"`

	// MediaRoot overrides the media directory.
	MediaRoot string `yaml:"media_root,omitempty"`
}

// merge returns fc with the non-zero fields of other on top.
func (fc FileConfig) merge(other FileConfig) FileConfig {
	if len(other.PlaceForm) > 0 {
		fc.PlaceForm = other.PlaceForm
	}
	if other.Strict != nil {
		fc.Strict = other.Strict
	}
	if other.WarnUnknown != nil {
		fc.WarnUnknown = other.WarnUnknown
	}
	if len(other.Extensions) > 0 {
		fc.Extensions = other.Extensions
	}
	if other.MediaRoot != "" {
		fc.MediaRoot = other.MediaRoot
	}
	return fc
}

// apply returns s with the overrides set.
func (fc FileConfig) apply(s importer.Settings) importer.Settings {
	if len(fc.PlaceForm) > 0 {
		s.DefaultPlaceForm = fc.PlaceForm
	}
	if fc.Strict != nil {
		s.Strict = *fc.Strict
	}
	if fc.WarnUnknown != nil {
		s.WarnUnknown = *fc.WarnUnknown
	}
	if len(fc.Extensions) > 0 {
		s.Extensions = fc.Extensions
	}
	if fc.MediaRoot != "" {
		s.MediaRoot = fc.MediaRoot
	}
	return s
}

// FileConfigFor merges the overrides of every pattern matching path.
// Patterns are tried in lexical order and later matches win. A pattern
// matches either the whole slash-separated path or its base name.
func (c *Config) FileConfigFor(path string) (FileConfig, bool) {
	patterns := make([]string, 0, len(c.Files))
	for p := range c.Files {
		patterns = append(patterns, p)
	}
	slices.Sort(patterns)

	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	var (
		merged  FileConfig
		matched bool
	)
	for _, p := range patterns {
		if !patternMatches(p, slashed) && !patternMatches(p, base) {
			continue
		}
		merged = merged.merge(c.Files[p])
		matched = true
	}
	return merged, matched
}

func patternMatches(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

// File represents the structure of the .gedcom7import configuration file.
type File struct {
	Database DatabaseSection `yaml:"database,omitempty"`
	Import   ImportSection   `yaml:"import,omitempty"`
	Report   ReportSection   `yaml:"report,omitempty"`

	// Files maps glob patterns to per-file overrides.
	Files map[string]FileConfig `yaml:"files,omitempty"`
}

// DatabaseSection configures the store.
type DatabaseSection struct {
	Dir       string `yaml:"dir,omitempty"`
	DSN       string `yaml:"dsn,omitempty"`
	CacheSize int    `yaml:"cache_size,omitempty"`
}

// ImportSection configures the importer and the batch.
type ImportSection struct {
	Concurrency int      `yaml:"concurrency,omitempty"`
	MaxFileSize int64    `yaml:"max_file_size,omitempty"`
	PlaceForm   []string `yaml:"place_form,omitempty"`
	Strict      *bool    `yaml:"strict,omitempty"`
	WarnUnknown *bool    `yaml:"warn_unknown,omitempty"`
	Extensions  []string `yaml:"extensions,omitempty"`
	MediaRoot   string   `yaml:"media_root,omitempty"`
}

// ReportSection configures report output.
type ReportSection struct {
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// ApplyFile copies the values set in f over c.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Database.Dir != "" {
		c.DBDir = f.Database.Dir
	}
	if f.Database.DSN != "" {
		c.DSN = f.Database.DSN
	}
	if f.Database.CacheSize != 0 {
		c.CacheSize = f.Database.CacheSize
	}

	in := f.Import
	if in.Concurrency != 0 {
		c.Concurrency = in.Concurrency
	}
	if in.MaxFileSize != 0 {
		c.MaxFileSize = in.MaxFileSize
	}
	if len(in.PlaceForm) > 0 {
		c.PlaceForm = in.PlaceForm
	}
	if in.Strict != nil {
		c.Strict = *in.Strict
	}
	if in.WarnUnknown != nil {
		c.WarnUnknown = *in.WarnUnknown
	}
	if len(in.Extensions) > 0 {
		c.Extensions = in.Extensions
	}
	if in.MediaRoot != "" {
		c.MediaRoot = in.MediaRoot
	}

	if f.Report.Format != "" {
		c.Format = f.Report.Format
	}
	if f.Report.File != "" {
		c.ReportFile = f.Report.File
	}

	if len(f.Files) > 0 {
		c.Files = f.Files
	}
}
