package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/nao1215/gedcom7import/internal/config"
	"github.com/nao1215/gedcom7import/internal/database"
	"github.com/nao1215/gedcom7import/internal/log"
	"github.com/nao1215/gedcom7import/internal/report"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config file path from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// loadConfig builds the configuration in order of precedence: defaults, the
// configuration file, .env and the environment, then flags the user set
// explicitly on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(getConfigFlag(cmd), os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies the flags that were set on the command line over cfg.
// Flags the command does not define are never reported as changed.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("force") {
		if cfg.Force, err = flags.GetBool("force"); err != nil {
			return err
		}
	}
	if flags.Changed("dry-run") {
		if cfg.DryRun, err = flags.GetBool("dry-run"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if flags.Changed("max-file-size") {
		if cfg.MaxFileSize, err = flags.GetInt64("max-file-size"); err != nil {
			return err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("dsn") {
		if cfg.DSN, err = flags.GetString("dsn"); err != nil {
			return err
		}
	}
	if flags.Changed("media-root") {
		if cfg.MediaRoot, err = flags.GetString("media-root"); err != nil {
			return err
		}
	}
	if flags.Changed("place-form") {
		if cfg.PlaceForm, err = flags.GetStringSlice("place-form"); err != nil {
			return err
		}
	}
	if flags.Changed("strict") {
		if cfg.Strict, err = flags.GetBool("strict"); err != nil {
			return err
		}
	}
	if flags.Changed("warn-unknown") {
		if cfg.WarnUnknown, err = flags.GetBool("warn-unknown"); err != nil {
			return err
		}
	}
	if flags.Changed("extension") {
		if cfg.Extensions, err = flags.GetStringSlice("extension"); err != nil {
			return err
		}
	}
	return nil
}

// validateFormat checks the report format for commands that do not run the
// full config validation.
func validateFormat(format string) error {
	if !slices.Contains(config.Formats, format) {
		return fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
	}
	return nil
}

// setupLogger creates a structured logger that redacts researcher contact
// details and credentials.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// openStore opens PostgreSQL when a DSN is configured, otherwise the SQLite
// store in the data directory.
func openStore(ctx context.Context, cfg *config.Config) (*database.Store, error) {
	opts := database.DefaultOptions()
	if cfg.CacheSize > 0 {
		opts.CacheSize = cfg.CacheSize
	}
	if cfg.UsePostgres() {
		store, err := database.OpenPostgres(ctx, cfg.DSN, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return store, nil
	}
	store, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// newReportWriter returns the writer for format.
func newReportWriter(format string, out io.Writer, verbose bool) report.Writer {
	switch format {
	case config.FormatJSON:
		return report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(verbose))
	}
}

// openOutput returns the report destination: path when set, otherwise the
// command's stdout. The returned close function is never nil.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports carry researcher details, so only the owner may read them.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // path is given by the user
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
