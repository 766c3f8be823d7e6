package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/gedcom7import/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gedcom7import configuration file",
		Long: `Initialize creates a new .gedcom7import configuration file in the current directory.

The generated file includes:
- Database, import and report sections with their default values
- The supported extension schema URIs
- A commented example of per-file overrides

Examples:
  # Create .gedcom7import in current directory
  gedcom7import init

  # Create config file at a specific path
  gedcom7import init -o myconfig.yaml

  # Force overwrite existing file
  gedcom7import init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := config.WriteTemplate(outputPath, force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("%w (use -f to overwrite)", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - The database directory or a PostgreSQL DSN")
	fmt.Fprintln(out, "  - The default place form and enabled extension schemas")
	fmt.Fprintln(out, "  - Per-file overrides matched by glob pattern")

	return nil
}
