package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for gedcom7import.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gedcom7import",
		Short: "Import GEDCOM 7 documents into a genealogy store",
		Long: `gedcom7import maps GEDCOM 7 documents into genealogy entities.

Each document is decoded, its records are mapped to people, families,
events, places, sources, citations, repositories, notes, media and tags,
and the run is stored in a SQLite database under the XDG data directory
(or PostgreSQL when a DSN is configured).

Supported extension schemas:
  https://github.com/glamberson/gedcom-occurrences
  https://github.com/glamberson/gedcom-evidence
  https://github.com/dthaler/gedcom-citations`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .gedcom7import in current or home directory)")

	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
