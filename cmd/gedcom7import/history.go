package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/gedcom7import/internal/config"
	"github.com/nao1215/gedcom7import/internal/database"
	"github.com/nao1215/gedcom7import/internal/model"
	"github.com/nao1215/gedcom7import/internal/report"
)

// timeLayout is the timestamp format of history listings.
const timeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and compare stored import runs",
		Long: `History works with the import runs stored in the database.

Examples:
  # List all runs
  gedcom7import history list

  # Show the report of run 3
  gedcom7import history show 3

  # Compare two runs of the same tree
  gedcom7import history compare 3 5

  # List the people created by run 3
  gedcom7import history entities 3 --kind person

  # Delete run 3 with its entities and diagnostics
  gedcom7import history delete 3`,
	}

	cmd.PersistentFlags().String("db-dir", "",
		"SQLite database directory (default: XDG data directory)")
	cmd.PersistentFlags().String("dsn", "",
		"PostgreSQL connection string; overrides --db-dir")
	cmd.PersistentFlags().StringP("format", "f", config.DefaultFormat,
		"Output format: text, json or markdown")

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryCompareCmd())
	cmd.AddCommand(newHistoryEntitiesCmd())
	cmd.AddCommand(newHistoryDeleteCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored import runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, cfg *config.Config, store *database.Store) error {
				runs, err := store.ListRuns(ctx)
				if err != nil {
					return err
				}
				return writeRunList(cmd.OutOrStdout(), cfg.Format, runs)
			})
		},
	}
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the report of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, cfg *config.Config, store *database.Store) error {
				run, err := store.GetRun(ctx, id)
				if err != nil {
					return err
				}
				_, err = newReportWriter(cfg.Format, cmd.OutOrStdout(), cfg.Verbose).Write(run)
				return err
			})
		},
	}
}

func newHistoryCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <base-run-id> <target-run-id>",
		Short: "Compare the entity and diagnostic counts of two runs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseID, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			targetID, err := parseRunID(args[1])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, cfg *config.Config, store *database.Store) error {
				base, err := store.GetRun(ctx, baseID)
				if err != nil {
					return err
				}
				target, err := store.GetRun(ctx, targetID)
				if err != nil {
					return err
				}
				w := newReportWriter(cfg.Format, cmd.OutOrStdout(), cfg.Verbose)
				_, err = w.WriteComparison(report.Compare(base, target))
				return err
			})
		},
	}
}

func newHistoryEntitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities <run-id>",
		Short: "List the entities created by a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			kindName, err := cmd.Flags().GetString("kind")
			if err != nil {
				return err
			}
			kinds := model.Kinds
			if kindName != "" {
				kind, err := model.ParseKind(kindName)
				if err != nil {
					return err
				}
				kinds = []model.Kind{kind}
			}
			return withStore(cmd, func(ctx context.Context, cfg *config.Config, store *database.Store) error {
				if _, err := store.GetRun(ctx, id); err != nil {
					return err
				}
				var entities []*database.StoredEntity
				for _, kind := range kinds {
					list, err := store.ListEntities(ctx, id, kind)
					if err != nil {
						return err
					}
					entities = append(entities, list...)
				}
				return writeEntityList(cmd.OutOrStdout(), cfg.Format, entities)
			})
		},
	}
	cmd.Flags().StringP("kind", "k", "",
		"Only list entities of this kind (person, family, event, place, source, citation, repository, note, media, tag)")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run with its entities, xrefs and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, _ *config.Config, store *database.Store) error {
				if err := store.DeleteRun(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %d\n", id)
				return nil
			})
		},
	}
}

// withStore loads the configuration, opens the store and runs fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, store *database.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateFormat(cfg.Format); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := fn(ctx, cfg, store); err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return fmt.Errorf("%w (use 'gedcom7import history list' to see stored runs)", err)
		}
		return err
	}
	return nil
}

// parseRunID parses a positive run identifier.
func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

// shortDigestLength is the number of digest characters shown in listings.
const shortDigestLength = 12

// runRow is one line of a run listing. Listings come without diagnostics,
// so only the stored totals are shown.
type runRow struct {
	RunID    int64              `json:"run_id"`
	Source   string             `json:"source"`
	Digest   string             `json:"digest"`
	Started  string             `json:"started_at"`
	Status   model.ImportStatus `json:"status"`
	Records  int                `json:"records"`
	Entities int                `json:"entities"`
}

func newRunRow(r *model.ImportReport) runRow {
	return runRow{
		RunID:    r.RunID,
		Source:   r.Source,
		Digest:   r.Digest,
		Started:  r.StartedAt.Local().Format(timeLayout),
		Status:   r.Status,
		Records:  r.Records,
		Entities: r.Total(),
	}
}

func shortDigest(d string) string {
	if len(d) > shortDigestLength {
		return d[:shortDigestLength]
	}
	return d
}

// writeRunList prints runs as a table, a JSON array or a Markdown table.
func writeRunList(w io.Writer, format string, runs []*model.ImportReport) error {
	rows := make([]runRow, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, newRunRow(r))
	}

	switch format {
	case config.FormatJSON:
		return writeJSONList(w, rows)
	case config.FormatMarkdown:
		table := make([][]string, 0, len(rows))
		for _, r := range rows {
			table = append(table, []string{
				strconv.FormatInt(r.RunID, 10), "`" + r.Source + "`", "`" + shortDigest(r.Digest) + "`",
				r.Started, string(r.Status), strconv.Itoa(r.Records), strconv.Itoa(r.Entities),
			})
		}
		return report.WriteMarkdownTable(w, "Import Runs",
			[]string{"Run", "Source", "Digest", "Started", "Status", "Records", "Entities"}, table)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No import runs found in the database.")
		fmt.Fprintln(w, "\nUse 'gedcom7import import <file.ged>' to import a document.")
		return nil
	}

	fmt.Fprintf(w, "Import runs (%d):\n\n", len(rows))
	fmt.Fprintf(w, "  %-6s  %-19s  %-9s  %-12s  %7s  %8s  %s\n",
		"ID", "Started", "Status", "Digest", "Records", "Entities", "Source")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 80))
	for _, r := range rows {
		fmt.Fprintf(w, "  %-6d  %-19s  %-9s  %-12s  %7d  %8d  %s\n",
			r.RunID, r.Started, r.Status, shortDigest(r.Digest), r.Records, r.Entities, r.Source)
	}
	fmt.Fprintln(w, "\nUse 'gedcom7import history show <id>' to see the report of a run.")
	return nil
}

// entityRow is one line of an entity listing.
type entityRow struct {
	Handle  string `json:"handle"`
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Private bool   `json:"private,omitempty"`
}

// writeEntityList prints stored entities as a table, a JSON array or a
// Markdown table.
func writeEntityList(w io.Writer, format string, entities []*database.StoredEntity) error {
	rows := make([]entityRow, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, entityRow{Handle: e.Handle, Kind: e.Kind.String(), ID: e.ID, Private: e.Private})
	}

	switch format {
	case config.FormatJSON:
		return writeJSONList(w, rows)
	case config.FormatMarkdown:
		table := make([][]string, 0, len(rows))
		for _, r := range rows {
			table = append(table, []string{r.Kind, r.ID, r.Handle, strconv.FormatBool(r.Private)})
		}
		return report.WriteMarkdownTable(w, "Entities", []string{"Kind", "ID", "Handle", "Private"}, table)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No entities found.")
		return nil
	}
	fmt.Fprintf(w, "Entities (%d):\n\n", len(rows))
	fmt.Fprintf(w, "  %-10s  %-10s  %s\n", "Kind", "ID", "Handle")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
	for _, r := range rows {
		id := r.ID
		if r.Private {
			id += " (private)"
		}
		fmt.Fprintf(w, "  %-10s  %-10s  %s\n", r.Kind, id, r.Handle)
	}
	return nil
}

func writeJSONList[T any](w io.Writer, rows []T) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}
