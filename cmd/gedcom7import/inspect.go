package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/nao1215/gedcom7import/internal/gedcom"
	"github.com/nao1215/gedcom7import/internal/importer"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.ged>",
		Short: "Decode a GEDCOM 7 document and print its structure",
		Long: `Inspect decodes a document without mapping or storing it.

It prints the digest, the declared extension tags, the number of records
per tag and the structure tree. Nothing is written to the database.

Examples:
  # Summary and full tree
  gedcom7import inspect family.ged

  # Only one record, two levels deep
  gedcom7import inspect --record @I1@ --depth 2 family.ged

  # Dump the decoded Go values
  gedcom7import inspect --raw --depth 3 family.ged

  # Re-encode the decoded document
  gedcom7import inspect --normalize family.ged`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().IntP("depth", "d", 0,
		"Maximum structure level printed (0 prints everything)")
	cmd.Flags().StringP("record", "r", "",
		"Only print the record with this xref (e.g. @I1@)")
	cmd.Flags().Bool("raw", false,
		"Dump the decoded nodes as Go values")
	cmd.Flags().Bool("normalize", false,
		"Write the decoded document back as GEDCOM instead of the summary")

	return cmd
}

// inspectOptions are the flags of the inspect command.
type inspectOptions struct {
	depth     int
	record    string
	raw       bool
	normalize bool
}

func getInspectOptions(cmd *cobra.Command) (inspectOptions, error) {
	var (
		opts inspectOptions
		err  error
	)
	if opts.depth, err = cmd.Flags().GetInt("depth"); err != nil {
		return opts, err
	}
	if opts.depth < 0 {
		return opts, errors.New("depth must not be negative")
	}
	if opts.record, err = cmd.Flags().GetString("record"); err != nil {
		return opts, err
	}
	if opts.raw, err = cmd.Flags().GetBool("raw"); err != nil {
		return opts, err
	}
	if opts.normalize, err = cmd.Flags().GetBool("normalize"); err != nil {
		return opts, err
	}
	return opts, nil
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	opts, err := getInspectOptions(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path) //nolint:gosec // path is given by the user
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec := gedcom.NewDecoder(bytes.NewReader(data))
	records, err := dec.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if opts.normalize {
		return gedcom.Encode(out, records)
	}

	selected := records
	if opts.record != "" {
		i := slices.IndexFunc(records, func(n *gedcom.Node) bool { return n.Xref == opts.record })
		if i < 0 {
			return fmt.Errorf("record %s not found in %s", opts.record, path)
		}
		selected = records[i : i+1]
	}

	if opts.raw {
		cfg := spew.ConfigState{
			Indent:                  "  ",
			MaxDepth:                opts.depth,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		cfg.Fdump(out, selected)
		return nil
	}

	if opts.record == "" {
		writeInspectSummary(out, path, data, records, dec.Schema())
	}
	fmt.Fprintln(out, "Structure:")
	for _, r := range selected {
		writeTree(out, r, opts.depth)
	}
	return nil
}

// writeInspectSummary prints the document facts above the tree.
func writeInspectSummary(w io.Writer, path string, data []byte, records []*gedcom.Node, schema map[string]string) {
	fmt.Fprintf(w, "Source:   %s\n", path)
	fmt.Fprintf(w, "Digest:   %s\n", importer.Digest(data))
	if len(records) > 0 && records[0].Is(gedcom.TagHeader) {
		if gedc := records[0].Child("GEDC"); gedc != nil {
			if v, err := gedc.ChildText("VERS"); err == nil && v != "" {
				fmt.Fprintf(w, "GEDCOM:   %s\n", v)
			}
		}
	}
	fmt.Fprintf(w, "Records:  %d\n\n", len(records))

	if len(schema) > 0 {
		tags := make([]string, 0, len(schema))
		for tag := range schema {
			tags = append(tags, tag)
		}
		slices.Sort(tags)

		fmt.Fprintln(w, "Extension tags:")
		for _, tag := range tags {
			fmt.Fprintf(w, "  %-10s %s\n", tag, schema[tag])
		}
		fmt.Fprintln(w)
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if counts[r.OriginalTag] == 0 {
			order = append(order, r.OriginalTag)
		}
		counts[r.OriginalTag]++
	}
	fmt.Fprintln(w, "Records by tag:")
	for _, tag := range order {
		fmt.Fprintf(w, "  %-10s %6d\n", tag, counts[tag])
	}
	fmt.Fprintln(w)
}

// writeTree prints n and its descendants as GEDCOM-like lines, indented by
// level. A positive maxDepth stops below that level.
func writeTree(w io.Writer, n *gedcom.Node, maxDepth int) {
	var walk func(n *gedcom.Node, level int)
	walk = func(n *gedcom.Node, level int) {
		if maxDepth > 0 && level > maxDepth {
			return
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", level), treeLine(n, level))
		for _, c := range n.Children {
			walk(c, level+1)
		}
	}
	walk(n, 0)
}

// treeLine formats one node without its children.
func treeLine(n *gedcom.Node, level int) string {
	parts := []string{fmt.Sprint(level)}
	if n.Xref != "" {
		parts = append(parts, n.Xref)
	}
	parts = append(parts, n.OriginalTag)
	switch {
	case n.Pointer != "":
		parts = append(parts, n.Pointer)
	case n.Value != nil:
		if s := n.String(); s != "" {
			parts = append(parts, strings.ReplaceAll(s, "\n", `\n`))
		}
	}
	if n.Tag != n.OriginalTag {
		parts = append(parts, "<"+n.Tag+">")
	}
	return strings.Join(parts, " ")
}
