// Package report renders import reports.
//
// Three formats are available:
//   - SimpleWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: tables and a mermaid pie chart for sharing
//
// Writers implement the Writer interface, so they can be used
// interchangeably and composed with MultiWriter. Compare builds the
// per-kind deltas between two stored runs that every writer can print.
package report
