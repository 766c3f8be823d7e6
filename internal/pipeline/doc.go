// Package pipeline runs GEDCOM files through the import steps.
//
// A Job carries one file through read, dedupe, decode, import and persist.
// Each step receives the job and fills in the part it owns; the Pipeline
// runs the steps in order, logs each one and records the outcome in the
// job's ImportReport.
//
// BatchProcessor imports many files concurrently. Every file gets its own
// pipeline from a factory, so no mapping state is shared between files.
package pipeline
