// Package main provides the entry point for the gedcom7import CLI.
//
// gedcom7import maps GEDCOM 7 documents into genealogy entities (people,
// families, events, places, sources, citations, repositories, notes, media
// and tags), stores every run, and reports what was created along with the
// diagnostics raised while mapping.
//
// Usage:
//
//	gedcom7import import family.ged
//	gedcom7import history list
//	gedcom7import inspect family.ged
//
// See --help for all available options.
package main

func main() {
	Execute()
}
