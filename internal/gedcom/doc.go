// Package gedcom reads GEDCOM 7 documents into a structure tree.
//
// The reader is deliberately small. It understands the line grammar
// (level, optional cross-reference identifier, tag, optional payload),
// CONT continuation lines, the "@@" escape, pointers including the
// @VOID@ sentinel, and extension tag declarations in HEAD.SCHMA. Payloads
// of DATE, TIME and AGE structures are cast into typed values so that
// mappers can work with them without reparsing.
//
// The tree is an ordered forest of *Node values. Top-level nodes are
// records (HEAD, INDI, FAM, ..., TRLR). Every node knows its parent.
//
// Error values in this package form the error taxonomy shared by the
// mapping engine: malformed values, unresolved references, missing
// identifiers, partial fields and document shape errors.
package gedcom
