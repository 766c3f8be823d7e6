// Package mapper turns a GEDCOM 7 structure tree into genealogy entities.
//
// # Overview
//
// A Mapper is created for one import run. It owns the run's handle
// resolver, place cache, extension registry and entity bundle, and it is
// driven in four phases:
//
//  1. Prepare pre-scans every record so that pointers to records later in
//     the document already have handles.
//  2. MapHeader reads HEAD: the extension schema, the default place form
//     and the submitter that becomes the researcher.
//  3. MapRecord maps one record at a time. Each record kind has a child
//     dispatch table built when the Mapper is constructed.
//  4. Finalize runs the link pass: child references created from FAMC,
//     spouse notes created from FAMS, and event references for occurrence
//     participants.
//
// # Failures
//
// Value type mismatches, pointers to unknown records, records without a
// required xref and half-filled composite fields abort the run with a
// *gedcom.Error. Everything else that cannot be mapped is recorded as a
// model.Diagnostic and skipped: unknown substructures, dropped extensions,
// and the two documented soft-fail references (a source's repository and a
// submitter's shared note).
//
// # Extensions
//
// Occurrence (_OCUR) and evidence (_EVID) records are mapped to events and
// research notes. Persons may point at them with _OCREF and _EVID. Sources
// may carry a _TMPLT citation template. Whether an extension structure is
// mapped at all is decided by the run's extension.Registry.
package mapper
