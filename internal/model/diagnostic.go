package model

// Severity ranks an import diagnostic.
type Severity int

const (
	// SeverityInfo marks data that was ignored on purpose, such as an
	// unrecognised substructure.
	SeverityInfo Severity = iota

	// SeverityWarning marks data that was dropped or a reference that was
	// skipped. The import still succeeds.
	SeverityWarning

	// SeverityError marks a failure that aborted the import.
	SeverityError
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic codes.
const (
	CodeUnknownTag          = "unknown_tag"
	CodeUnknownExtension    = "unknown_extension"
	CodeUndeclaredExtension = "undeclared_extension"
	CodeDisabledExtension   = "disabled_extension"
	CodeMissingRepository   = "missing_repository"
	CodeMissingNote         = "missing_note"
	CodeMissingTrailer      = "missing_trailer"
	CodeMediaUnavailable    = "media_unavailable"
	CodeMediaMetadata       = "media_metadata"
	CodeImportFailed        = "import_failed"
)

// DiagnosticInfo describes a diagnostic code.
type DiagnosticInfo struct {
	Severity Severity
	Title    string
}

var diagnosticInfoMapping = map[string]DiagnosticInfo{
	CodeUnknownTag: {
		Severity: SeverityInfo,
		Title:    "Unrecognised substructure ignored",
	},
	CodeUnknownExtension: {
		Severity: SeverityWarning,
		Title:    "Unknown extension dropped",
	},
	CodeUndeclaredExtension: {
		Severity: SeverityWarning,
		Title:    "Extension used without a schema declaration",
	},
	CodeDisabledExtension: {
		Severity: SeverityInfo,
		Title:    "Disabled extension skipped",
	},
	CodeMissingRepository: {
		Severity: SeverityWarning,
		Title:    "Repository reference skipped",
	},
	CodeMissingNote: {
		Severity: SeverityWarning,
		Title:    "Shared note reference skipped",
	},
	CodeMissingTrailer: {
		Severity: SeverityInfo,
		Title:    "Document has no TRLR record",
	},
	CodeMediaUnavailable: {
		Severity: SeverityInfo,
		Title:    "Media file could not be read",
	},
	CodeMediaMetadata: {
		Severity: SeverityInfo,
		Title:    "Media metadata could not be read",
	},
	CodeImportFailed: {
		Severity: SeverityError,
		Title:    "Import failed",
	},
}

// GetDiagnosticInfo returns the description of a diagnostic code. Unknown
// codes are informational.
func GetDiagnosticInfo(code string) DiagnosticInfo {
	if info, ok := diagnosticInfoMapping[code]; ok {
		return info
	}
	return DiagnosticInfo{Severity: SeverityInfo, Title: code}
}

// Diagnostic is one non-fatal observation made during an import.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Tag      string   `json:"tag,omitempty"`
	Xref     string   `json:"xref,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// NewDiagnostic builds a diagnostic with the severity registered for code.
func NewDiagnostic(code, tag, xref string, line int, message string) Diagnostic {
	return Diagnostic{
		Severity: GetDiagnosticInfo(code).Severity,
		Code:     code,
		Tag:      tag,
		Xref:     xref,
		Line:     line,
		Message:  message,
	}
}
