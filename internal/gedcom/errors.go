package gedcom

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Callers classify failures with errors.Is.
var (
	// ErrSyntax indicates a line that does not follow the GEDCOM line grammar.
	ErrSyntax = errors.New("gedcom syntax error")

	// ErrMalformedValue indicates a payload whose type or format is wrong
	// for its tag, for example a DATE that could not be parsed.
	ErrMalformedValue = errors.New("malformed value")

	// ErrUnresolvedReference indicates a pointer to an xref that does not
	// exist anywhere in the document.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrMissingXref indicates a record that must carry an xref but has none
	// (or whose xref is too short to be valid).
	ErrMissingXref = errors.New("missing xref")

	// ErrPartialField indicates a composite field where one required part is
	// present and the other is absent, such as MAP with LATI but no LONG.
	ErrPartialField = errors.New("partial field")

	// ErrInvalidDocument indicates a document whose framing is wrong:
	// too few records or a first record that is not HEAD.
	ErrInvalidDocument = errors.New("invalid document")
)

// Error is a structured error that carries the location of a failure in the
// structure tree. Kind is one of the sentinel errors above.
type Error struct {
	// Kind is the sentinel this error unwraps to.
	Kind error
	// Tag is the tag of the offending structure, if known.
	Tag string
	// Xref is the identifier involved (the record xref or the pointer target).
	Xref string
	// Line is the 1-based source line, or 0 when the node was built in memory.
	Line int
	// Msg describes the failure.
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Tag != "" {
		fmt.Fprintf(&b, " (%s)", e.Tag)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

// Unwrap returns the sentinel kind so errors.Is works.
func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError builds an *Error located at node n. n may be nil.
func NewError(kind error, n *Node, format string, args ...any) *Error {
	e := &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Tag = n.Tag
		e.Xref = n.Xref
		e.Line = n.Line
	}
	return e
}

// Unresolved builds an unresolved-reference error for the given xref.
func Unresolved(n *Node, xref string) *Error {
	e := NewError(ErrUnresolvedReference, n, "%s not found", xref)
	e.Xref = xref
	return e
}
