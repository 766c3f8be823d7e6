package gedcom

import "strings"

// Node is one structure in a GEDCOM document.
type Node struct {
	// Tag is the structure tag. For extension tags declared in HEAD.SCHMA
	// this is the declared URI; otherwise it is the tag as written.
	Tag string
	// OriginalTag is the tag as written in the document.
	OriginalTag string
	// Xref is the record identifier including the surrounding '@', or "".
	Xref string
	// Pointer is the target xref (or VoidPointer) when the payload is a
	// pointer, otherwise "".
	Pointer string
	// Value is the typed payload: string, DateValue, Time, Age, or nil.
	Value any
	// Children are the substructures in document order.
	Children []*Node
	// Parent is nil for records.
	Parent *Node
	// Line is the 1-based line the structure started on.
	Line int
}

// NewNode returns a node with Tag and OriginalTag both set to tag.
func NewNode(tag string, value any) *Node {
	return &Node{Tag: tag, OriginalTag: tag, Value: value}
}

// Append adds children to n and fixes their parent link. It returns n so
// trees can be built in a single expression.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// ShortTag returns the tag as written in the document.
func (n *Node) ShortTag() string {
	if n.OriginalTag != "" {
		return n.OriginalTag
	}
	return n.Tag
}

// IsExtension reports whether n is an extension structure: its written tag
// starts with an underscore or its tag was expanded to a URI.
func (n *Node) IsExtension() bool {
	return strings.HasPrefix(n.ShortTag(), "_") || strings.HasPrefix(n.Tag, "http")
}

// IsVoid reports whether n carries the @VOID@ pointer.
func (n *Node) IsVoid() bool {
	return n.Pointer == VoidPointer
}

// HasPointer reports whether n points at a real record.
func (n *Node) HasPointer() bool {
	return n.Pointer != "" && n.Pointer != VoidPointer
}

// Is reports whether n's tag or written tag equals tag.
func (n *Node) Is(tag string) bool {
	return n.Tag == tag || n.OriginalTag == tag
}

// Child returns the first child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Is(tag) {
			return c
		}
	}
	return nil
}

// ChildrenWith returns all children with the given tag in document order.
func (n *Node) ChildrenWith(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Is(tag) {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the payload as a string. It returns "" when the payload is
// absent and a malformed-value error when the payload is not textual.
func (n *Node) Text() (string, error) {
	switch v := n.Value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case Age:
		return v.Raw, nil
	default:
		return "", NewError(ErrMalformedValue, n, "expected text, got %T", n.Value)
	}
}

// String returns the payload as text, ignoring type mismatches. It is meant
// for diagnostics and inspection output.
func (n *Node) String() string {
	switch v := n.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case DateValue:
		return v.String()
	case Time:
		return v.String()
	case Age:
		return v.Raw
	default:
		return ""
	}
}

// ChildText returns the text of the first child with the given tag.
// A missing child yields "" and no error.
func (n *Node) ChildText(tag string) (string, error) {
	c := n.Child(tag)
	if c == nil {
		return "", nil
	}
	return c.Text()
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Record returns the top-level ancestor of n.
func (n *Node) Record() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// ID returns the document-local identifier for an xref: the xref without
// its surrounding '@'. It fails when the xref is absent or too short.
func ID(xref string) (string, error) {
	if len(xref) < 3 || xref[0] != '@' || xref[len(xref)-1] != '@' {
		return "", &Error{Kind: ErrMissingXref, Xref: xref, Msg: "invalid xref " + quoteOrEmpty(xref)}
	}
	return xref[1 : len(xref)-1], nil
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "(empty)"
	}
	return `"` + s + `"`
}
