package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Encode writes records back out as GEDCOM lines. Extension tags are
// written in their short form, multi-line payloads use CONT, and payloads
// starting with '@' are escaped.
func Encode(w io.Writer, records []*Node) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if err := encodeNode(bw, r, 0); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeNode(w *bufio.Writer, n *Node, level int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d ", level)
	if n.Xref != "" {
		b.WriteString(n.Xref)
		b.WriteByte(' ')
	}
	b.WriteString(n.ShortTag())

	payload := n.Pointer
	var rest []string
	if payload == "" {
		lines := strings.Split(n.String(), "\n")
		payload = escape(lines[0])
		rest = lines[1:]
	}
	if payload != "" {
		b.WriteByte(' ')
		b.WriteString(payload)
	}
	b.WriteByte('\n')
	for _, l := range rest {
		fmt.Fprintf(&b, "%d CONT", level+1)
		if l != "" {
			b.WriteByte(' ')
			b.WriteString(escape(l))
		}
		b.WriteByte('\n')
	}
	if _, err := w.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write line %s: %w", n.ShortTag(), err)
	}
	for _, c := range n.Children {
		if err := encodeNode(w, c, level+1); err != nil {
			return err
		}
	}
	return nil
}

func escape(s string) string {
	if strings.HasPrefix(s, "@") {
		return "@" + s
	}
	return s
}
