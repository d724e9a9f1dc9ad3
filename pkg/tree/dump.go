package tree

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// DumpOptions controls [Dump].
type DumpOptions struct {
	// Annotations lists the annotation keys to print next to each node
	// that has them.
	Annotations []string

	// LinkDepth is how many links deep link targets are expanded. Targets
	// beyond it are printed as "...".
	LinkDepth int
}

// Dump writes a multi-line debug representation of the tree rooted at n.
// Unset One edges and empty Many edges print as "!MISSING", other empty
// edges as "-", and links as "-->" followed by their target. The tree does
// not have to be well-formed.
func Dump(w io.Writer, n Node, opts DumpOptions) error {
	d := &dumper{opts: opts, onPath: make(map[Node]bool)}
	d.node(n, 0, opts.LinkDepth)
	d.b.WriteByte('\n')
	_, err := io.WriteString(w, d.b.String())
	return err
}

// String returns the dump of n with links expanded one level and no
// annotations.
func String(n Node) string {
	var b strings.Builder
	_ = Dump(&b, n, DumpOptions{LinkDepth: 1})
	return strings.TrimSuffix(b.String(), "\n")
}

type dumper struct {
	b      strings.Builder
	opts   DumpOptions
	onPath map[Node]bool
}

func (d *dumper) indent(level int) {
	d.b.WriteString(strings.Repeat("  ", level))
}

func (d *dumper) node(n Node, level, links int) {
	d.indent(level)
	if isNil(n) {
		d.b.WriteString("!NIL")
		return
	}
	if d.onPath[n] {
		fmt.Fprintf(&d.b, "%s(<cycle>)", n.Type())
		return
	}
	d.onPath[n] = true
	defer delete(d.onPath, n)

	d.b.WriteString(n.Type())
	d.b.WriteByte('(')
	for _, key := range d.opts.Annotations {
		if v, ok := n.Annotations().Get(key); ok {
			fmt.Fprintf(&d.b, " # %s: %s", key, formatValue(v))
		}
	}
	d.b.WriteByte('\n')

	level++
	for _, f := range n.Fields() {
		d.indent(level)
		switch e := f.Edge.(type) {
		case PrimEdge:
			fmt.Fprintf(&d.b, "%s: %s\n", f.Name, formatValue(e.Value()))

		case SingleEdge:
			if e.Kind() == KindLink {
				fmt.Fprintf(&d.b, "%s --> ", f.Name)
			} else {
				fmt.Fprintf(&d.b, "%s: ", f.Name)
			}
			switch {
			case !e.IsSet() && e.Kind() == KindOne:
				d.b.WriteString("!MISSING\n")
			case !e.IsSet():
				d.b.WriteString("-\n")
			case e.Kind() == KindLink:
				d.b.WriteString("<\n")
				if links > 0 {
					d.node(e.Node(), level+1, links-1)
					d.b.WriteByte('\n')
				} else {
					d.indent(level + 1)
					d.b.WriteString("...\n")
				}
				d.indent(level)
				d.b.WriteString(">\n")
			default:
				d.b.WriteString("<\n")
				d.node(e.Node(), level+1, links)
				d.b.WriteByte('\n')
				d.indent(level)
				d.b.WriteString(">\n")
			}

		case ListEdge:
			fmt.Fprintf(&d.b, "%s: ", f.Name)
			switch {
			case e.Len() == 0 && e.Kind() == KindMany:
				d.b.WriteString("!MISSING\n")
			case e.Len() == 0:
				d.b.WriteString("-\n")
			default:
				d.b.WriteString("[\n")
				for i := range e.Len() {
					d.node(e.NodeAt(i), level+1, links)
					d.b.WriteByte('\n')
				}
				d.indent(level)
				d.b.WriteString("]\n")
			}
		}
	}
	level--
	d.indent(level)
	d.b.WriteByte(')')
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case []byte:
		return "h'" + hex.EncodeToString(v) + "'"
	}
	return fmt.Sprint(v)
}
