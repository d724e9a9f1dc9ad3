package dot

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treegen/pkg/tree"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes primitive field values in node labels.
	// When false, only the node type and sequence id are shown.
	Detailed bool

	// Annotations lists annotation keys to include in node labels.
	Annotations []string
}

// ToDOT converts the tree rooted at root to Graphviz DOT source. Node ids
// are the tree's sequence ids, so the output is deterministic. The tree must
// be free of shared and cyclic owning edges; it does not have to be
// otherwise well-formed. Link targets outside the tree are drawn as a
// separate "?" node.
func ToDOT(root tree.Node, opts Options) (string, error) {
	num, err := tree.Number(root)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for id, n := range num.All() {
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", id, fmtLabel(id, n, opts))
	}

	buf.WriteString("\n")
	external := false
	for id, n := range num.All() {
		for _, f := range n.Fields() {
			switch e := f.Edge.(type) {
			case tree.SingleEdge:
				if !e.IsSet() {
					continue
				}
				if e.Kind() == tree.KindLink {
					to, ok := num.ID(e.Node())
					target := "external"
					if ok {
						target = "n" + strconv.Itoa(to)
					} else {
						external = true
					}
					fmt.Fprintf(&buf, "  n%d -> %s [label=%q, style=dashed, color=grey50, fontcolor=grey50, constraint=false];\n",
						id, target, f.Name)
					continue
				}
				to, _ := num.ID(e.Node())
				fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", id, to, f.Name)
			case tree.ListEdge:
				for i := range e.Len() {
					to, ok := num.ID(e.NodeAt(i))
					if !ok {
						continue
					}
					fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", id, to, fmt.Sprintf("%s[%d]", f.Name, i))
				}
			}
		}
	}
	if external {
		buf.WriteString("  external [label=\"?\", style=\"rounded,dashed\"];\n")
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(id int, n tree.Node, opts Options) string {
	parts := []string{fmt.Sprintf("%s #%d", n.Type(), id)}
	if opts.Detailed {
		for _, f := range n.Fields() {
			if p, ok := f.Edge.(tree.PrimEdge); ok {
				parts = append(parts, fmt.Sprintf("%s: %s", f.Name, fmtValue(p.Value())))
			}
		}
	}
	for _, k := range opts.Annotations {
		if v, ok := n.Annotations().Get(k); ok {
			parts = append(parts, fmt.Sprintf("{%s}: %s", k, fmtValue(v)))
		}
	}
	return strings.Join(parts, "\n")
}

func fmtValue(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case []byte:
		return "h'" + hex.EncodeToString(v) + "'"
	}
	return fmt.Sprint(v)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> header with one whose
// viewBox starts at the origin, so the image scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
