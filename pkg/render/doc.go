// Package render groups the tree renderers.
//
// The [dot] subpackage draws a tree as a Graphviz graph: one box per node,
// solid edges for ownership labelled with the field name, and dashed edges
// for links. [dot.RenderSVG] lays the graph out in-process, so no Graphviz
// installation is needed.
//
//	src, err := dot.ToDOT(root, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(src)
//
// [dot]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/render/dot
package render
