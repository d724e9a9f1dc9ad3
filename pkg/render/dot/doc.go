// Package dot renders trees as Graphviz diagrams.
//
// # Overview
//
// Every node of the tree becomes a box labelled with its type. Owning edges
// are drawn as solid arrows from parent to child and labelled with the
// field name, plus the element index for list fields. Link edges are drawn
// as dashed grey arrows that do not influence the ranking, so the layout
// still reads as a tree.
//
// # Usage
//
// Convert a tree to DOT source, then render it to SVG:
//
//	src, err := dot.ToDOT(root, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(src)
//
// # Options
//
//   - Detailed: node labels also list primitive fields
//   - Annotations: annotation keys to list in node labels
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package dot
