// Package pkg holds the treegen libraries.
//
// # Overview
//
// Treegen describes syntax trees with a schema of node types, serializes
// them to a restricted, canonical CBOR encoding, and reads them back with
// links between nodes restored. The pkg directory is organized in layers:
//
//  1. [cbor] - The codec: a deterministic encoder and a strict decoder for
//     the subset of CBOR used by trees
//  2. [tree] - The node model (One, Maybe, Any, Many, and Link edges,
//     primitive fields, annotations) and the serialization protocol
//  3. [schema] and [calc] - Schemas: loaded at run time from TOML, or
//     written as Go types
//  4. [io], [cache], [render/dot], [server] - Ways to move trees around:
//     files, a content-addressed store, Graphviz drawings, and an HTTP API
//
// # Data Flow
//
//	tree.Node (built in Go, or by tree.Deserialize)
//	     ↓
//	tree.Number (sequence ids, sharing and cycle checks)
//	     ↓
//	tree.Serialize → node maps → cbor.Encode → bytes
//	     ↓
//	cbor.Decode → node maps → registry dispatch → links resolved
//
// # Quick Start
//
//	prog := calc.Sample()
//	data, err := tree.Serialize(prog)
//	if err != nil {
//	    return err
//	}
//	back, err := calc.Deserialize(data)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(tree.Equal(prog, back)) // true
//
// # Supporting Packages
//
// [errors] - Error codes shared by every layer (DECODE_ERROR, TYPE_ERROR,
// NOT_WELL_FORMED, LINK_RESOLUTION, and those of the embedding layers).
//
// [observability] - Hooks reporting serialization, cache, and HTTP
// activity to metrics backends.
//
// [buildinfo] - Version information set at link time.
//
// [cbor]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/cbor
// [tree]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/tree
// [schema]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/schema
// [calc]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/calc
// [io]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/cache
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/render/dot
// [server]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/treegen/pkg/buildinfo
package pkg
