// Package cli implements the treegen command-line interface.
//
// Commands read serialized trees from a file argument or standard input
// and deserialize them with the selected schema: the built-in calc schema,
// or a TOML schema file given with --schema.
//
// # Commands
//
//   - diag: show any CBOR blob in diagnostic notation or as JSON
//   - encode: encode JSON as canonical CBOR
//   - check: check that a blob is a well-formed tree
//   - dump, browse: print or page through a tree
//   - dot: draw a tree with Graphviz
//   - cache: store and load trees in the content-addressed cache
//   - serve: serve the tree HTTP API
//
// # Configuration
//
// The optional config file $XDG_CONFIG_HOME/treegen/config.toml selects the
// cache backend and the server address; see [Config].
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is passed to commands through their context.
package cli
