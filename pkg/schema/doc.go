// Package schema builds tree schemas at run time from a TOML description.
//
// A schema file declares node types, each with an ordered list of fields,
// and categories grouping node types under an abstract name:
//
//	[[category]]
//	name = "Expr"
//	variants = ["IntLit", "Binary"]
//
//	[[node]]
//	name = "Binary"
//	  [[node.field]]
//	  name = "left"
//	  kind = "one"      # prim, one, maybe, any, many, or link
//	  type = "Expr"     # a node type or category; for prim fields one of
//	                    # string, int, float, bool, bytes
//
// [Load] validates the description and returns a [Schema] whose
// [Schema.Registry] produces [*Node] values. A Node behaves like a
// hand-written node type: its edges are ordinary tree edges narrowed with
// Allow to the variants their type names, so trees built from a schema file
// serialize exactly like trees of an equivalent static schema.
package schema
