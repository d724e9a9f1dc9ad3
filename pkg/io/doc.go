// Package io reads and writes serialized trees.
//
// # Trees
//
// [WriteTree] serializes a tree to any io.Writer and [ReadTree] reads one
// back with a registry:
//
//	if err := io.WriteTree(w, prog); err != nil {
//	    log.Fatal(err)
//	}
//	n, err := io.ReadTree(r, calc.Registry)
//
// [ExportTree] and [ImportTree] are the file-based equivalents.
//
// # JSON
//
// [WriteJSON] renders any blob in the primitive domain of the codec as
// indented JSON: maps become objects and arrays stay arrays. Integers keep
// their full precision, floats always carry a fraction or exponent, and
// byte strings are written as {"@bytes": "<base64>"}.
//
//	{
//	  "@i": 0,
//	  "@t": "IntLit",
//	  "value": {
//	    "x": 42
//	  }
//	}
//
// [ReadJSON] parses JSON into the same domain so it can be encoded with the
// cbor package. The trip is lossless for every value JSON can express;
// NaN and the infinities cannot be written.
package io
