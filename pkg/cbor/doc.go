// Package cbor implements the restricted subset of RFC 8949 CBOR used as the
// wire format for serialized trees.
//
// # Overview
//
// The codec maps a small primitive value domain to and from bytes:
//
//	CBOR                      Go value returned by Decode
//	major 0 (unsigned int)    int64, or uint64 above math.MaxInt64
//	major 1 (negative int)    int64
//	major 2 (byte string)     []byte (never nil)
//	major 3 (text string)     string
//	major 4 (array)           []any (never nil)
//	major 5 (map)             map[string]any (never nil)
//	major 6 (tag)             skipped; the tagged value is returned
//	simple 20/21              bool
//	simple 22                 nil
//	simple 27 (float64)       float64
//
// Both definite- and indefinite-length strings, arrays, and maps are
// accepted. Indefinite strings are break-terminated sequences of definite
// chunks of the same major type; the chunks are concatenated.
//
// # Decoding Rules
//
// Decode fails without returning a partial value when the input is
// truncated, uses additional info 28-30, has a non-string map key, contains
// a half- or single-precision float, the undefined value, any other simple
// value, a negative integer below math.MinInt64, invalid UTF-8 in a text
// string, nests deeper than [Decoder.MaxDepth], or has bytes left over after
// the single top-level value. All such failures carry the
// [errors.ErrCodeDecode] code and the byte offset of the problem.
//
// Duplicate map keys are accepted and the last occurrence wins. An empty
// indefinite-length text string decodes to "", an empty indefinite-length
// byte string to an empty non-nil []byte.
//
// # Encoding Rules
//
// Encode always produces the canonical form: integers use the shortest
// head, floats are always written as 8-byte doubles, containers are always
// definite-length, and map keys are written in lexicographic order.
// Encoding the same logical value therefore always yields identical bytes,
// which makes serialized trees usable as content-addressed blobs.
//
// Values outside the primitive domain are converted by the [Marshaler]
// interface, then by [Encoder.Convert]. If neither applies, Encode fails
// with [errors.ErrCodeType]. [Raw] holds pre-encoded bytes that are emitted
// verbatim.
//
// # Concurrency
//
// Encode and Decode keep no shared state and are safe for concurrent use.
// An [Encoder] or [Decoder] value may be shared as long as its fields are
// not modified concurrently.
//
// [errors.ErrCodeDecode]: github.com/matzehuels/treegen/pkg/errors.ErrCodeDecode
// [errors.ErrCodeType]: github.com/matzehuels/treegen/pkg/errors.ErrCodeType
package cbor

// Major types.
const (
	majorUnsigned byte = 0
	majorNegative byte = 1
	majorBytes    byte = 2
	majorText     byte = 3
	majorArray    byte = 4
	majorMap      byte = 5
	majorTag      byte = 6
	majorSimple   byte = 7
)

// Additional info values with special meaning.
const (
	infoUint8      byte = 24
	infoUint16     byte = 25
	infoUint32     byte = 26
	infoUint64     byte = 27
	infoIndefinite byte = 31

	simpleFalse     byte = 20
	simpleTrue      byte = 21
	simpleNull      byte = 22
	simpleUndefined byte = 23
	simpleFloat16   byte = 25
	simpleFloat32   byte = 26
	simpleFloat64   byte = 27
)

// breakByte terminates indefinite-length items.
const breakByte byte = 0xFF
