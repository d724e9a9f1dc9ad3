package cbor

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/matzehuels/treegen/pkg/errors"
)

// DefaultMaxDepth bounds container nesting when [Decoder.MaxDepth] is zero.
const DefaultMaxDepth = 512

// Unmarshaler is implemented by types that restore themselves from a decoded
// primitive value. It is the inverse of [Marshaler].
type Unmarshaler interface {
	UnmarshalCBORValue(v any) error
}

// Decoder decodes CBOR bytes into primitive Go values.
// The zero value is ready to use.
type Decoder struct {
	// MaxDepth bounds the nesting of arrays, maps, and tags.
	// Zero means DefaultMaxDepth.
	MaxDepth int
}

// Decode decodes data using a zero [Decoder].
func Decode(data []byte) (any, error) {
	var d Decoder
	return d.Decode(data)
}

// Decode decodes exactly one CBOR value from data. Trailing bytes are an
// error. See the package documentation for the value mapping.
func (d *Decoder) Decode(data []byte) (any, error) {
	maxDepth := d.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	r := &reader{data: data, maxDepth: maxDepth}
	v, err := r.value(0)
	if err != nil {
		return nil, err
	}
	if r.off < len(data) {
		return nil, r.errorf("garbage at the end: %d unconsumed bytes", len(data)-r.off)
	}
	return v, nil
}

type reader struct {
	data     []byte
	off      int
	maxDepth int
}

func (r *reader) errorf(format string, args ...any) error {
	return errors.New(errors.ErrCodeDecode, "invalid CBOR at offset %d: %s", r.off, fmt.Sprintf(format, args...))
}

func (r *reader) next() (byte, error) {
	if r.off >= len(r.data) {
		return 0, r.errorf("unexpected end of input")
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *reader) take(n uint64) ([]byte, error) {
	if remaining := uint64(len(r.data) - r.off); n > remaining {
		return nil, r.errorf("unexpected end of input: need %d bytes, have %d", n, remaining)
	}
	b := r.data[r.off : r.off+int(n)]
	r.off += int(n)
	return b, nil
}

// argument reads the integer or length encoded by the additional info of an
// initial byte, consuming any following bytes it calls for. Indefinite
// lengths must be handled by the caller before calling argument.
func (r *reader) argument(info byte) (uint64, error) {
	switch {
	case info < infoUint8:
		return uint64(info), nil
	case info == infoUint8:
		b, err := r.take(1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case info == infoUint16:
		b, err := r.take(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint16(b)), nil
	case info == infoUint32:
		b, err := r.take(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint32(b)), nil
	case info == infoUint64:
		b, err := r.take(8)
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint64(b), nil
	}
	return 0, r.errorf("illegal additional info %d for integer or object length", info)
}

// count reads a definite container length and rejects lengths that cannot
// possibly fit in the remaining input, so a hostile header cannot force a
// huge allocation.
func (r *reader) count(info byte, perItem uint64) (int, error) {
	n, err := r.argument(info)
	if err != nil {
		return 0, err
	}
	if remaining := uint64(len(r.data) - r.off); n > remaining/perItem {
		return 0, r.errorf("unexpected end of input: %d items announced, at most %d bytes left", n, remaining)
	}
	return int(n), nil
}

func (r *reader) value(depth int) (any, error) {
	if depth > r.maxDepth {
		return nil, r.errorf("nesting exceeds maximum depth %d", r.maxDepth)
	}
	initial, err := r.next()
	if err != nil {
		return nil, err
	}
	major, info := initial>>5, initial&0x1F

	switch major {
	case majorUnsigned:
		n, err := r.argument(info)
		if err != nil {
			return nil, err
		}
		if n > math.MaxInt64 {
			return n, nil
		}
		return int64(n), nil

	case majorNegative:
		n, err := r.argument(info)
		if err != nil {
			return nil, err
		}
		if n > math.MaxInt64 {
			return nil, r.errorf("negative integer -1-%d is out of range (bignums are not supported)", n)
		}
		return -1 - int64(n), nil

	case majorBytes:
		return r.str(majorBytes, info)

	case majorText:
		b, err := r.str(majorText, info)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, r.errorf("text string is not valid UTF-8")
		}
		return string(b), nil

	case majorArray:
		return r.array(info, depth)

	case majorMap:
		return r.mapping(info, depth)

	case majorTag:
		// Tags carry no meaning for trees; read past the tag number and
		// return the tagged value.
		if _, err := r.argument(info); err != nil {
			return nil, err
		}
		return r.value(depth + 1)
	}

	return r.simple(info)
}

func (r *reader) str(major, info byte) ([]byte, error) {
	if info != infoIndefinite {
		n, err := r.argument(info)
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		return append([]byte{}, b...), nil
	}

	out := []byte{}
	for {
		initial, err := r.next()
		if err != nil {
			return nil, err
		}
		if initial == breakByte {
			return out, nil
		}
		if initial>>5 != major {
			return nil, r.errorf("illegal indefinite-length string component of major type %d", initial>>5)
		}
		chunkInfo := initial & 0x1F
		if chunkInfo == infoIndefinite {
			return nil, r.errorf("nested indefinite-length string component")
		}
		n, err := r.argument(chunkInfo)
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
}

func (r *reader) array(info byte, depth int) ([]any, error) {
	if info == infoIndefinite {
		out := []any{}
		for {
			if r.off >= len(r.data) {
				return nil, r.errorf("unexpected end of input in indefinite-length array")
			}
			if r.data[r.off] == breakByte {
				r.off++
				return out, nil
			}
			v, err := r.value(depth + 1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}

	n, err := r.count(info, 1)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *reader) mapping(info byte, depth int) (map[string]any, error) {
	if info == infoIndefinite {
		out := map[string]any{}
		for {
			if r.off >= len(r.data) {
				return nil, r.errorf("unexpected end of input in indefinite-length map")
			}
			if r.data[r.off] == breakByte {
				r.off++
				return out, nil
			}
			if err := r.entry(out, depth); err != nil {
				return nil, err
			}
		}
	}

	n, err := r.count(info, 2)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		if err := r.entry(out, depth); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// entry reads one key/value pair into m. A repeated key overwrites the
// earlier value.
func (r *reader) entry(m map[string]any, depth int) error {
	k, err := r.value(depth + 1)
	if err != nil {
		return err
	}
	key, ok := k.(string)
	if !ok {
		return r.errorf("map key is not a UTF-8 string (got %T)", k)
	}
	v, err := r.value(depth + 1)
	if err != nil {
		return err
	}
	m[key] = v
	return nil
}

func (r *reader) simple(info byte) (any, error) {
	switch info {
	case simpleFalse:
		return false, nil
	case simpleTrue:
		return true, nil
	case simpleNull:
		return nil, nil
	case simpleUndefined:
		return nil, r.errorf("undefined value is not supported")
	case simpleFloat16:
		return nil, r.errorf("half-precision float is not supported")
	case simpleFloat32:
		return nil, r.errorf("single-precision float is not supported")
	case simpleFloat64:
		b, err := r.take(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case infoIndefinite:
		return nil, r.errorf("unexpected break")
	}
	return nil, r.errorf("unsupported simple value %d", info)
}
