package cbor

import (
	"encoding/binary"
	"maps"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/matzehuels/treegen/pkg/errors"
)

// Marshaler is implemented by types that convert themselves into a value of
// the primitive domain before encoding.
type Marshaler interface {
	MarshalCBORValue() (any, error)
}

// Raw is a pre-encoded CBOR value. It is written verbatim by the encoder and
// is never produced by the decoder.
type Raw []byte

// Encoder encodes primitive Go values to canonical CBOR.
// The zero value is ready to use.
type Encoder struct {
	// Convert is consulted for values outside the primitive domain that do
	// not implement Marshaler. It returns a replacement value to encode, or
	// an error if it does not know the type either.
	Convert func(v any) (any, error)

	// MaxDepth bounds container nesting, guarding against self-referencing
	// maps and slices. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Encode encodes v using a zero [Encoder].
func Encode(v any) ([]byte, error) {
	var e Encoder
	return e.Encode(v)
}

// Encode returns the canonical CBOR encoding of v.
func (e *Encoder) Encode(v any) ([]byte, error) {
	return e.Append(nil, v)
}

// Append appends the canonical CBOR encoding of v to dst.
func (e *Encoder) Append(dst []byte, v any) ([]byte, error) {
	maxDepth := e.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	w := &writer{buf: dst, convert: e.Convert, maxDepth: maxDepth}
	if err := w.value(v, 0); err != nil {
		return nil, err
	}
	return w.buf, nil
}

type writer struct {
	buf      []byte
	convert  func(any) (any, error)
	maxDepth int
}

// head writes an initial byte plus the shortest argument encoding for n.
func (w *writer) head(major byte, n uint64) {
	initial := major << 5
	switch {
	case n < uint64(infoUint8):
		w.buf = append(w.buf, initial|byte(n))
	case n <= math.MaxUint8:
		w.buf = append(w.buf, initial|infoUint8, byte(n))
	case n <= math.MaxUint16:
		w.buf = append(w.buf, initial|infoUint16)
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(n))
	case n <= math.MaxUint32:
		w.buf = append(w.buf, initial|infoUint32)
		w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(n))
	default:
		w.buf = append(w.buf, initial|infoUint64)
		w.buf = binary.BigEndian.AppendUint64(w.buf, n)
	}
}

func (w *writer) int(v int64) {
	if v < 0 {
		w.head(majorNegative, uint64(-1-v))
		return
	}
	w.head(majorUnsigned, uint64(v))
}

func (w *writer) float(f float64) {
	w.buf = append(w.buf, majorSimple<<5|simpleFloat64)
	w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(f))
}

// text writes s as a text string. The decoder rejects text strings that are
// not valid UTF-8, so they are refused here as well.
func (w *writer) text(s string) error {
	if !utf8.ValidString(s) {
		return errors.New(errors.ErrCodeType, "text string %q is not valid UTF-8", s)
	}
	w.head(majorText, uint64(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

func (w *writer) value(v any, depth int) error {
	if depth > w.maxDepth {
		return errors.New(errors.ErrCodeType, "value nesting exceeds maximum depth %d", w.maxDepth)
	}

	switch v := v.(type) {
	case nil:
		w.buf = append(w.buf, majorSimple<<5|simpleNull)
	case bool:
		if v {
			w.buf = append(w.buf, majorSimple<<5|simpleTrue)
		} else {
			w.buf = append(w.buf, majorSimple<<5|simpleFalse)
		}
	case int:
		w.int(int64(v))
	case int8:
		w.int(int64(v))
	case int16:
		w.int(int64(v))
	case int32:
		w.int(int64(v))
	case int64:
		w.int(v)
	case uint:
		w.head(majorUnsigned, uint64(v))
	case uint8:
		w.head(majorUnsigned, uint64(v))
	case uint16:
		w.head(majorUnsigned, uint64(v))
	case uint32:
		w.head(majorUnsigned, uint64(v))
	case uint64:
		w.head(majorUnsigned, v)
	case float32:
		w.float(float64(v))
	case float64:
		w.float(v)
	case string:
		return w.text(v)
	case []byte:
		w.head(majorBytes, uint64(len(v)))
		w.buf = append(w.buf, v...)
	case Raw:
		w.buf = append(w.buf, v...)
	case []any:
		w.head(majorArray, uint64(len(v)))
		for _, el := range v {
			if err := w.value(el, depth+1); err != nil {
				return err
			}
		}
	case []string:
		w.head(majorArray, uint64(len(v)))
		for _, el := range v {
			if err := w.text(el); err != nil {
				return err
			}
		}
	case []int64:
		w.head(majorArray, uint64(len(v)))
		for _, el := range v {
			w.int(el)
		}
	case []float64:
		w.head(majorArray, uint64(len(v)))
		for _, el := range v {
			w.float(el)
		}
	case map[string]any:
		w.head(majorMap, uint64(len(v)))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			if err := w.text(k); err != nil {
				return err
			}
			if err := w.value(v[k], depth+1); err != nil {
				return err
			}
		}
	case map[string]string:
		w.head(majorMap, uint64(len(v)))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			if err := w.text(k); err != nil {
				return err
			}
			if err := w.text(v[k]); err != nil {
				return err
			}
		}
	case Marshaler:
		converted, err := v.MarshalCBORValue()
		if err != nil {
			return errors.Wrap(errors.ErrCodeType, err, "convert %T", v)
		}
		return w.value(converted, depth+1)
	default:
		if w.convert == nil {
			return errors.New(errors.ErrCodeType, "unsupported type for conversion to CBOR: %T", v)
		}
		converted, err := w.convert(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeType, err, "convert %T", v)
		}
		return w.value(converted, depth+1)
	}
	return nil
}
