package cbor

import (
	"encoding/hex"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Diagnose decodes data and renders it in RFC 8949 diagnostic notation.
// Tags are not shown (the decoder drops them) and map entries appear in
// canonical key order.
func Diagnose(data []byte) (string, error) {
	var d Decoder
	return d.Diagnose(data)
}

// Diagnose is like the package-level Diagnose but decodes with d's limits.
func (d *Decoder) Diagnose(data []byte) (string, error) {
	v, err := d.Decode(data)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeDiag(&b, v)
	return b.String(), nil
}

func writeDiag(b *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case float64:
		b.WriteString(formatFloat(v))
	case string:
		b.WriteString(strconv.Quote(v))
	case []byte:
		b.WriteString("h'")
		b.WriteString(hex.EncodeToString(v))
		b.WriteString("'")
	case []any:
		b.WriteString("[")
		for i, el := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			writeDiag(b, el)
		}
		b.WriteString("]")
	case map[string]any:
		b.WriteString("{")
		for i, k := range slices.Sorted(maps.Keys(v)) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			writeDiag(b, v[k])
		}
		b.WriteString("}")
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
