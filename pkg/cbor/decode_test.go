package cbor

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/treegen/pkg/errors"
)

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want any
	}{
		{"zero", []byte{0x00}, int64(0)},
		{"23", []byte{0x17}, int64(23)},
		{"24", []byte{0x18, 0x18}, int64(24)},
		{"255", []byte{0x18, 0xFF}, int64(255)},
		{"256", []byte{0x19, 0x01, 0x00}, int64(256)},
		{"65535", []byte{0x19, 0xFF, 0xFF}, int64(65535)},
		{"65536", []byte{0x1A, 0x00, 0x01, 0x00, 0x00}, int64(65536)},
		{"2^32-1", []byte{0x1A, 0xFF, 0xFF, 0xFF, 0xFF}, int64(math.MaxUint32)},
		{"2^32", []byte{0x1B, 0, 0, 0, 1, 0, 0, 0, 0}, int64(1 << 32)},
		{"max uint64", []byte{0x1B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, uint64(math.MaxUint64)},
		{"-1", []byte{0x20}, int64(-1)},
		{"-24", []byte{0x37}, int64(-24)},
		{"-25", []byte{0x38, 0x18}, int64(-25)},
		{"min int64", []byte{0x3B, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, int64(math.MinInt64)},
		{"false", []byte{0xF4}, false},
		{"true", []byte{0xF5}, true},
		{"null", []byte{0xF6}, nil},
		{"double", []byte{0xFB, 0x3F, 0xF8, 0, 0, 0, 0, 0, 0}, 1.5},
		{"text", []byte{0x63, 'a', 'b', 'c'}, "abc"},
		{"empty text", []byte{0x60}, ""},
		{"bytes", []byte{0x42, 0x01, 0x02}, []byte{0x01, 0x02}},
		{"empty bytes", []byte{0x40}, []byte{}},
		{"tagged", []byte{0xC1, 0x1A, 0x51, 0x4B, 0x67, 0xB0}, int64(1363896240)},
		{"nested tags", []byte{0xD8, 0x20, 0xC2, 0x61, 'x'}, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode(% x) error: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(% x) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestDecodeContainers(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want any
	}{
		{"empty array", []byte{0x80}, []any{}},
		{"array", []byte{0x83, 0x01, 0x61, 'a', 0xF6}, []any{int64(1), "a", nil}},
		{"indefinite array", []byte{0x9F, 0x01, 0x9F, 0xFF, 0xFF}, []any{int64(1), []any{}}},
		{"empty map", []byte{0xA0}, map[string]any{}},
		{"map", []byte{0xA2, 0x61, 'a', 0x01, 0x61, 'b', 0x82, 0x02, 0x03}, map[string]any{
			"a": int64(1),
			"b": []any{int64(2), int64(3)},
		}},
		{"indefinite map", []byte{0xBF, 0x61, 'k', 0xF5, 0xFF}, map[string]any{"k": true}},
		{"duplicate key last wins", []byte{0xA2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}, map[string]any{"a": int64(2)}},
		{"indefinite key", []byte{0xA1, 0x7F, 0x61, 'k', 0x61, 'y', 0xFF, 0x00}, map[string]any{"ky": int64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode(% x) error: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(% x) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestDecodeIndefiniteStrings(t *testing.T) {
	t.Run("multi-chunk text", func(t *testing.T) {
		in := []byte{0x7F, 0x63, 'a', 'b', 'c', 0x60, 0x62, 'd', 'e', 0xFF}
		got, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		if got != "abcde" {
			t.Errorf("Decode = %q, want %q", got, "abcde")
		}
	})

	t.Run("multi-chunk bytes", func(t *testing.T) {
		in := []byte{0x5F, 0x42, 0x01, 0x02, 0x41, 0x03, 0x43, 0x04, 0x05, 0x06, 0xFF}
		got, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		want := []byte{1, 2, 3, 4, 5, 6}
		if !bytes.Equal(got.([]byte), want) {
			t.Errorf("Decode = % x, want % x", got, want)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		got, err := Decode([]byte{0x7F, 0xFF})
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		if got != "" {
			t.Errorf("Decode = %q, want empty string", got)
		}
	})

	t.Run("empty bytes", func(t *testing.T) {
		got, err := Decode([]byte{0x5F, 0xFF})
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		b, ok := got.([]byte)
		if !ok || b == nil || len(b) != 0 {
			t.Errorf("Decode = %#v, want empty non-nil []byte", got)
		}
	})

	t.Run("utf-8 split across chunks", func(t *testing.T) {
		// "é" is C3 A9; the chunks split it, the concatenation is valid.
		in := []byte{0x7F, 0x61, 0xC3, 0x61, 0xA9, 0xFF}
		got, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		if got != "é" {
			t.Errorf("Decode = %q, want %q", got, "é")
		}
	})
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	in := []byte{0x42, 0x01, 0x02}
	got, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	in[1] = 0xFF
	if got.([]byte)[0] != 0x01 {
		t.Error("decoded byte string aliases the input buffer")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"empty input", []byte{}},
		{"truncated uint16", []byte{0x19, 0x01}},
		{"truncated text", []byte{0x63, 'a'}},
		{"truncated array", []byte{0x82, 0x01}},
		{"truncated indefinite array", []byte{0x9F, 0x01}},
		{"truncated indefinite string", []byte{0x7F, 0x61, 'a'}},
		{"additional info 28", []byte{0x1C}},
		{"additional info 29", []byte{0x3D}},
		{"additional info 30 length", []byte{0x5E}},
		{"indefinite integer", []byte{0x1F}},
		{"indefinite tag", []byte{0xDF, 0x00}},
		{"non-string key", []byte{0xA1, 0x01, 0x02}},
		{"byte string key", []byte{0xA1, 0x41, 'a', 0x02}},
		{"half float", []byte{0xF9, 0x3C, 0x00}},
		{"single float", []byte{0xFA, 0x3F, 0xC0, 0x00, 0x00}},
		{"undefined", []byte{0xF7}},
		{"simple value", []byte{0xF0}},
		{"simple value one byte", []byte{0xF8, 0x20}},
		{"unexpected break", []byte{0xFF}},
		{"break in definite array", []byte{0x81, 0xFF}},
		{"trailing bytes", []byte{0x00, 0x00}},
		{"negative bignum", []byte{0x3B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"invalid utf-8", []byte{0x62, 0xFF, 0xFE}},
		{"wrong chunk type", []byte{0x7F, 0x41, 'a', 0xFF}},
		{"nested indefinite chunk", []byte{0x7F, 0x7F, 0xFF, 0xFF}},
		{"huge array length", []byte{0x9B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}},
		{"huge map length", []byte{0xBA, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err == nil {
				t.Fatalf("Decode(% x) = %#v, want error", tt.in, got)
			}
			if !errors.Is(err, errors.ErrCodeDecode) {
				t.Errorf("Decode(% x) code = %v, want %v", tt.in, errors.GetCode(err), errors.ErrCodeDecode)
			}
			if got != nil {
				t.Errorf("Decode(% x) returned partial value %#v", tt.in, got)
			}
		})
	}
}

func TestDecodeMaxDepth(t *testing.T) {
	nested := func(n int) []byte {
		b := bytes.Repeat([]byte{0x81}, n)
		return append(b, 0x80)
	}

	d := Decoder{MaxDepth: 8}
	if _, err := d.Decode(nested(8)); err != nil {
		t.Errorf("Decode at depth limit: %v", err)
	}
	if _, err := d.Decode(nested(9)); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("Decode beyond depth limit error = %v, want DECODE_ERROR", err)
	}

	// The default limit protects the stack against hostile input.
	if _, err := Decode(nested(100000)); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("Decode(deep) error = %v, want DECODE_ERROR", err)
	}

	// Tags count towards the depth, so a chain of tags cannot bypass it.
	tags := append(bytes.Repeat([]byte{0xC1}, 100000), 0x00)
	if _, err := Decode(tags); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("Decode(tag chain) error = %v, want DECODE_ERROR", err)
	}
}
