package io

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/treegen/pkg/calc"
	"github.com/matzehuels/treegen/pkg/cbor"
	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/tree"
)

func TestTreeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTree(&buf, calc.Sample()); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	n, err := ReadTree(&buf, calc.Registry)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if !tree.Equal(calc.Sample(), n) {
		t.Error("tree changed after write and read")
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.cbor")
	if err := ExportTree(calc.Sample(), path); err != nil {
		t.Fatalf("ExportTree: %v", err)
	}
	n, err := ImportTree(path, calc.Registry)
	if err != nil {
		t.Fatalf("ImportTree: %v", err)
	}
	if !tree.Equal(calc.Sample(), n) {
		t.Error("tree changed after export and import")
	}

	if _, err := ImportTree(filepath.Join(t.TempDir(), "none.cbor"), calc.Registry); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}
	if _, err := ImportTree("../secret", calc.Registry); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("traversal: got %v, want INVALID_INPUT", err)
	}
}

func TestWriteTreeRejectsIllFormed(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTree(&buf, calc.NewProgram("empty"))
	if !errors.Is(err, errors.ErrCodeNotWellFormed) {
		t.Errorf("got %v, want NOT_WELL_FORMED", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for an ill-formed tree", buf.Len())
	}
}

func TestWriteJSON(t *testing.T) {
	data, err := cbor.Encode(map[string]any{
		"big":   uint64(1) << 63,
		"bytes": []byte{0xca, 0xfe},
		"list":  []any{int64(-1), 1.5, 3.0, 1e21, true, nil},
		"tag":   map[string]any{"@bytes": "not bytes"},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	want := `{
  "big": 9223372036854775808,
  "bytes": {
    "@bytes": "yv4="
  },
  "list": [
    -1,
    1.5,
    3.0,
    1e+21,
    true,
    null
  ],
  "tag": {
    "@map": {
      "@bytes": "not bytes"
    }
  }
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteJSON (-want +got):\n%s", diff)
	}
}

func TestWriteJSONErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []byte{0xff}); !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("malformed blob: got %v, want DECODE_ERROR", err)
	}
	if err := EncodeJSON(&buf, []any{1.0, math.Inf(1)}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("infinity: got %v, want UNSUPPORTED", err)
	}
}

func TestReadJSON(t *testing.T) {
	v, err := ReadJSON(strings.NewReader(`{"a": [1, -2, 2.5, 1e3, 18446744073709551615], "b": {"c": null, "d": "x"}}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	want := map[string]any{
		"a": []any{int64(1), int64(-2), 2.5, 1000.0, uint64(18446744073709551615)},
		"b": map[string]any{"c": nil, "d": "x"},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("ReadJSON (-want +got):\n%s", diff)
	}

	for _, in := range []string{`{`, `1 2`, ``, `{"@bytes": 1}`, `{"@bytes": "!!"}`, `{"@map": []}`, `1e999`, `99999999999999999999`} {
		if _, err := ReadJSON(strings.NewReader(in)); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ReadJSON(%q): got %v, want INVALID_INPUT", in, err)
		}
	}
}

func TestJSONRoundTripIsLossless(t *testing.T) {
	want := map[string]any{
		"bytes":  []byte{0x00, 0xff},
		"empty":  []byte{},
		"floats": []any{3.0, -0.5, 0.0, 1e-7, 1e300},
		"ints":   []any{int64(3), int64(-7), uint64(1) << 63},
		"tagged": map[string]any{"@map": "x"},
		"nested": map[string]any{"@bytes": map[string]any{"@map": int64(1)}},
		"plain":  map[string]any{"@bytes": "a", "other": "b"},
	}
	data, err := cbor.Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON round trip (-want +got):\n%s", diff)
	}
	again, err := cbor.Encode(got)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("JSON round trip changed the encoding")
	}
}

// A tree's JSON rendering encodes back to the same bytes.
func TestJSONRoundTripOfTree(t *testing.T) {
	data, err := tree.Serialize(calc.Sample())
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	path := filepath.Join(t.TempDir(), "sample.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(f, data); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	f.Close()

	f, err = os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	v, err := ReadJSON(f)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	again, err := cbor.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("JSON round trip changed the encoding")
	}
}
