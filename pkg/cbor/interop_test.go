package cbor

import (
	"bytes"
	"reflect"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
)

// The reference implementation checks both directions: what we write must
// be readable by a general-purpose CBOR library, and what it writes
// (including indefinite-length forms we never produce) must be readable by us.

func referenceDecMode(t *testing.T) fxcbor.DecMode {
	t.Helper()
	dm, err := fxcbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         fxcbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		t.Fatalf("DecMode: %v", err)
	}
	return dm
}

func TestInteropReferenceDecodesOurs(t *testing.T) {
	dm := referenceDecMode(t)

	values := []any{
		int64(0), int64(24), int64(-25), int64(1 << 40),
		"node", []byte{1, 2, 3}, true, nil, 2.25,
		[]any{int64(1), "two", []any{}},
		map[string]any{
			"@i": int64(0),
			"@t": "Program",
			"body": map[string]any{
				"@T": "*",
				"@d": []any{map[string]any{"@T": "1", "@i": int64(1), "@t": "Print"}},
			},
		},
	}

	for _, v := range values {
		data, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode(%#v) error: %v", v, err)
		}

		if err := fxcbor.Wellformed(data); err != nil {
			t.Errorf("reference rejects % x: %v", data, err)
			continue
		}

		var got any
		if err := dm.Unmarshal(data, &got); err != nil {
			t.Fatalf("reference Unmarshal(% x) error: %v", data, err)
		}
		if diff := cmp.Diff(v, got); diff != "" {
			t.Errorf("reference decoded differently (-ours +reference):\n%s", diff)
		}
	}
}

func TestInteropWeDecodeReference(t *testing.T) {
	em, err := fxcbor.CoreDetEncOptions().EncMode()
	if err != nil {
		t.Fatalf("EncMode: %v", err)
	}

	v := map[string]any{
		"ab": []any{int64(-7), "x"},
		"cd": map[string]any{"k": []byte("v")},
		"ef": false,
	}
	data, err := em.Marshal(v)
	if err != nil {
		t.Fatalf("reference Marshal error: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(% x) error: %v", data, err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}

	// Keys of equal length sort the same way under both orderings, and the
	// value contains no floats, so the bytes must match exactly.
	ours, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !bytes.Equal(ours, data) {
		t.Errorf("Encode = % x, reference = % x", ours, data)
	}
}

func TestInteropIndefiniteLength(t *testing.T) {
	var buf bytes.Buffer
	enc := fxcbor.NewEncoder(&buf)

	steps := []func() error{
		enc.StartIndefiniteMap,
		func() error { return enc.Encode("s") },
		enc.StartIndefiniteTextString,
		func() error { return enc.Encode("hel") },
		func() error { return enc.Encode("lo") },
		enc.EndIndefinite,
		func() error { return enc.Encode("b") },
		enc.StartIndefiniteByteString,
		func() error { return enc.Encode([]byte{0xDE, 0xAD}) },
		func() error { return enc.Encode([]byte{0xBE, 0xEF}) },
		enc.EndIndefinite,
		func() error { return enc.Encode("l") },
		enc.StartIndefiniteArray,
		func() error { return enc.Encode(1) },
		func() error { return enc.Encode(2) },
		enc.EndIndefinite,
		enc.EndIndefinite,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("reference encoder step %d: %v", i, err)
		}
	}

	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode(% x) error: %v", buf.Bytes(), err)
	}
	want := map[string]any{
		"s": "hello",
		"b": []byte{0xDE, 0xAD, 0xBE, 0xEF},
		"l": []any{int64(1), int64(2)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestInteropDiagnosticAgreement(t *testing.T) {
	data, err := Encode([]any{int64(1), "a", []byte{0x0F}})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	ref, _, err := fxcbor.DiagnoseFirst(data)
	if err != nil {
		t.Fatalf("reference DiagnoseFirst error: %v", err)
	}
	ours, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose error: %v", err)
	}
	if ours != ref {
		t.Errorf("Diagnose = %s, reference = %s", ours, ref)
	}
}
