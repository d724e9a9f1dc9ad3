package io

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/treegen/pkg/cbor"
	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/tree"
)

// WriteTree serializes the tree rooted at n and writes it to w.
func WriteTree(w io.Writer, n tree.Node) error {
	data, err := tree.Serialize(n)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportTree serializes the tree rooted at n to a file at path.
// This is a convenience wrapper around [WriteTree] for file-based output.
func ExportTree(n tree.Node, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTree(f, n); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON decodes a blob and writes its primitive form to w as indented
// JSON.
func WriteJSON(w io.Writer, data []byte) error {
	v, err := cbor.Decode(data)
	if err != nil {
		return err
	}
	return EncodeJSON(w, v)
}

// EncodeJSON writes a value of the codec's primitive domain to w as
// indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	j, err := toJSON(v)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Tags that keep the JSON form lossless. A byte string becomes
// {"@bytes": base64}; a genuine one-key map whose key is a tag is wrapped
// as {"@map": map} so it is not mistaken for one.
const (
	tagBytes = "@bytes"
	tagMap   = "@map"
)

func toJSON(v any) (any, error) {
	switch v := v.(type) {
	case []byte:
		return map[string]any{tagBytes: base64.StdEncoding.EncodeToString(v)}, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New(errors.ErrCodeUnsupported, "%v has no JSON representation", v)
		}
		return json.Number(formatFloat(v)), nil
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			j, err := toJSON(el)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, el := range v {
			j, err := toJSON(el)
			if err != nil {
				return nil, err
			}
			out[k] = j
		}
		if isTagged(out) {
			return map[string]any{tagMap: out}, nil
		}
		return out, nil
	}
	return v, nil
}

// formatFloat writes f so that it always reads back as a float: whole
// numbers get a ".0" fraction.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func isTagged(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	_, isBytes := m[tagBytes]
	_, isMap := m[tagMap]
	return isBytes || isMap
}
