package io

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/tree"
)

// ReadTree reads a serialized tree from r and deserializes it with reg.
// ReadTree does not close r.
func ReadTree(r io.Reader, reg *tree.Registry) (tree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return tree.Deserialize(reg, data)
}

// ImportTree reads a serialized tree from the file at path.
//
// A missing file fails with FILE_NOT_FOUND; otherwise ImportTree returns
// the same errors as [ReadTree].
func ImportTree(path string, reg *tree.Registry) (tree.Node, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f, reg)
}

// ReadJSON parses a single JSON value from r into the codec's primitive
// domain: objects become map[string]any, numbers written with a fraction or
// exponent float64, other numbers int64 (or uint64 when they exceed the
// int64 range), and {"@bytes": base64} objects byte strings.
func ReadJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON")
	}
	if dec.More() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "trailing data after JSON value")
	}
	return fromJSON(v)
}

func fromJSON(v any) (any, error) {
	switch v := v.(type) {
	case json.Number:
		if strings.ContainsAny(string(v), ".eE") {
			f, err := v.Float64()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "number %s", v)
			}
			return f, nil
		}
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		u, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "integer %s out of range", v)
		}
		return u, nil
	case []any:
		for i, el := range v {
			c, err := fromJSON(el)
			if err != nil {
				return nil, err
			}
			v[i] = c
		}
		return v, nil
	case map[string]any:
		if isTagged(v) {
			return fromTagged(v)
		}
		for k, el := range v {
			c, err := fromJSON(el)
			if err != nil {
				return nil, err
			}
			v[k] = c
		}
		return v, nil
	}
	return v, nil
}

func fromTagged(m map[string]any) (any, error) {
	if enc, ok := m[tagBytes]; ok {
		s, ok := enc.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s value must be a base64 string", tagBytes)
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", tagBytes)
		}
		return b, nil
	}
	inner, ok := m[tagMap].(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s value must be an object", tagMap)
	}
	for k, el := range inner {
		c, err := fromJSON(el)
		if err != nil {
			return nil, err
		}
		inner[k] = c
	}
	return inner, nil
}
