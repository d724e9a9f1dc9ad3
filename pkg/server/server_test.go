package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/treegen/pkg/cache"
	"github.com/matzehuels/treegen/pkg/calc"
	"github.com/matzehuels/treegen/pkg/cbor"
	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/observability"
	"github.com/matzehuels/treegen/pkg/tree"
)

func newTestServer(t *testing.T, withStore bool) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	cfg := Config{Registry: calc.Registry, Logger: logger, MaxBodyBytes: 1 << 16}
	if withStore {
		fc, err := cache.NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		cfg.Store = cache.NewStore(fc, nil, calc.Registry, logger)
	}
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func sampleBlob(t *testing.T) []byte {
	t.Helper()
	data, err := tree.Serialize(calc.Sample())
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return data
}

func do(t *testing.T, method, url string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", contentTypeCBOR)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeJSON[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("response has no request id")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, false)
	const id = "4f0c8a52-2d7e-4a57-9b1e-6a3f0e1c2b3d"
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not-a-uuid" || got == "" {
		t.Errorf("invalid request id should be replaced, got %q", got)
	}
}

func TestDecode(t *testing.T) {
	ts := newTestServer(t, false)
	data, _ := cbor.Encode(map[string]any{"a": []any{int64(1), "x"}})
	resp := do(t, http.MethodPost, ts.URL+"/v1/decode", data)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decodeJSON[map[string]any](t, resp)
	want := map[string]any{"a": []any{1.0, "x"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decode (-want +got):\n%s", diff)
	}

	resp = do(t, http.MethodPost, ts.URL+"/v1/decode", []byte{0x1c})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed: status = %d", resp.StatusCode)
	}
	body := decodeJSON[errorBody](t, resp)
	if body.Error.Code != string(errors.ErrCodeDecode) || body.RequestID == "" {
		t.Errorf("error body = %+v", body)
	}
}

func TestCheck(t *testing.T) {
	ts := newTestServer(t, false)
	resp := do(t, http.MethodPost, ts.URL+"/v1/check", sampleBlob(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decodeJSON[CheckResult](t, resp)
	want := CheckResult{Type: "Program", Nodes: 21, WellFormed: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("check (-want +got):\n%s", diff)
	}
}

func TestCheckNotWellFormed(t *testing.T) {
	ts := newTestServer(t, false)

	// An empty Many field decodes fine but is not well-formed.
	m, err := tree.Encode(calc.Sample())
	if err != nil {
		t.Fatal(err)
	}
	m["body"] = map[string]any{tree.KeyEdge: "+", tree.KeyList: []any{}}
	data, _ := cbor.Encode(m)

	resp := do(t, http.MethodPost, ts.URL+"/v1/check", data)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decodeJSON[CheckResult](t, resp)
	if got.WellFormed || !strings.Contains(got.Problem, "body") {
		t.Errorf("check = %+v", got)
	}
}

func TestCheckErrors(t *testing.T) {
	ts := newTestServer(t, false)
	unknown, _ := cbor.Encode(map[string]any{tree.KeyType: "Nope"})
	tests := []struct {
		name   string
		body   []byte
		status int
		code   errors.Code
	}{
		{"malformed", []byte{0xff}, http.StatusBadRequest, errors.ErrCodeDecode},
		{"unknown type", unknown, http.StatusBadRequest, errors.ErrCodeUnknownNodeType},
		{"too large", make([]byte, 1<<17), http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/check", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeJSON[errorBody](t, resp); body.Error.Code != string(tt.code) {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.code)
			}
		})
	}
}

func TestTrees(t *testing.T) {
	ts := newTestServer(t, true)
	blob := sampleBlob(t)

	resp := do(t, http.MethodPut, ts.URL+"/v1/trees", blob)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}
	put := decodeJSON[PutResult](t, resp)
	if put.Key != cache.Key(blob) {
		t.Errorf("key = %s, want %s", put.Key, cache.Key(blob))
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/trees/"+put.Key {
		t.Errorf("Location = %s", loc)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/trees/"+put.Key, nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != contentTypeCBOR {
		t.Fatalf("GET status = %d, type %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	got, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(got, blob) {
		t.Error("GET returned different bytes")
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/trees/"+put.Key+"?format=json", nil)
	if j := decodeJSON[map[string]any](t, resp); j[tree.KeyType] != "Program" {
		t.Errorf("JSON rendering = %v", j)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/trees/"+put.Key+"/dump", nil)
	dump, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(dump), "Program(\n  name: \"example\"") {
		t.Errorf("dump = %s", dump)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/v1/trees/"+put.Key, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, ts.URL+"/v1/trees/"+put.Key, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/trees/bogus", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad key status = %d", resp.StatusCode)
	}
}

func TestPutIllFormedTree(t *testing.T) {
	ts := newTestServer(t, true)
	m, _ := tree.Encode(calc.Sample())
	m["body"] = map[string]any{tree.KeyEdge: "+", tree.KeyList: []any{}}
	data, _ := cbor.Encode(m)

	resp := do(t, http.MethodPut, ts.URL+"/v1/trees", data)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestTreesWithoutStore(t *testing.T) {
	ts := newTestServer(t, false)
	resp := do(t, http.MethodPut, ts.URL+"/v1/trees", sampleBlob(t))
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", resp.StatusCode)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	routes []string
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, fmt.Sprintf("%s %s %d", method, route, status))
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	ts := newTestServer(t, true)
	do(t, http.MethodGet, ts.URL+"/v1/trees/tree:"+strings.Repeat("0", 64), nil)

	want := []string{"GET /v1/trees/{key} 404"}
	if diff := cmp.Diff(want, hooks.routes); diff != "" {
		t.Errorf("hooked requests (-want +got):\n%s", diff)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeDecode, http.StatusBadRequest},
		{errors.ErrCodeUnknownNodeType, http.StatusBadRequest},
		{errors.ErrCodeType, http.StatusBadRequest},
		{errors.ErrCodeNotWellFormed, http.StatusUnprocessableEntity},
		{errors.ErrCodeLinkResolution, http.StatusUnprocessableEntity},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeStorage, http.StatusServiceUnavailable},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("StatusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
