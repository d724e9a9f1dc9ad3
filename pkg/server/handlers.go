package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/treegen/pkg/buildinfo"
	"github.com/matzehuels/treegen/pkg/cbor"
	treeerrors "github.com/matzehuels/treegen/pkg/errors"
	treeio "github.com/matzehuels/treegen/pkg/io"
	"github.com/matzehuels/treegen/pkg/tree"
)

const (
	contentTypeCBOR = "application/cbor"
	contentTypeJSON = "application/json"
)

// CheckResult is the body of a /v1/check response.
type CheckResult struct {
	Type       string `json:"type"`
	Nodes      int    `json:"nodes"`
	WellFormed bool   `json:"well_formed"`
	Problem    string `json:"problem,omitempty"`
}

// PutResult is the body of a successful PUT /v1/trees response.
type PutResult struct {
	Key   string `json:"key"`
	Bytes int    `json:"bytes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	v, err := cbor.Decode(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	if err := treeio.EncodeJSON(w, v); err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	n, err := tree.Deserialize(s.cfg.Registry, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res := CheckResult{Type: n.Type(), WellFormed: true}
	tree.Walk(n, func(tree.Node, int) bool {
		res.Nodes++
		return true
	})
	if err := tree.CheckWellFormed(n); err != nil {
		res.WellFormed = false
		res.Problem = treeerrors.UserMessage(err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	key, err := s.cfg.Store.PutBlob(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/trees/"+key)
	writeJSON(w, http.StatusCreated, PutResult{Key: key, Bytes: len(body)})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	data, err := s.cfg.Store.GetBlob(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", contentTypeJSON)
		if err := treeio.WriteJSON(w, data); err != nil {
			s.writeError(w, r, err)
		}
		return
	}
	w.Header().Set("Content-Type", contentTypeCBOR)
	_, _ = w.Write(data)
}

func (s *Server) handleDumpTree(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	n, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_ = tree.Dump(w, n, tree.DumpOptions{LinkDepth: 1, Annotations: r.URL.Query()["annotation"]})
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.cfg.Store == nil {
		s.writeError(w, r, treeerrors.New(treeerrors.ErrCodeUnsupported, "this server has no tree store"))
		return false
	}
	return true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorStatus(w, r, http.StatusRequestEntityTooLarge,
				treeerrors.New(treeerrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		s.writeError(w, r, treeerrors.Wrap(treeerrors.ErrCodeInvalidInput, err, "read body"))
		return nil, false
	}
	return body, true
}

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorStatus(w, r, StatusFor(err), err)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := string(treeerrors.GetCode(err))
	if code == "" {
		code = string(treeerrors.ErrCodeInternal)
	}
	if status >= 500 {
		s.cfg.Logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: treeerrors.UserMessage(err)},
		RequestID: RequestID(r.Context()),
	})
}

// StatusFor maps an error to an HTTP status by its code.
func StatusFor(err error) int {
	switch {
	case treeerrors.Is(err, treeerrors.ErrCodeNotWellFormed),
		treeerrors.Is(err, treeerrors.ErrCodeLinkResolution):
		return http.StatusUnprocessableEntity
	case treeerrors.Is(err, treeerrors.ErrCodeDecode),
		treeerrors.Is(err, treeerrors.ErrCodeType),
		treeerrors.Is(err, treeerrors.ErrCodeInvalidInput):
		return http.StatusBadRequest
	case treeerrors.Is(err, treeerrors.ErrCodeNotFound):
		return http.StatusNotFound
	case treeerrors.Is(err, treeerrors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case treeerrors.Is(err, treeerrors.ErrCodeStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
