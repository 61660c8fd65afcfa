package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/twintree/pkg/buildinfo"
	"github.com/matzehuels/twintree/pkg/dupes"
	errs "github.com/matzehuels/twintree/pkg/errors"
	treeio "github.com/matzehuels/twintree/pkg/io"
	"github.com/matzehuels/twintree/pkg/pipeline"
	"github.com/matzehuels/twintree/pkg/render"
	"github.com/matzehuels/twintree/pkg/tree"
)

// DuplicatesRequest is the body of POST /v1/duplicates.
type DuplicatesRequest struct {
	Tree    json.RawMessage   `json:"tree"`
	Options *pipeline.Options `json:"options,omitempty"`
}

// DuplicatesResponse is the reply of POST /v1/duplicates.
type DuplicatesResponse struct {
	*pipeline.Summary
	CacheHit   bool    `json:"cache_hit"`
	DurationMS float64 `json:"duration_ms"`
}

// KeyRequest is the body of POST /v1/key.
type KeyRequest struct {
	Tree   json.RawMessage `json:"tree"`
	Scheme string          `json:"scheme,omitempty"`
}

// KeyResponse is the reply of POST /v1/key.
type KeyResponse struct {
	Scheme string `json:"scheme"`
	Key    string `json:"key"`
}

// RenderRequest is the body of POST /v1/render. Query parameters format,
// highlight and detailed override the body.
type RenderRequest struct {
	Tree json.RawMessage `json:"tree"`
	pipeline.RenderOptions
}

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	var req DuplicatesRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	root, err := parseTree(req.Tree)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var over pipeline.Options
	if req.Options != nil {
		over = *req.Options
	}
	opts := merge(s.cfg.Defaults, over)

	res, err := s.runner.Analyze(r.Context(), root, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DuplicatesResponse{
		Summary:    res.Summary,
		CacheHit:   res.CacheHit,
		DurationMS: float64(res.Stats.Duration.Microseconds()) / 1000,
	})
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	root, err := parseTree(req.Tree)
	if err != nil {
		writeError(w, r, err)
		return
	}

	scheme := req.Scheme
	if scheme == "" {
		scheme = s.cfg.Defaults.Scheme
	}
	st := dupes.Strategy{Scheme: scheme}.Normalize()
	if err := st.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	var key string
	switch st.Scheme {
	case dupes.SchemeHash:
		key = fmt.Sprintf("%016x", dupes.KeyOf(root, dupes.Hashes(tree.IntRepr)))
	default:
		key = dupes.KeyOf(root, dupes.Strings(tree.IntRepr))
	}
	writeJSON(w, http.StatusOK, KeyResponse{Scheme: st.Scheme, Key: key})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	if f := q.Get("format"); f != "" {
		req.Format = f
	}
	for name, dst := range map[string]*bool{"highlight": &req.Highlight, "detailed": &req.Detailed} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "query parameter %s", name))
				return
			}
			*dst = b
		}
	}

	root, err := parseTree(req.Tree)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, _, err := s.runner.Render(r.Context(), root, req.RenderOptions)
	if err != nil {
		writeError(w, r, err)
		return
	}

	contentType := "image/svg+xml"
	if strings.EqualFold(req.Format, render.FormatDOT) {
		contentType = "text/vnd.graphviz; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads a size-limited JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", tooBig.Limit)
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// parseTree decodes the tree field with the same sniffing as file import.
func parseTree(raw json.RawMessage) (*tree.Node[int], error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "missing tree")
	}
	return treeio.Read(bytes.NewReader(raw))
}

// merge overlays the non-zero fields of req onto defaults. The result is
// a fresh, unvalidated Options.
func merge(defaults, req pipeline.Options) pipeline.Options {
	out := pipeline.Options{
		Scheme:     defaults.Scheme,
		Traversal:  defaults.Traversal,
		Verify:     defaults.Verify,
		Workers:    defaults.Workers,
		SplitDepth: defaults.SplitDepth,
	}
	if req.Scheme != "" {
		out.Scheme = req.Scheme
	}
	if req.Traversal != "" {
		out.Traversal = req.Traversal
	}
	if req.Workers != 0 {
		out.Workers = req.Workers
	}
	if req.SplitDepth != 0 {
		out.SplitDepth = req.SplitDepth
	}
	out.Verify = out.Verify || req.Verify
	out.Refresh = req.Refresh
	return out
}

func errNotFound(path string) error {
	return errs.New(errs.ErrCodeNotFound, "no route for %s", path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, errs.HTTPStatus(err), errorBody{
		Error:     errorDetail{Code: code, Message: errs.UserMessage(err)},
		RequestID: RequestID(r.Context()),
	})
}
