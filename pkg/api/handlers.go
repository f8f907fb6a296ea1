package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stackmap/pkg/buildinfo"
	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/graph"
	"github.com/matzehuels/stackmap/pkg/pipeline"
	"github.com/matzehuels/stackmap/pkg/runs"
)

// MapRequest is the body of POST /v1/map. The pipeline options are inlined
// next to the graph.
type MapRequest struct {
	Graph     *graph.Document `json:"graph"`
	ArchGraph *graph.Document `json:"arch_graph,omitempty"`
	pipeline.Options
}

// MapResponse is the reply to POST /v1/map.
type MapResponse struct {
	GraphHash string           `json:"graph_hash"`
	CacheHit  bool             `json:"cache_hit"`
	RunID     string           `json:"run_id,omitempty"`
	Mapping   *pipeline.Output `json:"mapping"`
	DOT       string           `json:"dot,omitempty"`
	SVG       string           `json:"svg,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var req MapRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Graph == nil {
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "graph is required"))
		return
	}

	if err := s.checkSize("graph", req.Graph); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.checkSize("arch_graph", req.ArchGraph); err != nil {
		s.writeError(w, err)
		return
	}

	opts := req.Options
	var err error
	if opts.Graph, err = graph.FromDocument(*req.Graph); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidGraph, err, "graph"))
		return
	}
	if req.ArchGraph != nil {
		if opts.ArchGraph, err = graph.FromDocument(*req.ArchGraph); err != nil {
			s.writeError(w, errs.Wrap(errs.ErrCodeInvalidArch, err, "arch_graph"))
			return
		}
	}
	opts.AllowFiles = false
	opts.Limits = s.cfg.Limits
	if opts.Threads == 0 || opts.Threads > s.cfg.MaxThreads {
		opts.Threads = s.cfg.MaxThreads
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := MapResponse{
		GraphHash: res.GraphHash,
		CacheHit:  res.CacheHit,
		Mapping:   res.Output,
		DOT:       string(res.Artifacts[pipeline.FormatDOT]),
		SVG:       string(res.Artifacts[pipeline.FormatSVG]),
	}
	if res.Run != nil {
		resp.RunID = res.Run.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// checkSize rejects documents declaring more vertices than the server
// accepts. Allocation is proportional to the declared count, not to the
// body size.
func (s *Server) checkSize(field string, doc *graph.Document) error {
	if doc == nil || doc.Vertices <= s.cfg.MaxVertices {
		return nil
	}
	return errs.New(errs.ErrCodeInvalidGraph, "%s has %d vertices, limit is %d", field, doc.Vertices, s.cfg.MaxVertices)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "run recording is disabled"))
		return
	}
	limit := runs.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "limit must be between 1 and 1000"))
			return
		}
		limit = n
	}
	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeStorage, err, "list runs"))
		return
	}
	if list == nil {
		list = []*runs.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": list})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.runID(w, r)
	if !ok {
		return
	}
	run, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, storeError(err, id))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.runID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, storeError(err, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// runID validates the {id} URL parameter and the presence of a store.
func (s *Server) runID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.store == nil {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "run recording is disabled"))
		return "", false
	}
	id := chi.URLParam(r, "id")
	if err := errs.ValidateRunID(id); err != nil {
		s.writeError(w, err)
		return "", false
	}
	if err := runs.ValidateID(id); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "run id %q", id))
		return "", false
	}
	return id, true
}

func storeError(err error, id string) error {
	if errors.Is(err, runs.ErrNotFound) {
		return errs.Wrap(errs.ErrCodeNotFound, err, "run %s", id)
	}
	return errs.Wrap(errs.ErrCodeStorage, err, "run %s", id)
}

// statusOf maps an error to an HTTP status.
func statusOf(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	// A workspace failure decides the status however deeply it is wrapped.
	if errs.Has(err, errs.ErrCodeOutOfMemory) {
		return http.StatusInsufficientStorage
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidGraph, errs.ErrCodeInvalidArch,
		errs.ErrCodeInvalidStrategy, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidPath,
		errs.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := errs.UserMessage(err)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
