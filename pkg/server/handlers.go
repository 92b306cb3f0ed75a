package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/export"
	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
	"github.com/dd0wney/cluso-rdfgraph/pkg/validation"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 4 << 20

// FocusResponse is a converted focus subgraph ready for rendering
type FocusResponse struct {
	Session  string           `json:"session"`
	Triples  int              `json:"triples"`
	Nodes    int              `json:"nodes"`
	Edges    int              `json:"edges"`
	Document *export.Document `json:"document"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, viewResponse(s.dataset.Snapshot()))
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	snap := s.dataset.Snapshot()
	s.respondJSON(w, http.StatusOK, CountsResponse{
		Types:      countResponses(snap.Types),
		Predicates: countResponses(snap.Predicates),
	})
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	labelled, err := boolParam(r, "labelled")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	compress, err := boolParam(r, "compress")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.dataset.Document(labelled)
	if errors.Is(err, export.ErrNoView) {
		s.respondError(w, http.StatusUnprocessableEntity, "current selection has no view")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "render elements"))
		return
	}

	if !compress {
		s.respondJSON(w, http.StatusOK, doc)
		return
	}
	data, err := export.Encode(doc, true)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "encode elements"))
		return
	}
	w.Header().Set("Content-Type", "application/x-snappy")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req validation.SelectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validation.ValidateSelectionRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.dataset.Apply(visibility.SelectionEvent{Types: req.Types, Predicates: req.Predicates})
	if errors.Is(err, visibility.ErrPaletteExhausted) {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "apply selection"))
		return
	}
	s.respondJSON(w, http.StatusOK, viewResponse(snap))
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	var req validation.FocusRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validation.ValidateFocusRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, doc, err := s.dataset.FocusDocument(r.Context(), req.Seeds, false)
	switch {
	case errors.Is(err, dataset.ErrNotLoaded):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, visibility.ErrPaletteExhausted):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "focus"))
		return
	}

	g := session.Graph
	s.respondJSON(w, http.StatusOK, FocusResponse{
		Session:  session.ID,
		Triples:  session.Triples,
		Nodes:    g.NodeCount(),
		Edges:    g.EdgeCount(),
		Document: doc,
	})
}

// decode reads a JSON body into v, answering 400 itself on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return v, nil
}

// sanitizeError logs err and returns a message without internal detail
func (s *Server) sanitizeError(err error, operation string) string {
	s.logger.Error(operation+" failed", logging.Error(err))
	return operation + " failed"
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
