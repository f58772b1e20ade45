package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/buildinfo"
	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
	"github.com/AaronLge/GeometrieConverter/pkg/storage"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// assembleRequest is the POST /api/v1/assemble body: the three structure
// bundles plus run options. Decisions must be preset in the options.
type assembleRequest struct {
	assembly.Inputs
	Options assembly.Options `json:"options"`
}

// assembleResponse tags the run result with an id for log correlation.
type assembleResponse struct {
	RunID string `json:"run_id"`
	*assembly.Result
}

func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	var req assembleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	req.Options.Confirm = nil // no interactive channel over HTTP

	res, err := s.runner.Execute(r.Context(), req.Inputs, req.Options)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, assembleResponse{RunID: uuid.NewString(), Result: res})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, err := storage.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	entries, err := s.store.List(r.Context(), kind)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if entries == nil {
		entries = []storage.Entry{}
	}
	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	kind, err := storage.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	var b structure.Bundle
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	if err := s.store.Save(r.Context(), kind, b); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"identifier": b.Meta.Identifier})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, err := storage.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	b, err := s.store.Get(r.Context(), kind, pathIdentifier(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	kind, err := storage.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	id := pathIdentifier(r)
	var b structure.Bundle
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	if b.Meta.Identifier == "" {
		b.Meta.Identifier = id
	}
	if err := s.store.Replace(r.Context(), kind, id, b); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"identifier": b.Meta.Identifier})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, err := storage.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), kind, pathIdentifier(r)); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathIdentifier reads the identifier URL parameter. chi leaves escapes in
// place, so identifiers with spaces arrive percent-encoded.
func pathIdentifier(r *http.Request) string {
	id := chi.URLParam(r, "identifier")
	if dec, err := url.PathUnescape(id); err == nil {
		return dec
	}
	return id
}

// apiError is the JSON error body, keyed under "error".
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	s.respondJSON(w, status, map[string]apiError{
		"error": {Code: string(code), Message: errs.UserMessage(err)},
	})
}

// statusFor maps pipeline and storage error codes onto HTTP statuses.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeReferenceConflict, errs.ErrCodeDuplicateIdentifier:
		return http.StatusConflict
	case errs.ErrCodeJunctionGap, errs.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeStorage, errs.ErrCodeInternal, "":
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}
