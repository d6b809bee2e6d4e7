package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rudranil/techstore/internal/store"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("api: encode response failed")
	}
}

// detail mirrors the error body shape the storefront UI expects.
func (s *Server) detail(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"detail": msg})
}

// storeError maps storage errors onto HTTP statuses.
func (s *Server) storeError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.detail(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrConflict):
		s.detail(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidRating):
		s.detail(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("api: storage failure")
		s.detail(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.detail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
