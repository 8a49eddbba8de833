package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/neurorecall/internal/errors"
)

const readinessTimeout = 2 * time.Second

type statusResponse struct {
	Status string `json:"status"`
}

// handleHealth is the liveness probe. It never touches the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, statusResponse{Status: "ok"})
}

// handleReady reports 503 until the database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		handleError(w, r, errors.NewUnavailableError("database not configured", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		handleError(w, r, errors.NewUnavailableError("database unavailable", err))
		return
	}
	writeJSON(w, r, http.StatusOK, statusResponse{Status: "ready"})
}
