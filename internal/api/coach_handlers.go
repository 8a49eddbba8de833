package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/neurorecall/internal/validation"
)

type coachStateQuery struct {
	Energy string `json:"energy" validate:"omitempty,oneof=low medium high"`
	Focus  string `json:"focus" validate:"omitempty,oneof=distracted neutral focused"`
	Stress string `json:"stress" validate:"omitempty,oneof=low medium high"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Coach.Schedule(r.Context(), chi.URLParam(r, "difficulty"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

func (s *Server) handleCoachState(w http.ResponseWriter, r *http.Request) {
	hour, err := queryInt(r, "hour")
	if err != nil {
		handleError(w, r, err)
		return
	}
	q := r.URL.Query()
	in := coachStateQuery{
		Energy: strings.ToLower(q.Get("energy")),
		Focus:  strings.ToLower(q.Get("focus")),
		Stress: strings.ToLower(q.Get("stress")),
	}
	if err := validation.Struct(in, ""); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.Coach.Assess(r.Context(), hour, in.Energy, in.Focus, in.Stress)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleCoachSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Coach.Session(r.Context()))
}

func (s *Server) handleTechnique(w http.ResponseWriter, r *http.Request) {
	tech, err := s.Coach.Technique(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tech)
}
