package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/neurorecall/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	if len(s.CORSOrigins) > 0 {
		r.Use(corsMiddleware(s.CORSOrigins))
	}
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewMethodNotAllowedError(r.Method, r.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/decks", func(r chi.Router) {
		r.Get("/", s.handleListDecks)
		r.Post("/", s.handleCreateDeck)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDeck)
			r.Delete("/", s.handleDeleteDeck)
			r.Get("/stats", s.handleDeckStats)
			r.Get("/due", s.handleDueCards)
			r.Post("/cards", s.handleCreateCard)
			r.Post("/import", s.handleImportCards)
		})
	})

	r.Route("/cards/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetCard)
		r.Delete("/", s.handleDeleteCard)
		r.Post("/review", s.handleReviewCard)
		r.Get("/preview", s.handlePreviewCard)
		r.Get("/history", s.handleCardHistory)
	})

	r.Get("/schedules/{difficulty}", s.handleSchedule)

	r.Route("/coach", func(r chi.Router) {
		r.Get("/state", s.handleCoachState)
		r.Get("/session", s.handleCoachSession)
		r.Get("/techniques/{type}", s.handleTechnique)
	})
	return r
}
