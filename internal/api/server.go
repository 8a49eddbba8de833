package api

import (
	"context"
	"time"

	"github.com/vytor/neurorecall/internal/services"
)

// Pinger reports whether the database answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Decks          services.DeckService
	Cards          services.CardService
	Coach          services.CoachService
	Imports        services.ImportService
	DB             Pinger
	RequestTimeout time.Duration
	CORSOrigins    []string
}
