// Package screens holds what the exam screens share.
package screens

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/session"
)

// Env carries the collaborators the screens need. It is built once by the
// app and passed down the screen chain.
type Env struct {
	Client    api.Client
	Logger    *slog.Logger
	AttemptID string

	// AIChecks enables the debounced AI-usage hint on free-text answers.
	AIChecks   bool
	CheckDelay time.Duration
	MinChars   int

	// RequestTimeout bounds each backend call issued from a screen.
	// Zero leaves it to the client.
	RequestTimeout time.Duration
}

// NewEnv returns an Env with default hint settings.
func NewEnv(client api.Client) *Env {
	return &Env{
		Client:     client,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		AIChecks:   true,
		CheckDelay: session.DefaultCheckDelay,
		MinChars:   session.DefaultMinChars,
	}
}

// Context returns a context for one backend call.
func (e *Env) Context() (context.Context, context.CancelFunc) {
	if e.RequestTimeout > 0 {
		return context.WithTimeout(context.Background(), e.RequestTimeout)
	}
	return context.WithCancel(context.Background())
}
