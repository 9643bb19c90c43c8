// Package store provides the transcript storage interface and SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/go-eliza/internal/model"
)

// TurnParams holds parameters for recording a turn.
type TurnParams struct {
	SessionID string
	Input     string
	Response  string
	Keyword   string
	Source    string
}

// EndParams holds parameters for closing a session.
type EndParams struct {
	SessionID   string
	Status      string
	InsultCount int
}

// ListParams holds parameters for listing sessions.
type ListParams struct {
	Lang   string
	Status string
	Limit  int
}

// Store defines the transcript storage interface.
type Store interface {
	// CreateSession opens a new session for the given language.
	CreateSession(ctx context.Context, lang string) (*model.Session, error)

	// AppendTurn records the next turn of an open session.
	AppendTurn(ctx context.Context, p TurnParams) (*model.Turn, error)

	// EndSession marks a session finished.
	EndSession(ctx context.Context, p EndParams) error

	// GetSession returns a session with its full transcript.
	GetSession(ctx context.Context, id string) (*model.Session, error)

	// ListSessions lists sessions, newest first.
	ListSessions(ctx context.Context, p ListParams) ([]model.Session, error)

	// Rm deletes a session and its turns.
	Rm(ctx context.Context, id string) error

	// Close closes the store.
	Close() error
}
