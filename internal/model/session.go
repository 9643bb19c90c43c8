// Package model defines the transcript data types.
package model

import "time"

// Session is one conversation, from greeting to quit, crash or reboot.
type Session struct {
	ID          string     `json:"id"`
	Lang        string     `json:"lang"`
	Status      string     `json:"status"`
	InsultCount int        `json:"insult_count"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	TurnCount   int        `json:"turns"`
	Turns       []Turn     `json:"transcript,omitempty"`
}

// Turn is one user input and the reply it produced.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Input     string    `json:"input"`
	Response  string    `json:"response"`
	Keyword   string    `json:"keyword,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Session statuses.
const (
	StatusOpen       = "open"
	StatusQuit       = "quit"
	StatusTerminated = "terminated"
	StatusRebooted   = "rebooted"
	StatusClosed     = "closed"
)

// ValidStatuses are the allowed end states of a session.
var ValidStatuses = map[string]bool{
	StatusQuit:       true,
	StatusTerminated: true,
	StatusRebooted:   true,
	StatusClosed:     true,
}
