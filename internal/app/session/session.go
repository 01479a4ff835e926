/*
Package session holds the explicit handles for cobrowse sessions.

A customer starts a session and receives a PIN; an agent joins it with that PIN. Each session is
an independent value owned by whoever holds its PIN; there is no process-wide "current session".
*/
package session

import (
	"context"
	"errors"
	"time"
)

// State is the lifecycle stage of a session.
type State string

const (
	// StatePending means the customer is waiting for an agent.
	StatePending State = "pending"

	// StateActive means an agent has joined with the PIN.
	StateActive State = "active"
)

var (
	// ErrNotFound is returned when no live session matches a PIN.
	ErrNotFound = errors.New("session not found")

	// ErrPINExists is returned by Create when the PIN is already used by a live session.
	ErrPINExists = errors.New("session pin already in use")

	// ErrAlreadyActive is returned by Activate when an agent has already joined.
	ErrAlreadyActive = errors.New("session already active")
)

// Session is the server-side record behind a PIN.
type Session struct {
	ID         string    `json:"id"`
	PIN        string    `json:"pin"`
	State      State     `json:"state"`
	CustomerID string    `json:"customer_id"`
	AgentID    string    `json:"agent_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// activate applies the pending to active transition in place.
func (s *Session) activate(agentID string) error {
	if s.State != StatePending {
		return ErrAlreadyActive
	}
	s.State = StateActive
	s.AgentID = agentID
	return nil
}

// HasParticipant reports whether userID is the customer or the agent of the session.
func (s *Session) HasParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	return userID == s.CustomerID || userID == s.AgentID
}

// Store persists sessions keyed by PIN. Implementations must be safe for concurrent use.
type Store interface {
	// Create stores a new session, failing with ErrPINExists on a live PIN collision.
	Create(ctx context.Context, s *Session) error

	// Get returns the live session for pin or ErrNotFound.
	Get(ctx context.Context, pin string) (*Session, error)

	// Activate atomically moves a pending session to active and records the agent.
	// It fails with ErrNotFound or ErrAlreadyActive.
	Activate(ctx context.Context, pin, agentID string) (*Session, error)

	// Delete removes the session for pin, failing with ErrNotFound if there is none.
	Delete(ctx context.Context, pin string) error

	// Close releases resources held by the store.
	Close() error
}
