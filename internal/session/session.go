// Package session holds per-user state between a summarize call and the
// questions that follow it.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// State is where a session is in the summarize/answer cycle.
type State string

const (
	StateEmpty      State = "empty"
	StateSummarized State = "summarized"
	StateAnswered   State = "answered"
)

var (
	// ErrNotFound means the id is unknown or the session expired.
	ErrNotFound = errors.New("session not found")
	// ErrNotSummarized means an answer was recorded before any summary.
	ErrNotSummarized = errors.New("session has no summary")
	// ErrStale means the context changed while an answer was being computed.
	ErrStale = errors.New("session context changed")
)

// Session is one user's summary, retained context and latest answer.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	// Revision changes whenever Context does.
	Revision  uint64    `json:"revision"`
	Source    string    `json:"source,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Context   string    `json:"context,omitempty"`
	Question  string    `json:"question,omitempty"`
	Answer    string    `json:"answer,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty session with a random id.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		State:     StateEmpty,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Summarized records a fresh extraction. Any earlier answer is cleared.
func (s *Session) Summarized(source, origin, summary, retained string, now time.Time) {
	s.State = StateSummarized
	s.Revision++
	s.Source = source
	s.Origin = origin
	s.Summary = summary
	s.Context = retained
	s.Question = ""
	s.Answer = ""
	s.LastError = ""
	s.UpdatedAt = now
}

// Failed records a summarize failure. The session loses its previous
// summary and context so later questions cannot use stale text.
func (s *Session) Failed(source, origin, message string, now time.Time) {
	s.State = StateEmpty
	s.Revision++
	s.Source = source
	s.Origin = origin
	s.Summary = ""
	s.Context = ""
	s.Question = ""
	s.Answer = ""
	s.LastError = message
	s.UpdatedAt = now
}

// Answered records the latest answer, computed from the context at
// revision. Only the most recent answer is kept.
func (s *Session) Answered(revision uint64, question, answer string, now time.Time) error {
	if s.State == StateEmpty {
		return ErrNotSummarized
	}
	if s.Revision != revision {
		return ErrStale
	}
	s.State = StateAnswered
	s.Question = question
	s.Answer = answer
	s.LastError = ""
	s.UpdatedAt = now
	return nil
}

// Store persists sessions. Implementations serialize Update calls per id.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	// Update loads the session, applies fn and saves the result atomically.
	// Nothing is saved when fn returns an error.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
