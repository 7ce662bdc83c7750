// Package session keeps one inquiry controller per site visitor.
package session

import (
	"context"

	"github.com/google/uuid"

	"moblind/internal/inquiry"
)

// Session is a visitor's server-side state.
type Session struct {
	ID         string
	Controller *inquiry.Controller
	// Flash is a notification waiting to be shown once.
	Flash *inquiry.Notification
	// Submitted counts accepted submits. It tells a retried submit apart
	// from a new one.
	Submitted uint64
}

// TakeFlash returns the pending notification and clears it.
func (s *Session) TakeFlash() *inquiry.Notification {
	n := s.Flash
	s.Flash = nil
	return n
}

// Store persists sessions between requests.
//
// Update loads the session for id (a fresh one with a closed controller if
// none exists), calls fn and saves the result. When fn returns an error
// nothing is saved and that error is returned unchanged. Updates to the same
// id are serialised.
type Store interface {
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Close() error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// record is the stored form of a Session.
type record struct {
	State     inquiry.State         `json:"state"`
	Flash     *inquiry.Notification `json:"flash,omitempty"`
	Submitted uint64                `json:"submitted,omitempty"`
}

func newRecord() record {
	return record{State: inquiry.NewController().Snapshot()}
}

func (r record) session(id string) *Session {
	return &Session{
		ID:         id,
		Controller: inquiry.Restore(r.State),
		Flash:      r.Flash,
		Submitted:  r.Submitted,
	}
}

func recordOf(s *Session) record {
	return record{State: s.Controller.Snapshot(), Flash: s.Flash, Submitted: s.Submitted}
}
