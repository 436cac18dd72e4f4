package service

import "studynotes-server/internal/domain"

// AccessGate is the single policy check guarding note mutation and payload
// retrieval. Every failure is terminal for the request; there are no retry
// semantics.
type AccessGate struct{}

// AuthorizeOwner admits edit and delete operations. A missing session is
// Unauthorized; a session for anyone but the owner is Forbidden. Anonymous
// notes have no owner, so no session can pass this check for them.
func (AccessGate) AuthorizeOwner(note *domain.Note, userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if note.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

// AuthorizePayload admits download and preview operations. Protected notes
// require an exact match against the stored password; unprotected notes
// admit everyone.
func (AccessGate) AuthorizePayload(note *domain.Note, password string) error {
	if note.IsPasswordProtected && note.Password != password {
		return ErrInvalidPassword
	}
	return nil
}
