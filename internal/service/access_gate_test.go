package service

import (
	"errors"
	"testing"

	"studynotes-server/internal/domain"
)

func TestAccessGate_AuthorizeOwner(t *testing.T) {
	gate := AccessGate{}
	owned := &domain.Note{ID: "n1", OwnerID: "u1"}
	anonymous := &domain.Note{ID: "n2"}

	tests := []struct {
		name    string
		note    *domain.Note
		userID  string
		wantErr error
	}{
		{name: "owner admitted", note: owned, userID: "u1", wantErr: nil},
		{name: "no session", note: owned, userID: "", wantErr: ErrUnauthorized},
		{name: "different user", note: owned, userID: "u2", wantErr: ErrForbidden},
		{name: "anonymous note has no owner", note: anonymous, userID: "u1", wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.AuthorizeOwner(tt.note, tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AuthorizeOwner() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccessGate_AuthorizePayload(t *testing.T) {
	gate := AccessGate{}
	open := &domain.Note{ID: "n1"}
	protected := &domain.Note{ID: "n2", IsPasswordProtected: true, Password: "secret"}

	tests := []struct {
		name     string
		note     *domain.Note
		password string
		wantErr  error
	}{
		{name: "open note without password", note: open, password: "", wantErr: nil},
		{name: "open note ignores password", note: open, password: "anything", wantErr: nil},
		{name: "correct password", note: protected, password: "secret", wantErr: nil},
		{name: "wrong password", note: protected, password: "Secret", wantErr: ErrInvalidPassword},
		{name: "missing password", note: protected, password: "", wantErr: ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.AuthorizePayload(tt.note, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AuthorizePayload() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
