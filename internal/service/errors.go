package service

import "errors"

var (
	// ErrUnauthorized means no valid session accompanied an owner-restricted
	// operation.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden means the caller is authenticated but is not the note's
	// owner.
	ErrForbidden = errors.New("not the owner of this note")
	// ErrInvalidPassword means a password-gated payload was requested with a
	// missing or wrong password. The message is deliberately specific.
	ErrInvalidPassword = errors.New("invalid password")

	ErrNoteNotFound = errors.New("note not found")
	ErrUserNotFound = errors.New("user not found")

	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
