package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"studynotes-server/internal/session"
	"studynotes-server/pkg/response"
)

type contextKey string

const (
	UserIDKey       contextKey = "userID"
	SessionTokenKey contextKey = "sessionToken"
)

// SessionToken pulls the opaque session token from the Authorization header
// (Bearer scheme) or, failing that, the session query parameter.
func SessionToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return r.URL.Query().Get("session")
}

// RequireAuth rejects requests without a live session. Expired and unknown
// tokens get distinct messages.
func RequireAuth(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				response.Unauthorized(w, "Authentication required")
				return
			}

			userID, err := sessions.Validate(token)
			if err != nil {
				if errors.Is(err, session.ErrExpired) {
					response.Unauthorized(w, "Session expired. Please sign in again.")
				} else {
					response.Unauthorized(w, "Invalid session. Please sign in again.")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, SessionTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a session when one is presented but lets anonymous
// requests through untouched. Uploads and catalog reads work either way.
func OptionalAuth(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token != "" {
				if userID, err := sessions.Validate(token); err == nil {
					ctx := context.WithValue(r.Context(), UserIDKey, userID)
					ctx = context.WithValue(ctx, SessionTokenKey, token)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetUserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func GetSessionToken(r *http.Request) string {
	token, ok := r.Context().Value(SessionTokenKey).(string)
	if !ok {
		return ""
	}
	return token
}
