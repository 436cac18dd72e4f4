package service

import (
	"errors"
	"testing"

	"studynotes-server/internal/domain"
	"studynotes-server/internal/repository"
	"studynotes-server/internal/session"

	"github.com/rs/zerolog"
)

func newAuthService() (*AuthService, repository.NoteRepository) {
	notes := repository.NewMemoryNoteRepository()
	svc := NewAuthService(
		repository.NewMemoryUserRepository(),
		notes,
		session.NewStore(session.DefaultTTL),
		zerolog.Nop(),
	)
	return svc, notes
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuthService()

	resp, err := svc.Register(&domain.RegisterRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if resp.SessionID == "" {
		t.Error("Register() returned empty session ID")
	}
	if resp.User == nil || resp.User.Email != "a@x.com" {
		t.Errorf("Register() user = %+v", resp.User)
	}

	// The fresh session resolves straight back to the new user.
	profile, err := svc.Validate(resp.SessionID)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if profile.ID != resp.User.ID {
		t.Errorf("Validate() user ID = %q, want %q", profile.ID, resp.User.ID)
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.Register(&domain.RegisterRequest{Name: "A", Email: "a@x.com", Password: "password1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Register(&domain.RegisterRequest{Name: "B", Email: "a@x.com", Password: "password2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Register(duplicate) error = %v, want ErrEmailTaken", err)
	}

	// The original account is intact: its password still logs in.
	resp, err := svc.Login(&domain.LoginRequest{Email: "a@x.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User.Name != "A" {
		t.Errorf("Login() user name = %q, want the first registrant", resp.User.Name)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.Register(&domain.RegisterRequest{Name: "A", Email: "a@x.com", Password: "password1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name    string
		req     *domain.LoginRequest
		wantErr bool
	}{
		{
			name:    "successful login",
			req:     &domain.LoginRequest{Email: "a@x.com", Password: "password1"},
			wantErr: false,
		},
		{
			name:    "wrong password",
			req:     &domain.LoginRequest{Email: "a@x.com", Password: "nope"},
			wantErr: true,
		},
		{
			name:    "unknown email",
			req:     &domain.LoginRequest{Email: "b@x.com", Password: "password1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(tt.req)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if resp.SessionID == "" {
				t.Error("Login() returned empty session ID")
			}
		})
	}
}

func TestAuthService_LoginAdoptsOrphanNotes(t *testing.T) {
	svc, notes := newAuthService()

	resp, err := svc.Register(&domain.RegisterRequest{Name: "A", Email: "a@x.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := notes.Create(&domain.Note{ID: "n1", Title: "ownerless"}); err != nil {
		t.Fatalf("note seed error = %v", err)
	}

	if _, err := svc.Login(&domain.LoginRequest{Email: "a@x.com", Password: "password1"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	note, err := notes.FindByID("n1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if note.OwnerID != resp.User.ID {
		t.Errorf("orphan note ownerID = %q, want %q", note.OwnerID, resp.User.ID)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _ := newAuthService()

	resp, err := svc.Register(&domain.RegisterRequest{Name: "A", Email: "a@x.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	svc.Logout(resp.SessionID)

	if _, err := svc.Validate(resp.SessionID); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Validate() after logout error = %v, want session.ErrNotFound", err)
	}

	// Logout is idempotent.
	svc.Logout(resp.SessionID)
}

func TestAuthService_ResolveUserID(t *testing.T) {
	svc, _ := newAuthService()

	resp, err := svc.Register(&domain.RegisterRequest{Name: "A", Email: "a@x.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if got := svc.ResolveUserID(resp.SessionID); got != resp.User.ID {
		t.Errorf("ResolveUserID() = %q, want %q", got, resp.User.ID)
	}
	if got := svc.ResolveUserID(""); got != "" {
		t.Errorf("ResolveUserID(empty) = %q, want empty", got)
	}
	if got := svc.ResolveUserID("session_0_bogus"); got != "" {
		t.Errorf("ResolveUserID(bogus) = %q, want empty", got)
	}
}
