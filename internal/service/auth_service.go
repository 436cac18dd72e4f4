package service

import (
	"errors"
	"fmt"
	"time"

	"studynotes-server/internal/domain"
	"studynotes-server/internal/repository"
	"studynotes-server/internal/session"
	"studynotes-server/pkg/hash"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AuthService struct {
	users    repository.UserRepository
	notes    repository.NoteRepository
	sessions *session.Store
	log      zerolog.Logger
}

func NewAuthService(users repository.UserRepository, notes repository.NoteRepository, sessions *session.Store, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		notes:    notes,
		sessions: sessions,
		log:      log,
	}
}

func (s *AuthService) Register(req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	if _, err := s.users.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := hash.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
		Notes:     []string{},
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.startSession(user)
}

func (s *AuthService) Login(req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := hash.Compare(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Notes uploaded before accounts existed carry no owner; the first user
	// to sign in adopts them. Best effort, a failure never blocks the login.
	if adopted, err := s.notes.AdoptOrphans(user.ID); err != nil {
		s.log.Warn().Err(err).Str("user", user.ID).Msg("failed to adopt ownerless notes")
	} else if adopted > 0 {
		s.log.Info().Int("count", adopted).Str("user", user.ID).Msg("adopted ownerless notes")
	}

	return s.startSession(user)
}

func (s *AuthService) Logout(token string) {
	s.sessions.Destroy(token)
}

// Validate resolves a session token to the user it belongs to. Expired and
// unknown tokens surface as session.ErrExpired and session.ErrNotFound so
// the boundary can tell the caller which happened.
func (s *AuthService) Validate(token string) (*domain.UserProfile, error) {
	userID, err := s.sessions.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user.Profile(), nil
}

// ResolveUserID is the optional-auth variant of Validate: an empty or dead
// token yields an empty user ID instead of an error.
func (s *AuthService) ResolveUserID(token string) string {
	if token == "" {
		return ""
	}
	userID, err := s.sessions.Validate(token)
	if err != nil {
		return ""
	}
	return userID
}

func (s *AuthService) startSession(user *domain.User) (*domain.AuthResponse, error) {
	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.AuthResponse{
		User:      user.Profile(),
		SessionID: sess.Token,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}
