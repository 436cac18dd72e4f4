package repository

import (
	"sync"

	"studynotes-server/internal/domain"
)

type memoryUserRepository struct {
	mu    sync.Mutex
	users []*domain.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{}
}

func (r *memoryUserRepository) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrAlreadyExists
		}
	}

	copied := *user
	if copied.Notes == nil {
		copied.Notes = []string{}
	}
	r.users = append(r.users, &copied)
	return nil
}

func (r *memoryUserRepository) FindByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) FindByID(id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) AttachNote(userID, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ID == userID {
			user.Notes = append(user.Notes, noteID)
			return nil
		}
	}
	return ErrNotFound
}
