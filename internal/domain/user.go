package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"` // Stored hash, stripped from responses
	CreatedAt time.Time `json:"createdAt"`
	Notes     []string  `json:"notes"` // IDs of notes uploaded by this user
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	User      *UserProfile `json:"user"`
	SessionID string       `json:"sessionId"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
