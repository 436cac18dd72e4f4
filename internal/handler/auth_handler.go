package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"studynotes-server/internal/domain"
	"studynotes-server/internal/middleware"
	"studynotes-server/internal/service"
	"studynotes-server/internal/session"
	"studynotes-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	service  *service.AuthService
	validate *validator.Validate
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "Name, email, and password are required")
		return
	}

	resp, err := h.service.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(w, "User already exists")
			return
		}
		response.InternalError(w, "Registration failed")
		return
	}

	response.Success(w, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "Email and password are required")
		return
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		response.InternalError(w, "Login failed")
		return
	}

	response.Success(w, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		h.service.Logout(token)
	}
	response.Message(w, "Logged out")
}

type validateRequest struct {
	SessionID string `json:"sessionId"`
}

// Validate resolves a session token to the user behind it. Expired and
// unknown sessions are reported with distinct messages.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.SessionID == "" {
		req.SessionID = middleware.SessionToken(r)
	}

	if req.SessionID == "" {
		response.BadRequest(w, "Session ID is required")
		return
	}

	profile, err := h.service.Validate(req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrExpired):
			response.Unauthorized(w, "Session expired. Please sign in again.")
		case errors.Is(err, session.ErrNotFound):
			response.Unauthorized(w, "Invalid session. Please sign in again.")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalError(w, "Session validation failed")
		}
		return
	}

	response.Success(w, map[string]interface{}{"user": profile})
}
