package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"studynotes-server/internal/domain"
	"studynotes-server/internal/middleware"
	"studynotes-server/internal/service"
	"studynotes-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type NoteHandler struct {
	service   *service.NoteService
	validate  *validator.Validate
	maxUpload int64
}

func NewNoteHandler(service *service.NoteService, maxUpload int64) *NoteHandler {
	return &NoteHandler{
		service:   service,
		validate:  validator.New(),
		maxUpload: maxUpload,
	}
}

// Create accepts a multipart upload. A session is optional: anonymous
// uploads are permitted and carry no owner.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		response.BadRequest(w, "Invalid multipart payload")
		return
	}

	req := domain.CreateNoteRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Subject:     r.FormValue("subject"),
		Tags:        splitTags(r.FormValue("tags")),
		Password:    r.FormValue("password"),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Title, description, and file are required")
		return
	}
	defer file.Close()

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "Title, description, and file are required")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded file")
		return
	}

	note, err := h.service.Upload(middleware.GetUserID(r), &req, header.Filename, data)
	if err != nil {
		response.InternalError(w, "Failed to upload note")
		return
	}

	response.Created(w, note)
}

// List returns the public catalog: every note's metadata, newest first,
// protected or not.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListAll()
	if err != nil {
		response.InternalError(w, "Failed to fetch notes")
		return
	}
	response.Success(w, notes)
}

func (h *NoteHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListByOwner(middleware.GetUserID(r))
	if err != nil {
		response.InternalError(w, "Failed to fetch notes")
		return
	}
	response.Success(w, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Get(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err, "Failed to fetch note")
		return
	}
	response.Success(w, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	note, err := h.service.Update(middleware.GetUserID(r), mux.Vars(r)["id"], &req)
	if err != nil {
		h.writeError(w, err, "Failed to update note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err, "Failed to delete note")
		return
	}
	response.Message(w, "Note deleted successfully")
}

// Download streams the payload. The note's password, when set, travels as a
// query parameter; a successful read bumps the download counter.
func (h *NoteHandler) Download(w http.ResponseWriter, r *http.Request) {
	content, err := h.service.Download(mux.Vars(r)["id"], r.URL.Query().Get("password"))
	if err != nil {
		h.writeError(w, err, "Failed to download note")
		return
	}

	writeContent(w, content, "attachment")
}

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyPassword lets a client probe the gate before committing to a
// download. It never touches the counter.
func (h *NoteHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req verifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.service.VerifyPassword(mux.Vars(r)["id"], req.Password); err != nil {
		h.writeError(w, err, "Failed to verify password")
		return
	}

	response.Message(w, "Access granted")
}

// Preview returns the leading bytes of the payload inline, or metadata with
// a requires-password marker when the gate denies a protected note.
func (h *NoteHandler) Preview(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Preview(mux.Vars(r)["id"], r.URL.Query().Get("password"))
	if err != nil {
		h.writeError(w, err, "Failed to preview note")
		return
	}

	if result.RequiresPassword {
		response.Success(w, map[string]interface{}{
			"note":             result.Note,
			"requiresPassword": true,
		})
		return
	}

	writeContent(w, result.Content, "inline")
}

func (h *NoteHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		response.NotFound(w, "Note not found")
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(w, "Authentication required")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(w, "You do not own this note")
	case errors.Is(err, service.ErrInvalidPassword):
		response.Forbidden(w, "Access denied. Invalid password.")
	default:
		response.InternalError(w, fallback)
	}
}

func writeContent(w http.ResponseWriter, content *service.NoteContent, disposition string) {
	contentType := content.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, content.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(content.Data)
}

func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
