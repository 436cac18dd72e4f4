package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"studynotes-server/internal/domain"
	"studynotes-server/internal/repository"
	"studynotes-server/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// previewLimit caps how much of a payload the preview endpoint returns.
const previewLimit = 100 * 1024

// NoteContent is a payload ready to stream back to the client.
type NoteContent struct {
	Name        string
	ContentType string
	Data        []byte
}

// PreviewResult carries either the leading bytes of the payload or, when the
// password gate denies a protected note, metadata plus a requires-password
// marker.
type PreviewResult struct {
	RequiresPassword bool
	Note             *domain.NoteResponse
	Content          *NoteContent
}

type NoteService struct {
	notes  repository.NoteRepository
	users  repository.UserRepository
	blobs  storage.BlobStore
	gate   AccessGate
	inline bool // embed payloads in the note record instead of the blob store
	log    zerolog.Logger
}

func NewNoteService(notes repository.NoteRepository, users repository.UserRepository, blobs storage.BlobStore, inline bool, log zerolog.Logger) *NoteService {
	return &NoteService{
		notes:  notes,
		users:  users,
		blobs:  blobs,
		inline: inline,
		log:    log,
	}
}

// Upload stores the payload and its metadata. ownerID may be empty:
// anonymous uploads are permitted and simply have no owner.
func (s *NoteService) Upload(ownerID string, req *domain.CreateNoteRequest, fileName string, data []byte) (*domain.NoteResponse, error) {
	subject := req.Subject
	if subject == "" {
		subject = "General"
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	note := &domain.Note{
		ID:                  uuid.New().String(),
		Title:               req.Title,
		Description:         req.Description,
		Subject:             subject,
		Tags:                tags,
		OriginalName:        fileName,
		FileSize:            int64(len(data)),
		FileType:            storage.DetectFileType(fileName, data),
		UploadedAt:          time.Now(),
		IsPasswordProtected: req.Password != "",
		Password:            req.Password,
		OwnerID:             ownerID,
	}

	if s.inline {
		note.Filename = fileName
		note.FileData = base64.StdEncoding.EncodeToString(data)
	} else {
		name, err := s.blobs.Save(fileName, data)
		if err != nil {
			return nil, fmt.Errorf("failed to store upload: %w", err)
		}
		note.Filename = name
	}

	if err := s.notes.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	// Attributing the note to its owner is a second, independent write; a
	// failure leaves the note in place and is only logged.
	if ownerID != "" {
		if err := s.users.AttachNote(ownerID, note.ID); err != nil {
			s.log.Warn().Err(err).Str("note", note.ID).Str("user", ownerID).Msg("failed to attach note to owner")
		}
	}

	return note.Response(), nil
}

// ListAll returns every note, newest first. Password-protected notes are
// listed with full metadata; only their payload is gated.
func (s *NoteService) ListAll() ([]*domain.NoteResponse, error) {
	notes, err := s.notes.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return domain.NoteResponses(notes), nil
}

func (s *NoteService) ListByOwner(userID string) ([]*domain.NoteResponse, error) {
	notes, err := s.notes.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return domain.NoteResponses(notes), nil
}

func (s *NoteService) Get(id string) (*domain.NoteResponse, error) {
	note, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return note.Response(), nil
}

// Update merges the provided fields into the note. Only the owner may edit.
// A new password is stored only when protection is enabled in the same
// request; merely disabling protection leaves the old password in place.
func (s *NoteService) Update(userID, id string, req *domain.UpdateNoteRequest) (*domain.NoteResponse, error) {
	note, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.AuthorizeOwner(note, userID); err != nil {
		return nil, err
	}

	if req.Subject != nil && *req.Subject == "" {
		defaultSubject := "General"
		req.Subject = &defaultSubject
	}
	protected := note.IsPasswordProtected
	if req.IsPasswordProtected != nil {
		protected = *req.IsPasswordProtected
	}
	if !protected || (req.Password != nil && *req.Password == "") {
		req.Password = nil
	}

	updated, err := s.notes.Update(id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return updated.Response(), nil
}

// Delete removes the note record and, best effort, its stored payload. The
// two deletions are independent; a leftover file is logged, not surfaced.
// The owner's note-ID list is deliberately left untouched.
func (s *NoteService) Delete(userID, id string) error {
	note, err := s.find(id)
	if err != nil {
		return err
	}

	if err := s.gate.AuthorizeOwner(note, userID); err != nil {
		return err
	}

	if !s.inline && note.Filename != "" {
		if err := s.blobs.Remove(note.Filename); err != nil {
			s.log.Warn().Err(err).Str("note", id).Str("file", note.Filename).Msg("failed to remove stored payload")
		}
	}

	if err := s.notes.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// Download returns the payload after the password gate admits the request.
// The download counter is bumped only once the bytes are in hand, and a
// failed bump never fails the download.
func (s *NoteService) Download(id, password string) (*NoteContent, error) {
	note, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.AuthorizePayload(note, password); err != nil {
		return nil, err
	}

	data, err := s.payload(note)
	if err != nil {
		return nil, err
	}

	if err := s.notes.IncrementDownloadCount(id); err != nil {
		s.log.Warn().Err(err).Str("note", id).Msg("failed to increment download count")
	}

	return &NoteContent{
		Name:        note.OriginalName,
		ContentType: note.FileType,
		Data:        data,
	}, nil
}

// VerifyPassword runs just the payload gate, for clients probing before a
// download.
func (s *NoteService) VerifyPassword(id, password string) error {
	note, err := s.find(id)
	if err != nil {
		return err
	}
	return s.gate.AuthorizePayload(note, password)
}

// Preview returns up to the first 100KiB of the payload. For a protected
// note with a missing or wrong password it degrades to metadata plus a
// requires-password marker instead of failing, and the download counter is
// not touched either way.
func (s *NoteService) Preview(id, password string) (*PreviewResult, error) {
	note, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.AuthorizePayload(note, password); err != nil {
		return &PreviewResult{
			RequiresPassword: true,
			Note:             note.Response(),
		}, nil
	}

	data, err := s.payload(note)
	if err != nil {
		return nil, err
	}
	if len(data) > previewLimit {
		data = data[:previewLimit]
	}

	return &PreviewResult{
		Note: note.Response(),
		Content: &NoteContent{
			Name:        "preview-" + note.OriginalName,
			ContentType: note.FileType,
			Data:        data,
		},
	}, nil
}

func (s *NoteService) find(id string) (*domain.Note, error) {
	note, err := s.notes.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return note, nil
}

func (s *NoteService) payload(note *domain.Note) ([]byte, error) {
	if note.FileData != "" {
		data, err := base64.StdEncoding.DecodeString(note.FileData)
		if err != nil {
			return nil, fmt.Errorf("failed to decode inline payload: %w", err)
		}
		return data, nil
	}

	data, err := s.blobs.Load(note.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load payload: %w", err)
	}
	return data, nil
}
