package repository

import (
	"sync"

	"studynotes-server/internal/domain"
)

// memoryNoteRepository is the in-process fallback used when no database is
// configured or a database operation fails. Insertion order is preserved;
// listings reverse it so the newest upload comes first.
type memoryNoteRepository struct {
	mu    sync.Mutex
	notes []*domain.Note
}

func NewMemoryNoteRepository() NoteRepository {
	return &memoryNoteRepository{}
}

func (r *memoryNoteRepository) Create(note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *note
	r.notes = append(r.notes, &copied)
	return nil
}

func (r *memoryNoteRepository) FindByID(id string) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note := r.findLocked(id)
	if note == nil {
		return nil, ErrNotFound
	}

	copied := *note
	return &copied, nil
}

func (r *memoryNoteRepository) ListAll() ([]*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notes := make([]*domain.Note, 0, len(r.notes))
	for i := len(r.notes) - 1; i >= 0; i-- {
		copied := *r.notes[i]
		notes = append(notes, &copied)
	}
	return notes, nil
}

func (r *memoryNoteRepository) ListByOwner(ownerID string) ([]*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var notes []*domain.Note
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].OwnerID == ownerID {
			copied := *r.notes[i]
			notes = append(notes, &copied)
		}
	}
	return notes, nil
}

func (r *memoryNoteRepository) Update(id string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note := r.findLocked(id)
	if note == nil {
		return nil, ErrNotFound
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Description != nil {
		note.Description = *req.Description
	}
	if req.Subject != nil {
		note.Subject = *req.Subject
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
	}
	if req.IsPasswordProtected != nil {
		note.IsPasswordProtected = *req.IsPasswordProtected
	}
	if req.Password != nil {
		note.Password = *req.Password
	}

	copied := *note
	return &copied, nil
}

func (r *memoryNoteRepository) IncrementDownloadCount(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note := r.findLocked(id)
	if note == nil {
		return ErrNotFound
	}

	note.DownloadCount++
	return nil
}

func (r *memoryNoteRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, note := range r.notes {
		if note.ID == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryNoteRepository) AdoptOrphans(ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	adopted := 0
	for _, note := range r.notes {
		if note.OwnerID == "" {
			note.OwnerID = ownerID
			adopted++
		}
	}
	return adopted, nil
}

func (r *memoryNoteRepository) findLocked(id string) *domain.Note {
	for _, note := range r.notes {
		if note.ID == id {
			return note
		}
	}
	return nil
}
