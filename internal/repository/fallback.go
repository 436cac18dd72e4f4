package repository

import (
	"errors"

	"studynotes-server/internal/domain"

	"github.com/rs/zerolog"
)

// The fallback repositories wrap a database-backed primary and an in-memory
// stand-in behind the same interface. Every operation is tried against the
// primary first; on a backend failure that single operation is redirected to
// the memory store with a warning, and no retry is made against the
// database. Definitive outcomes (not found, already exists) are results, not
// failures, and never trigger the redirect. With a nil primary the memory
// store serves everything, which keeps the server usable with no database
// configured at all.

func backendFailed(err error) bool {
	return err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrAlreadyExists)
}

type FallbackNoteRepository struct {
	primary NoteRepository // nil when the database is not configured
	memory  NoteRepository
	log     zerolog.Logger
}

func NewFallbackNoteRepository(primary NoteRepository, log zerolog.Logger) *FallbackNoteRepository {
	return &FallbackNoteRepository{
		primary: primary,
		memory:  NewMemoryNoteRepository(),
		log:     log,
	}
}

func (r *FallbackNoteRepository) redirect(op string, err error) {
	r.log.Warn().Err(err).Str("op", op).Msg("database operation failed, using in-memory store")
}

func (r *FallbackNoteRepository) Create(note *domain.Note) error {
	if r.primary != nil {
		err := r.primary.Create(note)
		if !backendFailed(err) {
			return err
		}
		r.redirect("note.create", err)
	}
	return r.memory.Create(note)
}

func (r *FallbackNoteRepository) FindByID(id string) (*domain.Note, error) {
	if r.primary != nil {
		note, err := r.primary.FindByID(id)
		if !backendFailed(err) {
			return note, err
		}
		r.redirect("note.find", err)
	}
	return r.memory.FindByID(id)
}

func (r *FallbackNoteRepository) ListAll() ([]*domain.Note, error) {
	if r.primary != nil {
		notes, err := r.primary.ListAll()
		if !backendFailed(err) {
			return notes, err
		}
		r.redirect("note.list", err)
	}
	return r.memory.ListAll()
}

func (r *FallbackNoteRepository) ListByOwner(ownerID string) ([]*domain.Note, error) {
	if r.primary != nil {
		notes, err := r.primary.ListByOwner(ownerID)
		if !backendFailed(err) {
			return notes, err
		}
		r.redirect("note.listByOwner", err)
	}
	return r.memory.ListByOwner(ownerID)
}

func (r *FallbackNoteRepository) Update(id string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	if r.primary != nil {
		note, err := r.primary.Update(id, req)
		if !backendFailed(err) {
			return note, err
		}
		r.redirect("note.update", err)
	}
	return r.memory.Update(id, req)
}

func (r *FallbackNoteRepository) IncrementDownloadCount(id string) error {
	if r.primary != nil {
		err := r.primary.IncrementDownloadCount(id)
		if !backendFailed(err) {
			return err
		}
		r.redirect("note.incrementDownloadCount", err)
	}
	return r.memory.IncrementDownloadCount(id)
}

func (r *FallbackNoteRepository) Delete(id string) error {
	if r.primary != nil {
		err := r.primary.Delete(id)
		if !backendFailed(err) {
			return err
		}
		r.redirect("note.delete", err)
	}
	return r.memory.Delete(id)
}

func (r *FallbackNoteRepository) AdoptOrphans(ownerID string) (int, error) {
	if r.primary != nil {
		adopted, err := r.primary.AdoptOrphans(ownerID)
		if !backendFailed(err) {
			return adopted, err
		}
		r.redirect("note.adoptOrphans", err)
	}
	return r.memory.AdoptOrphans(ownerID)
}

type FallbackUserRepository struct {
	primary UserRepository // nil when the database is not configured
	memory  UserRepository
	log     zerolog.Logger
}

func NewFallbackUserRepository(primary UserRepository, log zerolog.Logger) *FallbackUserRepository {
	return &FallbackUserRepository{
		primary: primary,
		memory:  NewMemoryUserRepository(),
		log:     log,
	}
}

func (r *FallbackUserRepository) redirect(op string, err error) {
	r.log.Warn().Err(err).Str("op", op).Msg("database operation failed, using in-memory store")
}

func (r *FallbackUserRepository) Create(user *domain.User) error {
	if r.primary != nil {
		err := r.primary.Create(user)
		if !backendFailed(err) {
			return err
		}
		r.redirect("user.create", err)
	}
	return r.memory.Create(user)
}

func (r *FallbackUserRepository) FindByEmail(email string) (*domain.User, error) {
	if r.primary != nil {
		user, err := r.primary.FindByEmail(email)
		if !backendFailed(err) {
			return user, err
		}
		r.redirect("user.findByEmail", err)
	}
	return r.memory.FindByEmail(email)
}

func (r *FallbackUserRepository) FindByID(id string) (*domain.User, error) {
	if r.primary != nil {
		user, err := r.primary.FindByID(id)
		if !backendFailed(err) {
			return user, err
		}
		r.redirect("user.findByID", err)
	}
	return r.memory.FindByID(id)
}

func (r *FallbackUserRepository) AttachNote(userID, noteID string) error {
	if r.primary != nil {
		err := r.primary.AttachNote(userID, noteID)
		if !backendFailed(err) {
			return err
		}
		r.redirect("user.attachNote", err)
	}
	return r.memory.AttachNote(userID, noteID)
}
