package repository

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"studynotes-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type NoteRepository interface {
	Create(note *domain.Note) error
	FindByID(id string) (*domain.Note, error)
	ListAll() ([]*domain.Note, error)
	ListByOwner(ownerID string) ([]*domain.Note, error)
	Update(id string, req *domain.UpdateNoteRequest) (*domain.Note, error)
	IncrementDownloadCount(id string) error
	Delete(id string) error
	AdoptOrphans(ownerID string) (int, error)
}

type couchNoteRepository struct {
	client *kivik.Client
	dbName string
}

func NewCouchNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &couchNoteRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *couchNoteRepository) Create(note *domain.Note) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("note:%s", note.ID)
	_, err := db.Put(context.Background(), docID, note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *couchNoteRepository) FindByID(id string) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("note:%s", id)
	row := db.Get(context.Background(), docID)

	var note domain.Note
	if err := row.ScanDoc(&note); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return &note, nil
}

func (r *couchNoteRepository) ListAll() ([]*domain.Note, error) {
	return r.list(map[string]interface{}{
		"filename": map[string]interface{}{"$exists": true},
	})
}

func (r *couchNoteRepository) ListByOwner(ownerID string) ([]*domain.Note, error) {
	return r.list(map[string]interface{}{
		"filename": map[string]interface{}{"$exists": true},
		"ownerId":  ownerID,
	})
}

func (r *couchNoteRepository) list(selector map[string]interface{}) ([]*domain.Note, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": selector,
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.ScanDoc(&note); err != nil {
			continue
		}
		notes = append(notes, &note)
	}

	// Newest first.
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UploadedAt.After(notes[j].UploadedAt)
	})

	return notes, nil
}

func (r *couchNoteRepository) Update(id string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("note:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch note for update: %w", err)
	}

	if req.Title != nil {
		existingDoc["title"] = *req.Title
	}
	if req.Description != nil {
		existingDoc["description"] = *req.Description
	}
	if req.Subject != nil {
		existingDoc["subject"] = *req.Subject
	}
	if req.Tags != nil {
		existingDoc["tags"] = *req.Tags
	}
	if req.IsPasswordProtected != nil {
		existingDoc["isPasswordProtected"] = *req.IsPasswordProtected
	}
	if req.Password != nil {
		existingDoc["password"] = *req.Password
	}

	if _, err := db.Put(context.Background(), docID, existingDoc); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return r.FindByID(id)
}

func (r *couchNoteRepository) IncrementDownloadCount(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("note:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note for counter update: %w", err)
	}

	count, _ := existingDoc["downloadCount"].(float64)
	existingDoc["downloadCount"] = int64(count) + 1

	if _, err := db.Put(context.Background(), docID, existingDoc); err != nil {
		return fmt.Errorf("failed to update download count: %w", err)
	}

	return nil
}

func (r *couchNoteRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("note:%s", id)

	row := db.Get(context.Background(), docID)
	var existingDoc map[string]interface{}
	if err := row.ScanDoc(&existingDoc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note for delete: %w", err)
	}

	rev, _ := existingDoc["_rev"].(string)
	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

func (r *couchNoteRepository) AdoptOrphans(ownerID string) (int, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"filename": map[string]interface{}{"$exists": true},
			"ownerId":  map[string]interface{}{"$exists": false},
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to query orphan notes: %w", err)
	}
	defer rows.Close()

	adopted := 0
	for rows.Next() {
		var doc map[string]interface{}
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}

		doc["ownerId"] = ownerID
		docID, _ := doc["_id"].(string)
		if _, err := db.Put(context.Background(), docID, doc); err != nil {
			continue
		}
		adopted++
	}

	return adopted, nil
}
