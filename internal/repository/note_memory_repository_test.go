package repository

import (
	"errors"
	"testing"
	"time"

	"studynotes-server/internal/domain"
)

func seedNote(t *testing.T, repo NoteRepository, id, title, ownerID string) *domain.Note {
	t.Helper()
	note := &domain.Note{
		ID:         id,
		Title:      title,
		Subject:    "General",
		OwnerID:    ownerID,
		UploadedAt: time.Now(),
	}
	if err := repo.Create(note); err != nil {
		t.Fatalf("Create(%s) error = %v", id, err)
	}
	return note
}

func TestMemoryNoteRepository_ListAllNewestFirst(t *testing.T) {
	repo := NewMemoryNoteRepository()

	seedNote(t, repo, "n1", "first", "")
	seedNote(t, repo, "n2", "second", "")
	seedNote(t, repo, "n3", "third", "")

	notes, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}

	if len(notes) != 3 {
		t.Fatalf("ListAll() returned %d notes, want 3", len(notes))
	}

	want := []string{"n3", "n2", "n1"}
	for i, id := range want {
		if notes[i].ID != id {
			t.Errorf("ListAll()[%d] = %s, want %s", i, notes[i].ID, id)
		}
	}
}

func TestMemoryNoteRepository_ListByOwner(t *testing.T) {
	repo := NewMemoryNoteRepository()

	seedNote(t, repo, "n1", "mine", "user-1")
	seedNote(t, repo, "n2", "theirs", "user-2")
	seedNote(t, repo, "n3", "also mine", "user-1")
	seedNote(t, repo, "n4", "anonymous", "")

	notes, err := repo.ListByOwner("user-1")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}

	if len(notes) != 2 {
		t.Fatalf("ListByOwner() returned %d notes, want 2", len(notes))
	}
	if notes[0].ID != "n3" || notes[1].ID != "n1" {
		t.Errorf("ListByOwner() order = [%s %s], want [n3 n1]", notes[0].ID, notes[1].ID)
	}
}

func TestMemoryNoteRepository_UpdateMergesPartial(t *testing.T) {
	repo := NewMemoryNoteRepository()

	seedNote(t, repo, "n1", "old title", "user-1")

	newTitle := "new title"
	updated, err := repo.Update("n1", &domain.UpdateNoteRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Title != "new title" {
		t.Errorf("Update() title = %q, want %q", updated.Title, "new title")
	}
	if updated.Subject != "General" {
		t.Errorf("Update() subject changed unexpectedly to %q", updated.Subject)
	}
	if updated.OwnerID != "user-1" {
		t.Errorf("Update() ownerID changed unexpectedly to %q", updated.OwnerID)
	}
}

func TestMemoryNoteRepository_ProtectionToggleKeepsPassword(t *testing.T) {
	repo := NewMemoryNoteRepository()
	seedNote(t, repo, "n1", "protected", "user-1")

	enable, password := true, "secret"
	if _, err := repo.Update("n1", &domain.UpdateNoteRequest{IsPasswordProtected: &enable, Password: &password}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	disable := false
	updated, err := repo.Update("n1", &domain.UpdateNoteRequest{IsPasswordProtected: &disable})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.IsPasswordProtected {
		t.Error("protection should be disabled")
	}
	if updated.Password != "secret" {
		t.Errorf("stored password = %q, want it retained as %q", updated.Password, "secret")
	}
}

func TestMemoryNoteRepository_IncrementDownloadCount(t *testing.T) {
	repo := NewMemoryNoteRepository()
	seedNote(t, repo, "n1", "counted", "")

	for i := 0; i < 3; i++ {
		if err := repo.IncrementDownloadCount("n1"); err != nil {
			t.Fatalf("IncrementDownloadCount() error = %v", err)
		}
	}

	note, err := repo.FindByID("n1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if note.DownloadCount != 3 {
		t.Errorf("downloadCount = %d, want 3", note.DownloadCount)
	}

	if err := repo.IncrementDownloadCount("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("IncrementDownloadCount(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryNoteRepository_Delete(t *testing.T) {
	repo := NewMemoryNoteRepository()
	seedNote(t, repo, "n1", "doomed", "")

	if err := repo.Delete("n1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.FindByID("n1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete("n1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestMemoryNoteRepository_AdoptOrphans(t *testing.T) {
	repo := NewMemoryNoteRepository()

	seedNote(t, repo, "n1", "orphan", "")
	seedNote(t, repo, "n2", "owned", "user-2")
	seedNote(t, repo, "n3", "orphan too", "")

	adopted, err := repo.AdoptOrphans("user-1")
	if err != nil {
		t.Fatalf("AdoptOrphans() error = %v", err)
	}
	if adopted != 2 {
		t.Errorf("AdoptOrphans() = %d, want 2", adopted)
	}

	note, _ := repo.FindByID("n1")
	if note.OwnerID != "user-1" {
		t.Errorf("orphan ownerID = %q, want user-1", note.OwnerID)
	}

	note, _ = repo.FindByID("n2")
	if note.OwnerID != "user-2" {
		t.Errorf("owned note reassigned to %q", note.OwnerID)
	}
}
