package storage

import (
	"bytes"
	"strings"
	"testing"
)

func TestDiskStore_RoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	payload := []byte("chapter one: introduction")
	name, err := store.Save("lecture-notes.txt", payload)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !strings.HasSuffix(name, "-lecture-notes.txt") {
		t.Errorf("Save() name = %q, want timestamped original name", name)
	}

	read, err := store.Load(name)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(read, payload) {
		t.Errorf("Load() = %q, want %q", read, payload)
	}
}

func TestDiskStore_Remove(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	name, err := store.Save("doomed.txt", []byte("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Remove(name); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := store.Load(name); err == nil {
		t.Error("Load() after Remove() should fail")
	}

	if err := store.Remove(name); err == nil {
		t.Error("Remove() twice should fail")
	}
}

func TestDiskStore_PathTraversalNeutralized(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	name, err := store.Save("../../escape.txt", []byte("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if strings.Contains(name, "..") {
		t.Errorf("Save() name = %q, traversal components should be stripped", name)
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{
			name:     "pdf by extension",
			filename: "syllabus.pdf",
			data:     []byte("%PDF-1.7"),
			want:     "application/pdf",
		},
		{
			name:     "docx by extension",
			filename: "essay.docx",
			data:     []byte("PK\x03\x04"),
			want:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		{
			name:     "png sniffed without extension",
			filename: "diagram",
			data:     []byte("\x89PNG\r\n\x1a\n"),
			want:     "image/png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFileType(tt.filename, tt.data); got != tt.want {
				t.Errorf("DetectFileType() = %q, want %q", got, tt.want)
			}
		})
	}
}
