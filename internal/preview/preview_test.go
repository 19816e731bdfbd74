package preview

import (
	"os"
	"strings"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := m.Acquire(strings.NewReader("image-bytes"), "coat.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Path() == "" {
		t.Fatal("expected a backing path")
	}
	if !strings.HasSuffix(h.Path(), ".png") {
		t.Errorf("expected extension from hint, got %q", h.Path())
	}

	data, err := os.ReadFile(h.Path())
	if err != nil {
		t.Fatalf("read preview file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("unexpected contents: %q", data)
	}

	path := h.Path()
	m.Release(h)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("backing file should be gone after release")
	}
	if h.Path() != "" {
		t.Error("Path should be empty after release")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := m.Acquire(strings.NewReader("x"), "a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Release(h)
	m.Release(h) // second release must be a no-op
	m.Release(nil)
}

func TestURL(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := m.Acquire(strings.NewReader("x"), "a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(h.URL(), "file://") {
		t.Errorf("URL = %q", h.URL())
	}

	m.Release(h)
	if h.URL() != "" {
		t.Errorf("URL after release = %q", h.URL())
	}

	var nilHandle *Handle
	if nilHandle.URL() != "" {
		t.Error("nil handle URL should be empty")
	}
}

func TestCloseRemovesDirectory(t *testing.T) {
	dir := t.TempDir() + "/previews"
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Acquire(strings.NewReader("x"), "a.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("preview directory should be gone after Close")
	}
}
