// Package preview manages locally-resolvable preview files for processed
// images that have not (or will never be) committed to the wardrobe.
//
// A Handle is backed by a real file in a managed directory. Ownership is
// single-holder: whoever acquired the handle must release it exactly once on
// every path that does not hand it off to persisted display state. Release
// is safe to call on nil or already-released handles, so teardown paths can
// release unconditionally.
package preview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handle is a locally-resolvable reference to preview image bytes.
type Handle struct {
	path string

	mu       sync.Mutex
	released bool
}

// Path returns the backing file path. Empty after release.
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return ""
	}
	return h.path
}

// URL returns the handle as a file:// URL for display layers that want a
// URL-shaped reference.
func (h *Handle) URL() string {
	p := h.Path()
	if p == "" {
		return ""
	}
	return "file://" + filepath.ToSlash(p)
}

// Manager owns the preview directory and the lifecycle of handles in it.
type Manager struct {
	dir string
}

// NewManager creates a manager rooted at dir. An empty dir means a fresh
// temporary directory.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "closet-preview-")
		if err != nil {
			return nil, fmt.Errorf("create preview dir: %w", err)
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Acquire writes the reader's bytes to a new preview file and returns its
// handle. hint supplies the file extension (e.g. the processed file name).
func (m *Manager) Acquire(r io.Reader, hint string) (*Handle, error) {
	name := uuid.New().String() + filepath.Ext(hint)
	path := filepath.Join(m.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create preview file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write preview file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close preview file: %w", err)
	}

	log.Debug().Str("path", path).Msg("Preview acquired")
	return &Handle{path: path}, nil
}

// Release frees the handle's backing file. No-op for nil or already-released
// handles; it never fails the caller.
func (m *Manager) Release(h *Handle) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", h.path).Msg("Failed to remove preview file")
	}
	log.Debug().Str("path", h.path).Msg("Preview released")
}

// Close removes the preview directory and everything in it.
func (m *Manager) Close() error {
	return os.RemoveAll(m.dir)
}
