package filehandler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, name string, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test file: %v", err)
	}
	defer f.Close()
	if size > 0 {
		if err := f.Truncate(size); err != nil {
			t.Fatalf("truncate test file: %v", err)
		}
	}
	return path
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		ext      string
		expected bool
	}{
		{".jpg", true},
		{".jpeg", true},
		{".JPG", true},
		{".png", true},
		{".PNG", true},
		{".heic", true},
		{".HEIC", true},
		{".heif", true},
		{".gif", false},
		{".webp", false},
		{".mp4", false},
		{".txt", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			result := IsImage(tt.ext)
			if result != tt.expected {
				t.Errorf("IsImage(%q) = %v, want %v", tt.ext, result, tt.expected)
			}
		})
	}
}

func TestIsAllowedMIME(t *testing.T) {
	tests := []struct {
		mime     string
		expected bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"image/heic", true},
		{"image/heif", true},
		{"IMAGE/JPEG", true},
		{" image/png ", true},
		{"image/gif", false},
		{"video/mp4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			result := IsAllowedMIME(tt.mime)
			if result != tt.expected {
				t.Errorf("IsAllowedMIME(%q) = %v, want %v", tt.mime, result, tt.expected)
			}
		})
	}
}

func TestCheckPhotoAccepts(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		size     int64
		wantMIME string
	}{
		{"small jpeg", "shirt.jpg", 1024, "image/jpeg"},
		{"uppercase extension", "coat.HEIC", 2048, "image/heic"},
		{"png at the cap", "dress.png", MaxFileSize, "image/png"},
		{"heif", "scarf.heif", 512, "image/heif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, tt.fileName, tt.size)
			info, err := CheckPhoto(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", info.MIMEType, tt.wantMIME)
			}
			if info.Size != tt.size {
				t.Errorf("Size = %d, want %d", info.Size, tt.size)
			}
			if info.Name != filepath.Base(path) {
				t.Errorf("Name = %q, want %q", info.Name, filepath.Base(path))
			}
		})
	}
}

func TestCheckPhotoRejects(t *testing.T) {
	tests := []struct {
		name       string
		path       func(t *testing.T) string
		wantReason RejectReason
	}{
		{
			name:       "empty path",
			path:       func(t *testing.T) string { return "" },
			wantReason: ReasonNoFile,
		},
		{
			name:       "missing file",
			path:       func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.jpg") },
			wantReason: ReasonNoFile,
		},
		{
			name:       "directory",
			path:       func(t *testing.T) string { return t.TempDir() },
			wantReason: ReasonInvalidType,
		},
		{
			name:       "unsupported type",
			path:       func(t *testing.T) string { return writeTestFile(t, "notes.txt", 10) },
			wantReason: ReasonInvalidType,
		},
		{
			name:       "gif not accepted",
			path:       func(t *testing.T) string { return writeTestFile(t, "anim.gif", 10) },
			wantReason: ReasonInvalidType,
		},
		{
			name:       "12 MB jpeg",
			path:       func(t *testing.T) string { return writeTestFile(t, "huge.jpg", 12*1024*1024) },
			wantReason: ReasonTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckPhoto(tt.path(t))
			var reject *RejectError
			if !errors.As(err, &reject) {
				t.Fatalf("expected *RejectError, got %v", err)
			}
			if reject.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", reject.Reason, tt.wantReason)
			}
		})
	}
}
