// Package filehandler validates clothing photos before they leave the
// machine and extracts EXIF metadata for display.
//
// The precheck is the first tier of error handling: a file that fails it is
// rejected locally with a typed reason and never reaches the network.
package filehandler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedImageExtensions maps accepted photo extensions to MIME types.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".heic": "image/heic",
	".heif": "image/heif",
}

// allowedMIMETypes is the MIME-based acceptance set, for callers that carry
// a content type instead of (or alongside) a file extension.
var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/heic": true,
	"image/heif": true,
}

// MaxFileSize is the client-side upload cap.
const MaxFileSize int64 = 10 * 1024 * 1024 // 10 MB

// RejectReason is the typed cause of a local precheck rejection.
type RejectReason string

const (
	ReasonNoFile      RejectReason = "no-file"
	ReasonInvalidType RejectReason = "file-invalid-type"
	ReasonTooLarge    RejectReason = "file-too-large"
)

// RejectError is a local validation failure. It is produced before any
// network call and surfaced inline at the originating control.
type RejectError struct {
	Reason  RejectReason
	Message string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// PhotoInfo describes an accepted photo file.
type PhotoInfo struct {
	Path     string
	Name     string
	MIMEType string
	Size     int64
}

// IsImage reports whether ext (with leading dot, any case) is an accepted
// photo extension.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// IsAllowedMIME reports whether mimeType is in the acceptance set.
func IsAllowedMIME(mimeType string) bool {
	return allowedMIMETypes[strings.ToLower(strings.TrimSpace(mimeType))]
}

// CheckPhoto validates a photo file for upload. It returns a *RejectError
// with a typed reason when the file is missing, of an unsupported type, or
// over the size cap.
func CheckPhoto(path string) (*PhotoInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &RejectError{Reason: ReasonNoFile, Message: "no file selected"}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &RejectError{Reason: ReasonNoFile, Message: fmt.Sprintf("file not found: %s", path)}
		}
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, &RejectError{Reason: ReasonInvalidType, Message: fmt.Sprintf("path is a directory: %s", path)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := SupportedImageExtensions[ext]
	if !ok {
		return nil, &RejectError{
			Reason:  ReasonInvalidType,
			Message: fmt.Sprintf("unsupported file type %q; allowed: JPEG, PNG, HEIC, HEIF", ext),
		}
	}

	if info.Size() > MaxFileSize {
		return nil, &RejectError{
			Reason:  ReasonTooLarge,
			Message: fmt.Sprintf("file is %d bytes; maximum is %d MB", info.Size(), MaxFileSize/(1024*1024)),
		}
	}

	log.Debug().
		Str("path", path).
		Str("mime_type", mimeType).
		Int64("size_bytes", info.Size()).
		Msg("Photo accepted by precheck")

	return &PhotoInfo{
		Path:     path,
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     info.Size(),
	}, nil
}
