package filehandler

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// PhotoMetadata is the EXIF subset shown alongside a photographed item:
// when it was taken and with what camera. Extraction is best-effort; a photo
// without EXIF is still a valid upload.
type PhotoMetadata struct {
	DateTaken   time.Time
	HasDate     bool
	CameraMake  string
	CameraModel string
}

// ExtractPhotoMetadata reads EXIF metadata from a photo file. The imagemeta
// library auto-detects the container (JPEG, HEIC, PNG) and reads only the
// metadata region, not the full image.
func ExtractPhotoMetadata(path string) (*PhotoMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	exifData, err := imagemeta.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode EXIF metadata: %w", err)
	}

	meta := &PhotoMetadata{
		CameraMake:  strings.TrimSpace(exifData.Make),
		CameraModel: strings.TrimSpace(exifData.Model),
	}

	// Date priority: DateTimeOriginal, then CreateDate, then ModifyDate.
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		meta.DateTaken = exifData.DateTimeOriginal()
		meta.HasDate = true
	case !exifData.CreateDate().IsZero():
		meta.DateTaken = exifData.CreateDate()
		meta.HasDate = true
	case !exifData.ModifyDate().IsZero():
		meta.DateTaken = exifData.ModifyDate()
		meta.HasDate = true
	}

	log.Debug().
		Str("path", path).
		Bool("has_date", meta.HasDate).
		Str("camera", meta.Summary()).
		Msg("Photo metadata extracted")

	return meta, nil
}

// Summary formats the camera make/model for display, or "" when unknown.
func (m *PhotoMetadata) Summary() string {
	switch {
	case m.CameraMake != "" && m.CameraModel != "":
		return m.CameraMake + " " + m.CameraModel
	case m.CameraModel != "":
		return m.CameraModel
	default:
		return m.CameraMake
	}
}
