package cli

import (
	"errors"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// ErrCanceled is returned when the user dismisses a native dialog.
var ErrCanceled = errors.New("canceled")

// PickPhoto opens the native file picker filtered to accepted photo types.
// Falls back to a stdin prompt when no native dialog is available.
func PickPhoto() (string, error) {
	selected, err := zenity.SelectFile(
		zenity.Title("Select a clothing photo"),
		zenity.FileFilters{
			{
				Name:     "Photos",
				Patterns: []string{"*.jpg", "*.jpeg", "*.png", "*.heic", "*.heif"},
			},
		},
	)
	if err == nil {
		return selected, nil
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrCanceled
	}

	log.Debug().Err(err).Msg("Native file picker unavailable, prompting on stdin")
	path := PromptLine("Photo path", "")
	if path == "" {
		return "", ErrCanceled
	}
	return path, nil
}

// Confirm shows a native confirmation dialog with the given title and
// message, falling back to a stdin prompt. Returns true when accepted.
func Confirm(title, message string, danger bool) bool {
	opts := []zenity.Option{zenity.Title(title), zenity.OKLabel("OK")}
	if danger {
		opts = append(opts, zenity.Icon(zenity.WarningIcon))
	}
	err := zenity.Question(message, opts...)
	if err == nil {
		return true
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return false
	}

	log.Debug().Err(err).Msg("Native dialog unavailable, prompting on stdin")
	return PromptYesNo(title+" "+message, false)
}
