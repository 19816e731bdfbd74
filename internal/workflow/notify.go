package workflow

import "github.com/rs/zerolog/log"

// Notifier receives user-facing workflow notifications. The CLI renders
// them; tests record them.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier logs notifications and nothing else. It is the default when
// no notifier is injected.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Info().Msg(msg) }
func (LogNotifier) Error(msg string)   { log.Error().Msg(msg) }
