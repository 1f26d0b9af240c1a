package domain

import (
	"errors"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// Error kinds reported by the engine. Every failure wraps exactly one of
// them so callers can classify with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidHandle = errors.New("invalid handle")
	ErrConfiguration = errors.New("configuration error")
	ErrUnsupported   = errors.New("unsupported")
	ErrInternal      = errors.New("internal error")
)

// errorKind names the sentinel wrapped by err, for metrics labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrInvalidHandle):
		return "invalid_handle"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	default:
		return "internal"
	}
}

// errorLevel maps an error kind to a ChkError severity.
func errorLevel(err error) int32 {
	switch {
	case errors.Is(err, ErrNotFound):
		return m.LevelNotice
	case errors.Is(err, ErrUnsupported):
		return m.LevelWarning
	case errors.Is(err, ErrInvalidFormat), errors.Is(err, ErrInvalidHandle), errors.Is(err, ErrConfiguration):
		return m.LevelError
	default:
		return m.LevelInternal
	}
}
