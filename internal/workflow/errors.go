package workflow

import (
	"errors"

	"codeberg.org/snonux/deeptranslate/internal/glossary"
	"codeberg.org/snonux/deeptranslate/internal/input"
	"codeberg.org/snonux/deeptranslate/internal/translation"
)

var (
	// ErrBusy is returned by Start while a request is running
	ErrBusy = errors.New("a translation is already running")

	// ErrMissingKey is returned when the request carries no API key
	ErrMissingKey = errors.New("请输入API密钥")
)

// Kind classifies errors for presentation
type Kind int

const (
	KindNone Kind = iota
	KindFileRead
	KindMissingImage
	KindOcr
	KindMissingKey
	KindAPI
	KindBusy
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFileRead:
		return "FileReadError"
	case KindMissingImage:
		return "MissingImageError"
	case KindOcr:
		return "OcrError"
	case KindMissingKey:
		return "MissingKeyError"
	case KindAPI:
		return "ApiError"
	case KindBusy:
		return "Busy"
	default:
		return "Unknown"
	}
}

// IsWarning reports whether the error is a user omission rather than a
// failure; the GUI shows those as warnings.
func (k Kind) IsWarning() bool {
	return k == KindMissingImage || k == KindMissingKey
}

// KindOf classifies err
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var readErr *glossary.FileReadError
	var ocrErr *input.OcrError
	var apiErr *translation.APIError

	switch {
	case errors.As(err, &readErr):
		return KindFileRead
	case errors.Is(err, input.ErrMissingImage):
		return KindMissingImage
	case errors.As(err, &ocrErr):
		return KindOcr
	case errors.Is(err, ErrMissingKey):
		return KindMissingKey
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.Is(err, ErrBusy):
		return KindBusy
	default:
		return KindUnknown
	}
}
