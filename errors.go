package imagezoomer

import (
	"errors"

	"github.com/menta2k/image-zoomer/pkg/annotate"
	"github.com/menta2k/image-zoomer/pkg/codec"
	"github.com/menta2k/image-zoomer/pkg/pixbuf"
	"github.com/menta2k/image-zoomer/pkg/resample"
	"github.com/menta2k/image-zoomer/pkg/selection"
	"github.com/menta2k/image-zoomer/pkg/viewport"
)

// ErrorKind groups errors by how a host should surface them. None of them
// are fatal; retrying the triggering action is always possible.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	// InputRejected covers selections that are too small, outside the image
	// or made without an image. Show a transient status and let the user retry.
	InputRejected
	// InvalidParameter covers zoom factors, brush widths and placements out of range
	InvalidParameter
	// IOFailure covers load and save errors. Nothing was changed.
	IOFailure
)

func (k ErrorKind) String() string {
	switch k {
	case InputRejected:
		return "InputRejected"
	case InvalidParameter:
		return "InvalidParameter"
	case IOFailure:
		return "IOFailure"
	default:
		return "Unknown"
	}
}

// Kind classifies err. A nil error is Unknown.
func Kind(err error) ErrorKind {
	if err == nil {
		return Unknown
	}

	var rejected *selection.RejectedError
	switch {
	case errors.As(err, &rejected),
		errors.Is(err, ErrNoImage),
		errors.Is(err, pixbuf.ErrEmptyCrop),
		errors.Is(err, resample.ErrEmptySource):
		return InputRejected
	case errors.Is(err, resample.ErrInvalidFactor),
		errors.Is(err, resample.ErrUnsupportedFilter),
		errors.Is(err, annotate.ErrInvalidBrushSize),
		errors.Is(err, viewport.ErrEmptyViewport):
		return InvalidParameter
	case errors.Is(err, codec.ErrLoadFailed),
		errors.Is(err, codec.ErrSaveFailed):
		return IOFailure
	}
	return Unknown
}

// Status returns the short status text for a selector outcome: the rejection
// reason, the committed rectangle, or "" when nothing happened.
func Status(out selection.Outcome) string {
	switch out.Status {
	case selection.Rejected:
		return out.Reason.String()
	case selection.Committed:
		return "Selected " + out.Rect.String()
	default:
		return ""
	}
}
