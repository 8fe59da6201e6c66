package selection

import (
	"fmt"

	"github.com/menta2k/image-zoomer/pkg/types"
)

// Status is the result kind of a selector operation
type Status int

const (
	// None means the operation produced no terminal output
	None Status = iota
	Committed
	Rejected
)

// Reason explains a rejection
type Reason int

const (
	NoReason Reason = iota
	TooSmall
	OutsideImage
	NoImage
)

func (r Reason) String() string {
	switch r {
	case TooSmall:
		return "TooSmall"
	case OutsideImage:
		return "OutsideImage"
	case NoImage:
		return "NoImage"
	default:
		return ""
	}
}

// Outcome is what the selector reports back to the host
type Outcome struct {
	Status  Status
	Reason  Reason
	Rect    types.SourceRect
	Display types.DisplayRect
}

// Err returns a RejectedError for rejected outcomes and nil otherwise
func (o Outcome) Err() error {
	if o.Status != Rejected {
		return nil
	}
	return &RejectedError{Reason: o.Reason, Display: o.Display}
}

func (o Outcome) String() string {
	switch o.Status {
	case Committed:
		return fmt.Sprintf("Committed(%s)", o.Rect)
	case Rejected:
		return fmt.Sprintf("Rejected(%s)", o.Reason)
	default:
		return "None"
	}
}

func rejected(r Reason) Outcome {
	return Outcome{Status: Rejected, Reason: r}
}

func (o Outcome) withDisplay(r types.DisplayRect) Outcome {
	o.Display = r
	return o
}

// RejectedError carries a rejection as an error value
type RejectedError struct {
	Reason  Reason
	Display types.DisplayRect
}

func (e *RejectedError) Error() string {
	return "selection rejected: " + e.Reason.String()
}
