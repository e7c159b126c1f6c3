package keyword

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureCategory classifies the underlying transport failure behind a
// lifecycle error so callers can decide whether a retry makes sense.
type FailureCategory string

const (
	FailureAuth         FailureCategory = "auth"
	FailureRateLimit    FailureCategory = "rate-limit"
	FailureConnectivity FailureCategory = "connectivity"
	FailureServer       FailureCategory = "server-side"
	FailureUnknown      FailureCategory = "unknown"
)

// ParseError indicates the raw input blob was structurally unusable.
// Individual malformed rows never produce it; only input that yields
// nothing to work with does.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse failed: " + e.Reason
}

// ValidationError indicates every record in a batch was rejected during
// normalization.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// UploadError wraps a failure while committing a staged batch.
type UploadError struct {
	Category FailureCategory
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (%s): %v", e.Category, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ResetError wraps a failure while resetting a keyword back to pending.
type ResetError struct {
	ID       string
	Category FailureCategory
	Err      error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset of keyword %s failed (%s): %v", e.ID, e.Category, e.Err)
}

func (e *ResetError) Unwrap() error { return e.Err }

// GenerationRequestError wraps a failure while submitting a batch
// generation request.
type GenerationRequestError struct {
	Category FailureCategory
	Err      error
}

func (e *GenerationRequestError) Error() string {
	return fmt.Sprintf("generation request failed (%s): %v", e.Category, e.Err)
}

func (e *GenerationRequestError) Unwrap() error { return e.Err }

// DeleteError wraps a failure while deleting keywords.
type DeleteError struct {
	Category FailureCategory
	Err      error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete failed (%s): %v", e.Category, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

var (
	errNoStore    = errors.New("no target store selected")
	errNoKeywords = errors.New("no keywords selected")
	errNotFailed  = errors.New("keyword is not in failed status")
	errNotFound   = errors.New("keyword not found")
)

// Categorize maps a transport failure to a FailureCategory. Store
// implementations may pre-categorize by returning one of the typed errors
// above, in which case the embedded category is kept.
func Categorize(err error) FailureCategory {
	if err == nil {
		return FailureUnknown
	}
	var (
		ue *UploadError
		re *ResetError
		ge *GenerationRequestError
		de *DeleteError
	)
	switch {
	case errors.As(err, &ue):
		return ue.Category
	case errors.As(err, &re):
		return re.Category
	case errors.As(err, &ge):
		return ge.Category
	case errors.As(err, &de):
		return de.Category
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return FailureConnectivity
	}
	return FailureUnknown
}

func wrapReset(id string, err error) error {
	var re *ResetError
	if errors.As(err, &re) {
		return err
	}
	return &ResetError{ID: id, Category: Categorize(err), Err: err}
}

func wrapGeneration(err error) error {
	var ge *GenerationRequestError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationRequestError{Category: Categorize(err), Err: err}
}

func wrapDelete(err error) error {
	var de *DeleteError
	if errors.As(err, &de) {
		return err
	}
	return &DeleteError{Category: Categorize(err), Err: err}
}
