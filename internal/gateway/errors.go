package gateway

import (
	"errors"
	"fmt"

	"github.com/runoshun/loom/internal/domain"
)

// Kind is a stable error-kind string reported across the gateway boundary.
type Kind string

const (
	KindNotFound        Kind = "NotFound"
	KindInvalidMode     Kind = "InvalidMode"
	KindAlreadyAssigned Kind = "AlreadyAssigned"
	KindCrossScope      Kind = "CrossScopeReference"
	KindCycleDetected   Kind = "CycleDetected"
	KindBlocked         Kind = "Blocked"
	KindMergeConflict   Kind = "MergeConflict"
	KindToolFailure     Kind = "ToolFailure"
	KindValidation      Kind = "ValidationError"
)

// Error is the failure shape reported to gateway callers: a stable kind
// plus a human-readable message.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// validationError builds a ValidationError for a bad parameter bag.
func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// translate maps an error from the use case layer to its gateway kind.
// Unmatched errors report as ToolFailure: at this boundary the remaining
// causes are external tool or storage failures.
func translate(err error) *Error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}

	kind := KindToolFailure
	switch {
	case errors.Is(err, domain.ErrStrandNotFound),
		errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		kind = KindNotFound
	case errors.Is(err, domain.ErrInvalidMode):
		kind = KindInvalidMode
	case errors.Is(err, domain.ErrAlreadyAssigned):
		kind = KindAlreadyAssigned
	case errors.Is(err, domain.ErrCrossScopeDependency):
		kind = KindCrossScope
	case errors.Is(err, domain.ErrCycleDetected):
		kind = KindCycleDetected
	case errors.Is(err, domain.ErrGoalBlocked):
		kind = KindBlocked
	case errors.Is(err, domain.ErrMergeConflict):
		kind = KindMergeConflict
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrNoPlanDetected),
		errors.Is(err, domain.ErrTaskAlreadyDone),
		errors.Is(err, domain.ErrNoWorkspace),
		errors.Is(err, domain.ErrNoWorktree),
		errors.Is(err, domain.ErrNotInitialized):
		kind = KindValidation
	}
	return &Error{Kind: kind, Message: err.Error()}
}
