package exchange

import (
	"errors"
	"fmt"
)

// Rejection kinds. Match them with errors.Is.
var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidAction     = errors.New("invalid action")
	ErrInvalidTransition = errors.New("invalid transition")
)

// RejectionError describes why an action was refused. The exchange is left
// untouched whenever one is returned.
type RejectionError struct {
	Kind   error
	Action Action
	Status Status
}

func (e *RejectionError) Error() string {
	switch e.Kind {
	case ErrForbidden:
		return "forbidden: not a participant of this exchange"
	case ErrInvalidAction:
		return fmt.Sprintf("invalid action %q", string(e.Action))
	default:
		return fmt.Sprintf("cannot %s an exchange that is %s", e.Action, e.Status)
	}
}

func (e *RejectionError) Unwrap() error {
	return e.Kind
}

func reject(kind error, a Action, s Status) error {
	return &RejectionError{Kind: kind, Action: a, Status: s}
}
