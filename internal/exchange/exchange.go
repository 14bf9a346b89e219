// Package exchange defines the two-party exchange lifecycle.
//
// Valid status graph:
//
//	PROPOSED ──► AGREED ──► COMPLETED
//	    │           │
//	    └───────────┴──► CANCELLED
//
// COMPLETED and CANCELLED are terminal. COMPLETED is never set directly: each
// participant confirms with COMPLETE and the second confirmation completes
// the exchange.
package exchange

import (
	"fmt"
	"time"
)

// Status values mirror the exchanges.status column.
type Status string

const (
	StatusProposed  Status = "PROPOSED"
	StatusAgreed    Status = "AGREED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusProposed, StatusAgreed, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown exchange status %q", s)
}

// IsTerminal reports whether no further actions are accepted in s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActive reports whether s counts towards the one-active-exchange-per-pair rule.
func (s Status) IsActive() bool {
	return s == StatusProposed || s == StatusAgreed
}

// Role is the part a user plays in an exchange.
type Role string

const (
	RoleInitiator Role = "initiator"
	RoleResponder Role = "responder"
)

// Exchange is a tracked two-party transaction.
type Exchange struct {
	ID                 string
	InitiatorID        string
	ResponderID        string
	InitiatorOffer     string // free-text snapshot of what the initiator gives
	ResponderOffer     string // free-text snapshot of what the responder gives
	Status             Status
	InitiatorConfirmed bool
	ResponderConfirmed bool
	AgreedAt           *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time

	// Version is bumped by every persisted update and guards concurrent writes.
	Version int64
}

// New returns a freshly proposed exchange. It is the only way an exchange
// enters the PROPOSED state.
func New(initiatorID, responderID, initiatorOffer, responderOffer string, now time.Time) Exchange {
	return Exchange{
		InitiatorID:    initiatorID,
		ResponderID:    responderID,
		InitiatorOffer: initiatorOffer,
		ResponderOffer: responderOffer,
		Status:         StatusProposed,
		CreatedAt:      now,
	}
}

// RoleOf returns the role userID plays in e, or false if userID is not a participant.
func (e Exchange) RoleOf(userID string) (Role, bool) {
	switch userID {
	case "":
		return "", false
	case e.InitiatorID:
		return RoleInitiator, true
	case e.ResponderID:
		return RoleResponder, true
	}
	return "", false
}

// Partner returns the other participant's id.
func (e Exchange) Partner(userID string) string {
	if userID == e.InitiatorID {
		return e.ResponderID
	}
	return e.InitiatorID
}
