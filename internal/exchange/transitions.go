package exchange

import "time"

// Action is a participant's request against an exchange.
type Action string

const (
	ActionCancel   Action = "CANCEL"
	ActionAgree    Action = "AGREE"
	ActionComplete Action = "COMPLETE"
)

// IsValid reports whether a is a known action token.
func (a Action) IsValid() bool {
	switch a {
	case ActionCancel, ActionAgree, ActionComplete:
		return true
	}
	return false
}

// Updates is the set of fields an action changes. Nil fields are untouched.
type Updates struct {
	Status             *Status
	InitiatorConfirmed *bool
	ResponderConfirmed *bool
	AgreedAt           *time.Time
	CompletedAt        *time.Time
}

// Empty reports whether the action changed nothing.
func (u Updates) Empty() bool {
	return u.Status == nil &&
		u.InitiatorConfirmed == nil &&
		u.ResponderConfirmed == nil &&
		u.AgreedAt == nil &&
		u.CompletedAt == nil
}

// ApplyTo returns a copy of e with u applied.
func (u Updates) ApplyTo(e Exchange) Exchange {
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.InitiatorConfirmed != nil {
		e.InitiatorConfirmed = *u.InitiatorConfirmed
	}
	if u.ResponderConfirmed != nil {
		e.ResponderConfirmed = *u.ResponderConfirmed
	}
	if u.AgreedAt != nil {
		t := *u.AgreedAt
		e.AgreedAt = &t
	}
	if u.CompletedAt != nil {
		t := *u.CompletedAt
		e.CompletedAt = &t
	}
	return e
}

// Decide validates action by actorID against e and returns the fields to
// persist. It is pure: e is read as the current persisted state and never
// modified. Checks run in order: participant, action token, transition.
//
//	PROPOSED|AGREED  CANCEL    either     -> CANCELLED
//	PROPOSED         AGREE     responder  -> AGREED, agreed_at
//	PROPOSED         AGREE     initiator  -> no change
//	AGREED           COMPLETE  either     -> own flag; COMPLETED if the other flag was set
//
// Everything else is ErrInvalidTransition.
func Decide(e Exchange, actorID string, action Action, now time.Time) (Updates, error) {
	role, ok := e.RoleOf(actorID)
	if !ok {
		return Updates{}, reject(ErrForbidden, action, e.Status)
	}
	if !action.IsValid() {
		return Updates{}, reject(ErrInvalidAction, action, e.Status)
	}
	if e.Status.IsTerminal() {
		return Updates{}, reject(ErrInvalidTransition, action, e.Status)
	}

	switch action {
	case ActionCancel:
		return Updates{Status: statusPtr(StatusCancelled)}, nil

	case ActionAgree:
		if e.Status != StatusProposed {
			return Updates{}, reject(ErrInvalidTransition, action, e.Status)
		}
		if role == RoleInitiator {
			// proposing already counts as the initiator's agreement
			return Updates{}, nil
		}
		return Updates{Status: statusPtr(StatusAgreed), AgreedAt: timePtr(now)}, nil

	case ActionComplete:
		if e.Status != StatusAgreed {
			return Updates{}, reject(ErrInvalidTransition, action, e.Status)
		}
		var u Updates
		otherConfirmed := e.InitiatorConfirmed
		if role == RoleInitiator {
			u.InitiatorConfirmed = boolPtr(true)
			otherConfirmed = e.ResponderConfirmed
		} else {
			u.ResponderConfirmed = boolPtr(true)
		}
		if otherConfirmed {
			u.Status = statusPtr(StatusCompleted)
			u.CompletedAt = timePtr(now)
		}
		return u, nil
	}

	return Updates{}, reject(ErrInvalidAction, action, e.Status)
}

func statusPtr(s Status) *Status     { return &s }
func boolPtr(b bool) *bool           { return &b }
func timePtr(t time.Time) *time.Time { return &t }
