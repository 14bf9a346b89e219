// Package events carries exchange domain events. Handlers registered on a
// Bus run inside the writer's transaction; a Publisher forwards committed
// events to other processes.
package events

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	TypeExchangeProposed = "EXCHANGE_PROPOSED"
	TypeExchangeUpdated  = "EXCHANGE_UPDATED"
)

// Event is a domain event payload.
type Event interface {
	EventType() string
}

// ExchangeProposed is raised when a new exchange is inserted.
type ExchangeProposed struct {
	ExchangeID     string `json:"exchangeId"`
	InitiatorID    string `json:"initiatorId"`
	InitiatorName  string `json:"initiatorName,omitempty"`
	ResponderID    string `json:"responderId"`
	InitiatorOffer string `json:"initiatorOffer"`
	ResponderOffer string `json:"responderOffer"`
}

func (ExchangeProposed) EventType() string { return TypeExchangeProposed }

// ExchangeUpdated is raised after an action changed an exchange.
type ExchangeUpdated struct {
	ExchangeID     string `json:"exchangeId"`
	InitiatorID    string `json:"initiatorId"`
	ResponderID    string `json:"responderId"`
	ActorID        string `json:"actorId"`
	Action         string `json:"action"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
}

func (ExchangeUpdated) EventType() string { return TypeExchangeUpdated }

// Envelope is the wire form of an event.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    Event     `json:"payload"`
}

// NewEnvelope wraps ev with a ULID derived from now, so ids sort by time.
func NewEnvelope(ev Event, now time.Time) Envelope {
	return Envelope{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Type:       ev.EventType(),
		OccurredAt: now.UTC(),
		Payload:    ev,
	}
}
