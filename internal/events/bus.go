package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/handtohand/marketplace/internal/dbx"
)

// Handler reacts to an event using the caller's transaction handle. An
// error aborts the surrounding transaction.
type Handler interface {
	Handle(ctx context.Context, tx dbx.DBTX, ev Event) error
}

type HandlerFunc func(ctx context.Context, tx dbx.DBTX, ev Event) error

func (f HandlerFunc) Handle(ctx context.Context, tx dbx.DBTX, ev Event) error {
	return f(ctx, tx, ev)
}

// Bus dispatches events synchronously, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Dispatch stops at the first failing handler.
func (b *Bus) Dispatch(ctx context.Context, tx dbx.DBTX, ev Event) error {
	b.mu.RLock()
	hs := b.handlers[ev.EventType()]
	b.mu.RUnlock()

	for _, h := range hs {
		if err := h.Handle(ctx, tx, ev); err != nil {
			return fmt.Errorf("%s handler: %w", ev.EventType(), err)
		}
	}
	return nil
}
