package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"kennelbook.io/kennelbook/internal/pkg/logger"
)

// ChangeType identifies a domain change worth reacting to outside the
// mutation transaction (notification triggers, future audit hooks).
type ChangeType string

const (
	ChangeCycleStarted       ChangeType = "CYCLE_STARTED"
	ChangeCycleEnded         ChangeType = "CYCLE_ENDED"
	ChangeEventRecorded      ChangeType = "EVENT_RECORDED"
	ChangeEventRemoved       ChangeType = "EVENT_REMOVED"
	ChangeBreedingRecorded   ChangeType = "BREEDING_RECORDED"
	ChangeProgesteroneResult ChangeType = "PROGESTERONE_RESULT"
)

// Change is an immutable description of one committed mutation.
type Change struct {
	Type       ChangeType
	CycleID    string
	DogID      string
	DogName    string
	EventID    string
	Detail     string
	OccurredAt time.Time
}

// ChangeHandler reacts to a committed change. Handlers run after the
// mutation transaction committed; they must not assume they can roll it back.
type ChangeHandler func(ctx context.Context, change Change) error

// Dispatcher routes committed changes to registered handlers. Delivery is
// sequential and best-effort: a failing handler is logged and the rest
// still run.
type Dispatcher struct {
	handlers map[ChangeType][]ChangeHandler
	mu       sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[ChangeType][]ChangeHandler)}
}

// Register adds a handler for one change type.
func (d *Dispatcher) Register(t ChangeType, h ChangeHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[t] = append(d.handlers[t], h)
}

// Dispatch delivers a change to every handler registered for its type.
// Returns the first handler error after all handlers have run.
func (d *Dispatcher) Dispatch(ctx context.Context, change Change) error {
	d.mu.RLock()
	handlers := d.handlers[change.Type]
	d.mu.RUnlock()

	var firstErr error
	for _, h := range handlers {
		if err := h(ctx, change); err != nil {
			logger.Error("change handler failed",
				zap.String("change_type", string(change.Type)),
				zap.String("cycle_id", change.CycleID),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("handler for %s failed: %w", change.Type, err)
			}
		}
	}
	return firstErr
}
