package events

import (
	"context"
	"sync"
	"time"

	"roulette/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeSpinCompleted    EventType = "spin_completed"
	EventTypePremiumGranted   EventType = "premium_granted"
	EventTypeDailyTokensReset EventType = "daily_tokens_reset"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// SpinCompletedEvent is emitted after a spin transaction commits
type SpinCompletedEvent struct {
	UserID       string
	RouletteType models.RouletteType
	PrizeID      string
	PrizeMinutes *int
	SpunAt       time.Time
}

func (e SpinCompletedEvent) Type() EventType {
	return EventTypeSpinCompleted
}

// PremiumGrantedEvent is emitted when a spin extended or upgraded premium access
type PremiumGrantedEvent struct {
	UserID    string
	Lifetime  bool
	ExpiresAt *time.Time
}

func (e PremiumGrantedEvent) Type() EventType {
	return EventTypePremiumGranted
}

// DailyTokensResetEvent is emitted when a daily-reset check replenished tokens
type DailyTokensResetEvent struct {
	UserID string
	Tokens int
}

func (e DailyTokensResetEvent) Type() EventType {
	return EventTypeDailyTokensReset
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Handlers run asynchronously so slow observers never block a request
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a unit of work and flushes
// them to the underlying bus only after the database commit succeeds, so
// observers never see a spin that rolled back.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a transactional bus wrapping the main bus
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Background context: the request context may already be done by the
	// time observers run, and events outlive the transaction anyway.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops all pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
