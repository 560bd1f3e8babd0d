package service

import (
	"context"
	"time"

	"roulette/events"
	"roulette/models"
)

// UserRepository defines the interface for user entitlement data access
type UserRepository interface {
	// GetByID retrieves a user by ID, returning nil without error when absent
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// Create creates a new user record with zeroed entitlement state
	Create(ctx context.Context, userID string) (*models.User, error)

	// EnsureDailyReset replenishes the daily token allowance if the last reset
	// happened before dayStart (or never). The check and write are a single
	// conditional UPDATE so concurrent callers cannot double-replenish.
	// Returns true if this call performed the replenishment.
	EnsureDailyReset(ctx context.Context, userID string, allowance int, dayStart, now time.Time) (bool, error)

	// ReserveToken atomically decrements one token of the given type,
	// returning false without decrementing when the balance is already zero.
	ReserveToken(ctx context.Context, userID string, rouletteType models.RouletteType) (bool, error)

	// UpdatePremium writes the premium flag and expiry together
	UpdatePremium(ctx context.Context, userID string, isPremium bool, expiresAt *time.Time) error
}

// SpinRecordRepository defines the interface for the append-only spin history
type SpinRecordRepository interface {
	// Create appends an immutable spin record, filling ID and SpunAt
	Create(ctx context.Context, record *models.SpinRecord) error

	// GetRecentByUser returns up to limit records for the user and type,
	// most recent first
	GetRecentByUser(ctx context.Context, userID string, rouletteType models.RouletteType, limit int) ([]*models.SpinRecord, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork provides transactional access to repositories
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// UserRepository returns the user repository bound to this transaction
	UserRepository() UserRepository

	// SpinRecordRepository returns the spin record repository bound to this transaction
	SpinRecordRepository() SpinRecordRepository

	// EventBus returns the transactional event publisher
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// RandSource supplies uniform random values in [0,1). Abstracted so tests can
// drive the selector with fixed sequences.
type RandSource interface {
	Float64() float64
}

// RouletteStatus is the result of a status query
type RouletteStatus struct {
	DailyTokens    int
	PremiumTokens  int
	LastDailyReset *time.Time
	DailyHistory   []*models.SpinRecord
	PremiumHistory []*models.SpinRecord
}

// SpinResult summarizes the prize won by a spin
type SpinResult struct {
	PrizeID string
	Label   string
	Minutes *int
}

// RouletteService defines the two externally visible roulette operations
type RouletteService interface {
	// Status returns current token balances and recent spin history for the
	// user, applying the daily reset first so balances reflect today's allowance
	Status(ctx context.Context, userID string) (*RouletteStatus, error)

	// Spin consumes one token of the given type, draws a weighted prize,
	// applies its premium effect and records the outcome, all in one transaction
	Spin(ctx context.Context, userID string, rouletteType string) (*SpinResult, error)
}
