package repository

import (
	"context"
	"fmt"
	"time"

	"roulette/database"
	"roulette/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByID retrieves a user by ID, returning nil without error when absent
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT id, daily_tokens, premium_tokens, last_daily_reset,
		       is_premium, premium_expires_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.DailyTokens,
		&user.PremiumTokens,
		&user.LastDailyReset,
		&user.IsPremium,
		&user.PremiumExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	return &user, nil
}

// Create creates a new user record with zeroed entitlement state
func (r *UserRepository) Create(ctx context.Context, userID string) (*models.User, error) {
	query := `
		INSERT INTO users (id)
		VALUES ($1)
		RETURNING id, daily_tokens, premium_tokens, last_daily_reset,
		          is_premium, premium_expires_at, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.DailyTokens,
		&user.PremiumTokens,
		&user.LastDailyReset,
		&user.IsPremium,
		&user.PremiumExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", userID, err)
	}

	return &user, nil
}

// EnsureDailyReset replenishes the daily token allowance if the last reset
// happened before dayStart. The condition lives in the UPDATE itself, so two
// concurrent callers cannot both replenish: the second one matches zero rows.
func (r *UserRepository) EnsureDailyReset(ctx context.Context, userID string, allowance int, dayStart, now time.Time) (bool, error) {
	query := `
		UPDATE users
		SET daily_tokens = $2, last_daily_reset = $3, updated_at = NOW()
		WHERE id = $1
		  AND (last_daily_reset IS NULL OR last_daily_reset < $4)
	`

	result, err := r.q.Exec(ctx, query, userID, allowance, now, dayStart)
	if err != nil {
		return false, fmt.Errorf("failed to apply daily reset for user %s: %w", userID, err)
	}

	return result.RowsAffected() == 1, nil
}

// ReserveToken atomically decrements one token of the given type. The balance
// check and the decrement are a single conditional UPDATE: two concurrent
// requests racing over a balance of 1 cannot both succeed, which is the
// at-most-one-spin-per-token guarantee.
func (r *UserRepository) ReserveToken(ctx context.Context, userID string, rouletteType models.RouletteType) (bool, error) {
	var query string
	switch rouletteType {
	case models.RouletteTypeDaily:
		query = `
			UPDATE users
			SET daily_tokens = daily_tokens - 1, updated_at = NOW()
			WHERE id = $1 AND daily_tokens > 0
		`
	case models.RouletteTypePremium:
		query = `
			UPDATE users
			SET premium_tokens = premium_tokens - 1, updated_at = NOW()
			WHERE id = $1 AND premium_tokens > 0
		`
	default:
		return false, fmt.Errorf("unknown roulette type %q", rouletteType)
	}

	result, err := r.q.Exec(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to reserve %s token for user %s: %w", rouletteType, userID, err)
	}

	return result.RowsAffected() == 1, nil
}

// UpdatePremium writes the premium flag and expiry together. A nil expiry with
// is_premium true denotes a lifetime grant.
func (r *UserRepository) UpdatePremium(ctx context.Context, userID string, isPremium bool, expiresAt *time.Time) error {
	query := `
		UPDATE users
		SET is_premium = $2, premium_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, userID, isPremium, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update premium state for user %s: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", userID)
	}

	return nil
}

// AddPremiumTokens credits premium spin tokens. Other subsystems (checkout)
// accrue these; the roulette core itself only spends them.
func (r *UserRepository) AddPremiumTokens(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET premium_tokens = premium_tokens + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to add premium tokens for user %s: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", userID)
	}

	return nil
}
