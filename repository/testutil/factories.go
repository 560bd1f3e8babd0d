package testutil

import (
	"context"
	"testing"
	"time"

	"roulette/database"
	"roulette/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewUserID returns a fresh unique user ID for test isolation
func NewUserID() string {
	return uuid.NewString()
}

// CreateTestUser creates a test user with default (zeroed) entitlement state
func CreateTestUser() *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:        NewUserID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestUserWithTokens creates a test user with the given token balances
func CreateTestUserWithTokens(daily, premium int) *models.User {
	user := CreateTestUser()
	user.DailyTokens = daily
	user.PremiumTokens = premium
	return user
}

// CreateTestSpinRecord creates a spin record for the given user and type
func CreateTestSpinRecord(userID string, rouletteType models.RouletteType, prizeID string, minutes *int, spunAt time.Time) *models.SpinRecord {
	return &models.SpinRecord{
		UserID:       userID,
		RouletteType: rouletteType,
		PrizeID:      prizeID,
		PrizeMinutes: minutes,
		SpunAt:       spunAt,
	}
}

// Minutes returns a pointer to m, for building prize and record fixtures
func Minutes(m int) *int {
	return &m
}

// SeedUser inserts the full user row, including fields the repositories only
// ever mutate conditionally, so tests can start from any entitlement state.
func SeedUser(t *testing.T, db *database.DB, user *models.User) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO users (id, daily_tokens, premium_tokens, last_daily_reset, is_premium, premium_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.DailyTokens, user.PremiumTokens, user.LastDailyReset, user.IsPremium, user.PremiumExpiresAt)
	require.NoError(t, err)
}
