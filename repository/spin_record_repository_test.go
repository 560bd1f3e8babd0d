package repository

import (
	"context"
	"testing"
	"time"

	"roulette/models"
	"roulette/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinRecordRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSpinRecordRepository(testDB.DB)
	ctx := context.Background()

	seeded := testutil.CreateTestUser()
	testutil.SeedUser(t, testDB.DB, seeded)

	spunAt := time.Now().UTC()
	record := testutil.CreateTestSpinRecord(seeded.ID, models.RouletteTypeDaily, "daily_10min", testutil.Minutes(10), spunAt)

	err := repo.Create(ctx, record)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.WithinDuration(t, spunAt, record.SpunAt, time.Second)

	t.Run("nil minutes round-trips for the lifetime prize", func(t *testing.T) {
		lifetime := testutil.CreateTestSpinRecord(seeded.ID, models.RouletteTypePremium, "premium_lifetime", nil, spunAt)
		err := repo.Create(ctx, lifetime)
		require.NoError(t, err)

		records, err := repo.GetRecentByUser(ctx, seeded.ID, models.RouletteTypePremium, 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].PrizeMinutes)
	})

	t.Run("unknown user is rejected by the foreign key", func(t *testing.T) {
		orphan := testutil.CreateTestSpinRecord(testutil.NewUserID(), models.RouletteTypeDaily, "daily_nothing", testutil.Minutes(0), spunAt)
		err := repo.Create(ctx, orphan)
		assert.Error(t, err)
	})
}

func TestSpinRecordRepository_GetRecentByUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSpinRecordRepository(testDB.DB)
	ctx := context.Background()

	seeded := testutil.CreateTestUser()
	testutil.SeedUser(t, testDB.DB, seeded)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	prizeIDs := []string{"daily_nothing", "daily_10min", "daily_30min", "daily_1day", "daily_nothing", "daily_10min", "daily_nothing"}
	for i, prizeID := range prizeIDs {
		record := testutil.CreateTestSpinRecord(seeded.ID, models.RouletteTypeDaily, prizeID, testutil.Minutes(0), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, record))
	}
	// A premium record must never leak into the daily history
	premium := testutil.CreateTestSpinRecord(seeded.ID, models.RouletteTypePremium, "premium_3days", testutil.Minutes(4320), base.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, premium))

	t.Run("most recent first, bounded by limit", func(t *testing.T) {
		records, err := repo.GetRecentByUser(ctx, seeded.ID, models.RouletteTypeDaily, 5)
		require.NoError(t, err)
		require.Len(t, records, 5)

		for i := 1; i < len(records); i++ {
			assert.False(t, records[i].SpunAt.After(records[i-1].SpunAt), "records must be in descending spun_at order")
		}
		assert.Equal(t, "daily_nothing", records[0].PrizeID)
		for _, record := range records {
			assert.Equal(t, models.RouletteTypeDaily, record.RouletteType)
		}
	})

	t.Run("identical timestamps keep insertion order", func(t *testing.T) {
		other := testutil.CreateTestUser()
		testutil.SeedUser(t, testDB.DB, other)

		sameInstant := base.Add(2 * time.Hour)
		first := testutil.CreateTestSpinRecord(other.ID, models.RouletteTypeDaily, "daily_10min", testutil.Minutes(10), sameInstant)
		second := testutil.CreateTestSpinRecord(other.ID, models.RouletteTypeDaily, "daily_30min", testutil.Minutes(30), sameInstant)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		records, err := repo.GetRecentByUser(ctx, other.ID, models.RouletteTypeDaily, 10)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "daily_30min", records[0].PrizeID, "later insertion wins the tiebreak")
		assert.Equal(t, "daily_10min", records[1].PrizeID)
	})

	t.Run("no records returns empty", func(t *testing.T) {
		records, err := repo.GetRecentByUser(ctx, testutil.NewUserID(), models.RouletteTypeDaily, 5)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
