package service

import (
	"context"
	"testing"
	"time"

	"roulette/config"
	"roulette/events"
	"roulette/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		DailyTokenAllowance: 1,
		HistoryLimit:        5,
		Environment:         "test",
	}
}

type rouletteMocks struct {
	factory        *MockUnitOfWorkFactory
	uow            *MockUnitOfWork
	userRepo       *MockUserRepository
	spinRecordRepo *MockSpinRecordRepository
	eventPublisher *MockEventPublisher
}

func newRouletteMocks() *rouletteMocks {
	m := &rouletteMocks{
		factory:        new(MockUnitOfWorkFactory),
		uow:            new(MockUnitOfWork),
		userRepo:       new(MockUserRepository),
		spinRecordRepo: new(MockSpinRecordRepository),
		eventPublisher: new(MockEventPublisher),
	}
	m.uow.SetRepositories(m.userRepo, m.spinRecordRepo, m.eventPublisher)
	return m
}

func (m *rouletteMocks) expectTransaction(ctx context.Context) {
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
}

func (m *rouletteMocks) assertExpectations(t *testing.T) {
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.userRepo.AssertExpectations(t)
	m.spinRecordRepo.AssertExpectations(t)
	m.eventPublisher.AssertExpectations(t)
}

func TestRouletteService_Spin_WinsMinuteGrant(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	// Draw value 0.70 lands on the 10-minute daily prize
	svc := NewRouletteService(m.factory, NewWeightedSelector(&sequenceRand{values: []float64{0.70}}), testConfig())

	user := &models.User{ID: "user-1", DailyTokens: 1}

	m.expectTransaction(ctx)
	m.userRepo.On("EnsureDailyReset", ctx, "user-1", 1, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil)
	m.userRepo.On("ReserveToken", ctx, "user-1", models.RouletteTypeDaily).Return(true, nil)
	m.userRepo.On("GetByID", ctx, "user-1").Return(user, nil)
	m.userRepo.On("UpdatePremium", ctx, "user-1", true, mock.MatchedBy(func(expiresAt *time.Time) bool {
		return expiresAt != nil && time.Until(*expiresAt) > 9*time.Minute && time.Until(*expiresAt) <= 10*time.Minute
	})).Return(nil)
	m.spinRecordRepo.On("Create", ctx, mock.MatchedBy(func(r *models.SpinRecord) bool {
		return r.UserID == "user-1" &&
			r.RouletteType == models.RouletteTypeDaily &&
			r.PrizeID == "daily_10min" &&
			r.PrizeMinutes != nil && *r.PrizeMinutes == 10
	})).Return(nil)
	m.eventPublisher.On("Publish", mock.AnythingOfType("events.PremiumGrantedEvent")).Return()
	m.eventPublisher.On("Publish", mock.AnythingOfType("events.SpinCompletedEvent")).Return()

	result, err := svc.Spin(ctx, "user-1", "daily")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "daily_10min", result.PrizeID)
	assert.Equal(t, "10 minutes premium", result.Label)
	require.NotNil(t, result.Minutes)
	assert.Equal(t, 10, *result.Minutes)

	m.assertExpectations(t)
}

func TestRouletteService_Spin_NothingPrizeLeavesPremiumUntouched(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	// Draw value 0.10 lands on the "nothing" outcome
	svc := NewRouletteService(m.factory, NewWeightedSelector(&sequenceRand{values: []float64{0.10}}), testConfig())

	user := &models.User{ID: "user-1", DailyTokens: 1}

	m.expectTransaction(ctx)
	m.userRepo.On("EnsureDailyReset", ctx, "user-1", 1, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil)
	m.userRepo.On("ReserveToken", ctx, "user-1", models.RouletteTypeDaily).Return(true, nil)
	m.userRepo.On("GetByID", ctx, "user-1").Return(user, nil)
	m.spinRecordRepo.On("Create", ctx, mock.MatchedBy(func(r *models.SpinRecord) bool {
		return r.PrizeID == "daily_nothing" && r.PrizeMinutes != nil && *r.PrizeMinutes == 0
	})).Return(nil)
	m.eventPublisher.On("Publish", mock.AnythingOfType("events.SpinCompletedEvent")).Return()

	result, err := svc.Spin(ctx, "user-1", "daily")

	require.NoError(t, err)
	assert.Equal(t, "daily_nothing", result.PrizeID)
	require.NotNil(t, result.Minutes)
	assert.Equal(t, 0, *result.Minutes)

	// Token is still consumed and the spin still recorded; only the premium
	// fields stay untouched
	m.userRepo.AssertNotCalled(t, "UpdatePremium", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestRouletteService_Spin_LifetimePrize(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	// Draw value 0.995 lands on the lifetime premium prize
	svc := NewRouletteService(m.factory, NewWeightedSelector(&sequenceRand{values: []float64{0.995}}), testConfig())

	expiry := time.Now().UTC().Add(time.Hour)
	user := &models.User{ID: "user-1", PremiumTokens: 1, IsPremium: true, PremiumExpiresAt: &expiry}

	m.expectTransaction(ctx)
	m.userRepo.On("EnsureDailyReset", ctx, "user-1", 1, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil)
	m.userRepo.On("ReserveToken", ctx, "user-1", models.RouletteTypePremium).Return(true, nil)
	m.userRepo.On("GetByID", ctx, "user-1").Return(user, nil)
	m.userRepo.On("UpdatePremium", ctx, "user-1", true, (*time.Time)(nil)).Return(nil)
	m.spinRecordRepo.On("Create", ctx, mock.MatchedBy(func(r *models.SpinRecord) bool {
		return r.PrizeID == "premium_lifetime" && r.PrizeMinutes == nil
	})).Return(nil)
	m.eventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		granted, ok := e.(events.PremiumGrantedEvent)
		return ok && granted.Lifetime
	})).Return()
	m.eventPublisher.On("Publish", mock.AnythingOfType("events.SpinCompletedEvent")).Return()

	result, err := svc.Spin(ctx, "user-1", "premium")

	require.NoError(t, err)
	assert.Equal(t, "premium_lifetime", result.PrizeID)
	assert.Nil(t, result.Minutes)

	m.assertExpectations(t)
}

func TestRouletteService_Spin_NoTokensAvailable(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	svc := NewRouletteService(m.factory, NewWeightedSelector(nil), testConfig())

	user := &models.User{ID: "user-1"}

	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("EnsureDailyReset", ctx, "user-1", 1, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil)
	m.userRepo.On("ReserveToken", ctx, "user-1", models.RouletteTypeDaily).Return(false, nil)
	m.userRepo.On("GetByID", ctx, "user-1").Return(user, nil)

	result, err := svc.Spin(ctx, "user-1", "daily")

	assert.ErrorIs(t, err, ErrNoTokensAvailable)
	assert.Nil(t, result)

	// No prize drawn, nothing recorded, premium untouched
	m.spinRecordRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.userRepo.AssertNotCalled(t, "UpdatePremium", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestRouletteService_Spin_UserNotFound(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	svc := NewRouletteService(m.factory, NewWeightedSelector(nil), testConfig())

	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("EnsureDailyReset", ctx, "ghost", 1, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil)
	m.userRepo.On("ReserveToken", ctx, "ghost", models.RouletteTypeDaily).Return(false, nil)
	m.userRepo.On("GetByID", ctx, "ghost").Return(nil, nil)

	result, err := svc.Spin(ctx, "ghost", "daily")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, result)
	m.assertExpectations(t)
}

func TestRouletteService_Spin_InvalidType(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	svc := NewRouletteService(m.factory, NewWeightedSelector(nil), testConfig())

	result, err := svc.Spin(ctx, "user-1", "bogus")

	assert.ErrorIs(t, err, ErrInvalidRouletteType)
	assert.Nil(t, result)

	// Rejected before any state is touched
	m.factory.AssertNotCalled(t, "Create")
}

func TestRouletteService_Spin_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	svc := NewRouletteService(m.factory, NewWeightedSelector(nil), testConfig())

	result, err := svc.Spin(ctx, "", "daily")

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, result)
	m.factory.AssertNotCalled(t, "Create")
}

func TestRouletteService_Status(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	svc := NewRouletteService(m.factory, NewWeightedSelector(nil), testConfig())

	lastReset := time.Now().UTC().Add(-2 * time.Hour)
	user := &models.User{ID: "user-1", DailyTokens: 1, PremiumTokens: 2, LastDailyReset: &lastReset}
	dailyHistory := []*models.SpinRecord{{ID: 2, PrizeID: "daily_10min"}, {ID: 1, PrizeID: "daily_nothing"}}
	premiumHistory := []*models.SpinRecord{{ID: 3, PrizeID: "premium_3days"}}

	m.expectTransaction(ctx)
	m.userRepo.On("EnsureDailyReset", ctx, "user-1", 1, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(true, nil)
	m.userRepo.On("GetByID", ctx, "user-1").Return(user, nil)
	m.spinRecordRepo.On("GetRecentByUser", ctx, "user-1", models.RouletteTypeDaily, 5).Return(dailyHistory, nil)
	m.spinRecordRepo.On("GetRecentByUser", ctx, "user-1", models.RouletteTypePremium, 5).Return(premiumHistory, nil)
	m.eventPublisher.On("Publish", mock.AnythingOfType("events.DailyTokensResetEvent")).Return()

	status, err := svc.Status(ctx, "user-1")

	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, 1, status.DailyTokens)
	assert.Equal(t, 2, status.PremiumTokens)
	assert.Equal(t, &lastReset, status.LastDailyReset)
	assert.Len(t, status.DailyHistory, 2)
	assert.Len(t, status.PremiumHistory, 1)

	m.assertExpectations(t)
}

func TestRouletteService_Status_UserNotFound(t *testing.T) {
	ctx := context.Background()
	m := newRouletteMocks()

	svc := NewRouletteService(m.factory, NewWeightedSelector(nil), testConfig())

	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("EnsureDailyReset", ctx, "ghost", 1, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil)
	m.userRepo.On("GetByID", ctx, "ghost").Return(nil, nil)

	status, err := svc.Status(ctx, "ghost")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, status)
	m.assertExpectations(t)
}
