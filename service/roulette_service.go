package service

import (
	"context"
	"fmt"
	"time"

	"roulette/config"
	"roulette/events"
	"roulette/models"

	log "github.com/sirupsen/logrus"
)

// rouletteService implements the RouletteService interface
type rouletteService struct {
	uowFactory UnitOfWorkFactory
	selector   *WeightedSelector
	cfg        *config.Config
}

// NewRouletteService creates a new roulette service
func NewRouletteService(uowFactory UnitOfWorkFactory, selector *WeightedSelector, cfg *config.Config) RouletteService {
	return &rouletteService{
		uowFactory: uowFactory,
		selector:   selector,
		cfg:        cfg,
	}
}

// Status returns the user's token balances and recent spin history. The daily
// reset runs first so the returned balance always reflects today's allowance.
func (s *rouletteService) Status(ctx context.Context, userID string) (*RouletteStatus, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	now := time.Now().UTC()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := s.ensureDailyReset(ctx, uow, userID, now); err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	dailyHistory, err := uow.SpinRecordRepository().GetRecentByUser(ctx, userID, models.RouletteTypeDaily, s.cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily spin history: %w", err)
	}
	premiumHistory, err := uow.SpinRecordRepository().GetRecentByUser(ctx, userID, models.RouletteTypePremium, s.cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get premium spin history: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &RouletteStatus{
		DailyTokens:    user.DailyTokens,
		PremiumTokens:  user.PremiumTokens,
		LastDailyReset: user.LastDailyReset,
		DailyHistory:   dailyHistory,
		PremiumHistory: premiumHistory,
	}, nil
}

// Spin consumes one token, draws a prize, applies its premium effect and
// records the outcome. Reservation, entitlement write and history append share
// one transaction: a failure at any step rolls the whole spin back, so a
// consumed token can never be left without a recorded outcome.
func (s *rouletteService) Spin(ctx context.Context, userID string, rawType string) (*SpinResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	rouletteType, err := models.ParseRouletteType(rawType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRouletteType, rawType)
	}
	table, err := models.PrizeTableFor(rouletteType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRouletteType, rawType)
	}

	now := time.Now().UTC()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := s.ensureDailyReset(ctx, uow, userID, now); err != nil {
		return nil, err
	}

	reserved, err := uow.UserRepository().ReserveToken(ctx, userID, rouletteType)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve token: %w", err)
	}
	if !reserved {
		// Distinguish an empty balance from a missing user record
		user, err := uow.UserRepository().GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		return nil, ErrNoTokensAvailable
	}

	prize, err := s.selector.Draw(table)
	if err != nil {
		return nil, fmt.Errorf("failed to draw prize: %w", err)
	}

	// The reservation UPDATE holds the row lock, so this read sees the
	// serialized premium state for this user
	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	isPremium, expiresAt := ApplyPrize(user, prize, now)
	if isPremium != user.IsPremium || !equalExpiry(expiresAt, user.PremiumExpiresAt) {
		if err := uow.UserRepository().UpdatePremium(ctx, userID, isPremium, expiresAt); err != nil {
			return nil, fmt.Errorf("failed to update premium state: %w", err)
		}
		uow.EventBus().Publish(events.PremiumGrantedEvent{
			UserID:    userID,
			Lifetime:  expiresAt == nil,
			ExpiresAt: expiresAt,
		})
	}

	record := &models.SpinRecord{
		UserID:       userID,
		RouletteType: rouletteType,
		PrizeID:      prize.ID,
		PrizeMinutes: prize.Minutes,
		SpunAt:       now,
	}
	if err := uow.SpinRecordRepository().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create spin record: %w", err)
	}

	uow.EventBus().Publish(events.SpinCompletedEvent{
		UserID:       userID,
		RouletteType: rouletteType,
		PrizeID:      prize.ID,
		PrizeMinutes: prize.Minutes,
		SpunAt:       record.SpunAt,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":       userID,
		"rouletteType": rouletteType,
		"prizeID":      prize.ID,
	}).Info("Spin completed")

	return &SpinResult{
		PrizeID: prize.ID,
		Label:   prize.Label,
		Minutes: prize.Minutes,
	}, nil
}

// ensureDailyReset replenishes the daily allowance when the last reset falls
// before the start of the current UTC day, publishing an event if it did.
func (s *rouletteService) ensureDailyReset(ctx context.Context, uow UnitOfWork, userID string, now time.Time) error {
	reset, err := uow.UserRepository().EnsureDailyReset(ctx, userID, s.cfg.DailyTokenAllowance, StartOfDayUTC(now), now)
	if err != nil {
		return fmt.Errorf("failed to apply daily reset: %w", err)
	}
	if reset {
		uow.EventBus().Publish(events.DailyTokensResetEvent{
			UserID: userID,
			Tokens: s.cfg.DailyTokenAllowance,
		})
	}
	return nil
}

func equalExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
