package cmd

import (
	"context"
	"fmt"

	"roulette/api"
	"roulette/config"
	"roulette/database"
	"roulette/events"
	"roulette/models"
	"roulette/repository"
	"roulette/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting roulette service...")

	cfg := config.Get()

	// A bad prize-table edit should kill the process at startup, not
	// surface mid-spin
	if err := models.ValidatePrizeTables(); err != nil {
		return fmt.Errorf("invalid prize configuration: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	registerAuditSubscribers(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	selector := service.NewWeightedSelector(nil)
	rouletteService := service.NewRouletteService(uowFactory, selector, cfg)

	server := api.NewServer(cfg, rouletteService)

	log.WithField("environment", cfg.Environment).Info("Roulette service is running")
	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Shutdown completed")
	return nil
}

// registerAuditSubscribers logs the domain events that matter for support:
// spins, premium grants and daily resets.
func registerAuditSubscribers(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSpinCompleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SpinCompletedEvent); ok {
			log.WithFields(log.Fields{
				"userID":       e.UserID,
				"rouletteType": e.RouletteType,
				"prizeID":      e.PrizeID,
			}).Info("Audit: spin completed")
		}
	})

	bus.Subscribe(events.EventTypePremiumGranted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.PremiumGrantedEvent); ok {
			log.WithFields(log.Fields{
				"userID":   e.UserID,
				"lifetime": e.Lifetime,
			}).Info("Audit: premium granted")
		}
	})

	bus.Subscribe(events.EventTypeDailyTokensReset, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.DailyTokensResetEvent); ok {
			log.WithFields(log.Fields{
				"userID": e.UserID,
				"tokens": e.Tokens,
			}).Debug("Audit: daily tokens reset")
		}
	})
}
