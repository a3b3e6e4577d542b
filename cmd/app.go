package cmd

import (
	"context"
	"fmt"
	"time"

	"gamewin/api"
	"gamewin/config"
	"gamewin/database"
	"gamewin/events"
	"gamewin/repository"
	"gamewin/service"

	log "github.com/sirupsen/logrus"
)

// application holds the wiring shared by every subcommand
type application struct {
	cfg      *config.Config
	db       *database.DB
	eventBus *events.Bus
	services api.Services
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	bonusLocation, err := time.LoadLocation(cfg.BonusTimezone)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load bonus timezone: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus, cfg.LockTimeout)
	policy := service.TxPolicy{
		Timeout:     cfg.TxTimeout,
		MaxAttempts: cfg.TxMaxAttempts,
		BaseDelay:   service.DefaultTxPolicy.BaseDelay,
	}

	services := api.Services{
		Users:       service.NewUserService(uowFactory, policy, cfg.BcryptCost),
		Wallet:      service.NewWalletService(uowFactory, policy),
		Tournaments: service.NewTournamentService(uowFactory, policy),
		Spins:       service.NewSpinService(uowFactory, policy, nil),
		Bonus: service.NewBonusService(uowFactory, policy, service.BonusConfig{
			Dil:      cfg.DailyBonusDil,
			Cash:     cfg.DailyBonusCash,
			Location: bonusLocation,
		}, nil),
		Stats:          service.NewStatsService(uowFactory),
		Advertisements: service.NewAdvertisementService(uowFactory, policy),
		Notifications:  service.NewNotificationService(uowFactory, policy),
	}
	log.Info("Services initialized successfully")

	return &application{
		cfg:      cfg,
		db:       db,
		eventBus: eventBus,
		services: services,
	}, nil
}

func (a *application) close() {
	log.Info("Closing database connection...")
	a.db.Close()
}

// configureLogging applies LOG_LEVEL and switches to JSON output in production
func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("logLevel", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
