package cmd

import (
	"context"
	"errors"
	"os"

	"gamewin/config"
	"gamewin/seed"

	log "github.com/sirupsen/logrus"
)

// Seed fills an empty database with sample accounts, tournaments and rewards
func Seed(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	playerPassword := os.Getenv("SEED_PLAYER_PASSWORD")
	if cfg.Environment == "production" && (adminPassword == "" || playerPassword == "") {
		return errors.New("SEED_ADMIN_PASSWORD and SEED_PLAYER_PASSWORD are required in production")
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	if playerPassword == "" {
		playerPassword = "password123"
	}

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	summary, err := seed.Run(ctx, seed.Services{
		Users:          app.services.Users,
		Wallet:         app.services.Wallet,
		Tournaments:    app.services.Tournaments,
		Spins:          app.services.Spins,
		Advertisements: app.services.Advertisements,
	}, seed.Options{
		AdminPassword:  adminPassword,
		PlayerPassword: playerPassword,
	}, cfg.DefaultSpinDilCost)
	if err != nil {
		return err
	}

	if !summary.Skipped {
		log.WithField("users", summary.Users).Info("Seed completed")
	}
	return nil
}
