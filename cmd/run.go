package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gamewin/api"
	"gamewin/bot"
	"gamewin/config"
	"gamewin/infrastructure"
	"gamewin/infrastructure/observability"
	"gamewin/workers"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting gamewin...")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics := observability.GetMetrics()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	// Committed events fan out to notifications, metrics, NATS and Discord
	app.eventBus.SubscribeAll(app.services.Notifications.HandleEvent)
	app.eventBus.SubscribeAll(metrics.HandleEvent)

	var natsClient *infrastructure.NATSClient
	if cfg.NATSEnabled {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return err
		}
		if err := natsClient.EnsureLedgerEventStream(); err != nil {
			natsClient.Close()
			return err
		}
		infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper(), metrics).Attach(app.eventBus)
		log.Info("NATS event publishing enabled")
	}

	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		discordBot, err = bot.New(bot.Config{
			Token:             cfg.DiscordToken,
			AnnounceChannelID: cfg.DiscordAnnounceChannel,
		}, app.services.Stats, app.services.Tournaments, app.eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		log.Info("Discord bot initialized successfully")
	}

	server := api.NewServer(app.services, app.db, api.Options{
		GatewayToken:       cfg.GatewayToken,
		DefaultSpinDilCost: cfg.DefaultSpinDilCost,
		Observer:           metrics,
	})

	worker := workers.NewTournamentStartWorker(app.services.Tournaments, cfg.TournamentStartInterval, metrics)
	stopWorker, err := worker.Start(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.Listen(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down HTTP server")
		}
		if err := stopWorker(); err != nil {
			log.WithError(err).Error("Error stopping tournament start worker")
		}
		if discordBot != nil {
			if err := discordBot.Close(); err != nil {
				log.WithError(err).Error("Error closing Discord bot")
			}
		}
		if natsClient != nil {
			natsClient.Close()
		}
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down metrics")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Shutdown completed")
	return nil
}
