package bot

import (
	"fmt"

	"gamewin/events"
	"gamewin/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token             string
	AnnounceChannelID string
}

// Bot posts announcements and answers read-only slash commands
type Bot struct {
	config            Config
	session           *discordgo.Session
	statsService      service.StatsService
	tournamentService service.TournamentService
	announcer         *Announcer
}

// New opens the Discord session, registers commands and subscribes the announcer
func New(config Config, statsService service.StatsService, tournamentService service.TournamentService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:            config,
		session:           dg,
		statsService:      statsService,
		tournamentService: tournamentService,
		announcer:         NewAnnouncer(dg, config.AnnounceChannelID),
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.announcer.Subscribe(eventBus)
	log.WithField("channelID", config.AnnounceChannelID).Info("Discord announcer subscribed")

	return bot, nil
}

// Close closes the Discord session
func (b *Bot) Close() error {
	return b.session.Close()
}
