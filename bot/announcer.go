package bot

import (
	"context"

	"gamewin/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// EmbedSender is the part of a discord session the announcer needs
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts tournament news to a Discord channel
type Announcer struct {
	sender    EmbedSender
	channelID string
}

// NewAnnouncer creates an announcer posting to channelID
func NewAnnouncer(sender EmbedSender, channelID string) *Announcer {
	return &Announcer{
		sender:    sender,
		channelID: channelID,
	}
}

// Subscribe registers the announcer for the events it posts about
func (a *Announcer) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeTournamentCreated, a.HandleEvent)
	bus.Subscribe(events.EventTypeResultSettled, a.HandleEvent)
	bus.Subscribe(events.EventTypeTournamentStatusChanged, a.HandleEvent)
}

// HandleEvent posts an embed for a committed event, ignoring anything unannounced
func (a *Announcer) HandleEvent(ctx context.Context, event events.Event) {
	var embed *discordgo.MessageEmbed

	switch e := event.(type) {
	case events.TournamentCreatedEvent:
		embed = BuildTournamentCreatedEmbed(e)
	case events.ResultSettledEvent:
		if !e.Prize.IsPositive() {
			return
		}
		embed = BuildPrizeEmbed(e)
	case events.TournamentStatusChangedEvent:
		embed = BuildStatusEmbed(e)
	}
	if embed == nil {
		return
	}

	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"channelID": a.channelID,
			"error":     err,
		}).Error("Failed to post announcement")
	}
}
