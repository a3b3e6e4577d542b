package bot

import (
	"context"
	"fmt"
	"time"

	"gamewin/bot/common"
	"gamewin/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	leaderboardSize  = 10
	tournamentsShown = 5
	commandTimeout   = 10 * time.Second
)

var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "leaderboard",
		Description: "Show the top earning players",
	},
	{
		Name:        "tournaments",
		Description: "List tournaments open for registration",
	},
}

func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "leaderboard":
		b.handleLeaderboard(s, i)
	case "tournaments":
		b.handleTournaments(s, i)
	}
}

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring leaderboard response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	entries, err := b.statsService.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		log.WithError(err).Error("Failed to load leaderboard")
		common.FollowUpWithError(s, i, "Unable to load the leaderboard. Please try again.")
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildLeaderboardEmbed(entries), false); err != nil {
		log.Errorf("Error sending leaderboard: %v", err)
	}
}

func (b *Bot) handleTournaments(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring tournaments response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	status := models.TournamentStatusUpcoming
	tournaments, err := b.tournamentService.ListTournaments(ctx, &status, tournamentsShown)
	if err != nil {
		log.WithError(err).Error("Failed to list tournaments")
		common.FollowUpWithError(s, i, "Unable to load tournaments. Please try again.")
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildTournamentListEmbed(tournaments), false); err != nil {
		log.Errorf("Error sending tournaments: %v", err)
	}
}
