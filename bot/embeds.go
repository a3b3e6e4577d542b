package bot

import (
	"fmt"
	"strings"
	"time"

	"gamewin/bot/common"
	"gamewin/events"
	"gamewin/models"

	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
)

var gameLabels = map[models.Game]string{
	models.GamePUBG:     "PUBG",
	models.GameFreeFire: "Free Fire",
}

var modeLabels = map[models.GameMode]string{
	models.GameModeSolo:  "Solo",
	models.GameModeDuo:   "Duo",
	models.GameModeSquad: "Squad",
}

// BuildTournamentCreatedEmbed announces a newly published tournament
func BuildTournamentCreatedEmbed(e events.TournamentCreatedEvent) *discordgo.MessageEmbed {
	start := e.StartTime
	if parsed, err := time.Parse(time.RFC3339, e.StartTime); err == nil {
		start = fmt.Sprintf("%s (%s)",
			common.FormatDiscordTimestamp(parsed, "F"),
			common.FormatDiscordTimestamp(parsed, "R"))
	}

	return &discordgo.MessageEmbed{
		Title:       "🎮 New Tournament: " + e.Title,
		Description: "Registration is open!",
		Color:       ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Game", Value: gameLabel(e.Game), Inline: true},
			{Name: "Mode", Value: modeLabel(e.GameMode), Inline: true},
			{Name: "Seats", Value: fmt.Sprintf("%d", e.MaxPlayers), Inline: true},
			{Name: "Entry Fee", Value: entryFeeLabel(e), Inline: true},
			{Name: "Prize Pool", Value: common.FormatMoney(e.PrizePool), Inline: true},
			{Name: "Starts", Value: start, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Tournament %s", e.TournamentID),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// BuildPrizeEmbed congratulates a player who won prize money
func BuildPrizeEmbed(e events.ResultSettledEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🏆 Prize Awarded",
		Description: fmt.Sprintf("**%s** won **%s** in **%s**!",
			e.Username, common.FormatMoney(e.Prize), e.TournamentTitle),
		Color: ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Placement", Value: common.FormatPlacement(e.Position), Inline: true},
			{Name: "Kills", Value: fmt.Sprintf("%d", e.Kills), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// BuildStatusEmbed announces a lifecycle transition. Returns nil for transitions not worth announcing.
func BuildStatusEmbed(e events.TournamentStatusChangedEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Timestamp: time.Now().Format(time.RFC3339),
	}

	switch e.NewStatus {
	case models.TournamentStatusLive:
		embed.Title = "🔴 Live Now: " + e.Title
		embed.Description = "The match has started. Good luck to everyone registered!"
		embed.Color = ColorWarning
	case models.TournamentStatusCompleted:
		embed.Title = "✅ Finished: " + e.Title
		embed.Description = "Results are in. Check the leaderboard!"
		embed.Color = ColorSuccess
	case models.TournamentStatusCancelled:
		embed.Title = "⛔ Cancelled: " + e.Title
		embed.Color = ColorDanger
		if n := len(e.RefundedUsers); n > 0 {
			embed.Description = fmt.Sprintf("Entry fees were refunded to %d %s.", n, plural(n, "player", "players"))
		} else {
			embed.Description = "No entry fees needed refunding."
		}
	default:
		return nil
	}
	return embed
}

// BuildLeaderboardEmbed renders the top players
func BuildLeaderboardEmbed(entries []*models.LeaderboardEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🏆 Leaderboard 🏆",
		Color:     ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(entries) == 0 {
		embed.Description = "No players ranked yet."
		return embed
	}

	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "%s **%s** %s (%s this week), %d %s\n",
			rankLabel(entry.Rank),
			entry.Username,
			common.FormatMoney(entry.TotalEarnings),
			common.FormatMoney(entry.WeeklyEarnings),
			entry.TournamentsWon,
			plural(entry.TournamentsWon, "win", "wins"),
		)
	}
	embed.Description = sb.String()
	return embed
}

// BuildTournamentListEmbed renders tournaments open for registration
func BuildTournamentListEmbed(tournaments []*models.Tournament) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🎮 Upcoming Tournaments",
		Color:     ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(tournaments) == 0 {
		embed.Description = "No tournaments are open right now."
		return embed
	}

	for _, t := range tournaments {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s (%s %s)", t.Title, gameLabel(t.Game), modeLabel(t.GameMode)),
			Value: fmt.Sprintf("Entry %s, prize pool %s, %d/%d seats, starts %s",
				common.FormatMoney(t.EntryFee),
				common.FormatMoney(t.PrizePool),
				t.CurrentPlayers, t.MaxPlayers,
				common.FormatDiscordTimestamp(t.StartTime, "R")),
		})
	}
	return embed
}

func gameLabel(g models.Game) string {
	if label, ok := gameLabels[g]; ok {
		return label
	}
	return string(g)
}

func modeLabel(m models.GameMode) string {
	if label, ok := modeLabels[m]; ok {
		return label
	}
	return string(m)
}

func entryFeeLabel(e events.TournamentCreatedEvent) string {
	if e.EntryFee.IsZero() {
		return "Free"
	}
	return common.FormatMoney(e.EntryFee)
}

func rankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
