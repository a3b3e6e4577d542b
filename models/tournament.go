package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Game identifies the title a tournament is played in
type Game string

const (
	GamePUBG     Game = "PUBG"
	GameFreeFire Game = "FREE_FIRE"
)

// Valid reports whether g is a supported game
func (g Game) Valid() bool {
	return g == GamePUBG || g == GameFreeFire
}

// GameMode is the team size of a tournament
type GameMode string

const (
	GameModeSolo  GameMode = "solo"
	GameModeDuo   GameMode = "duo"
	GameModeSquad GameMode = "squad"
)

// Valid reports whether m is a supported mode
func (m GameMode) Valid() bool {
	return m == GameModeSolo || m == GameModeDuo || m == GameModeSquad
}

// TournamentStatus represents the lifecycle state of a tournament
type TournamentStatus string

const (
	TournamentStatusUpcoming  TournamentStatus = "upcoming"
	TournamentStatusLive      TournamentStatus = "live"
	TournamentStatusCompleted TournamentStatus = "completed"
	TournamentStatusCancelled TournamentStatus = "cancelled"
)

var tournamentTransitions = map[TournamentStatus][]TournamentStatus{
	TournamentStatusUpcoming: {TournamentStatusLive, TournamentStatusCancelled},
	TournamentStatusLive:     {TournamentStatusCompleted, TournamentStatusCancelled},
}

// Valid reports whether s is a known status
func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentStatusUpcoming, TournamentStatusLive, TournamentStatusCompleted, TournamentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s TournamentStatus) IsTerminal() bool {
	return s == TournamentStatusCompleted || s == TournamentStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	for _, allowed := range tournamentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Tournament represents a scheduled match with an entry fee and placement prizes
type Tournament struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	Slug           string           `db:"slug" json:"slug"`
	Title          string           `db:"title" json:"title"`
	Description    string           `db:"description" json:"description"`
	Game           Game             `db:"game" json:"game"`
	GameMode       GameMode         `db:"game_mode" json:"gameMode"`
	Map            string           `db:"map" json:"map"`
	PrizePool      decimal.Decimal  `db:"prize_pool" json:"prizePool"`
	EntryFee       decimal.Decimal  `db:"entry_fee" json:"entryFee"`
	FirstPrize     decimal.Decimal  `db:"first_prize" json:"firstPrize"`
	SecondPrize    decimal.Decimal  `db:"second_prize" json:"secondPrize"`
	ThirdPrize     decimal.Decimal  `db:"third_prize" json:"thirdPrize"`
	MaxPlayers     int              `db:"max_players" json:"maxPlayers"`
	CurrentPlayers int              `db:"current_players" json:"currentPlayers"`
	Status         TournamentStatus `db:"status" json:"status"`
	RoomID         *string          `db:"room_id" json:"roomId,omitempty"`
	RoomPassword   *string          `db:"room_password" json:"roomPassword,omitempty"`
	StartTime      time.Time        `db:"start_time" json:"startTime"`
	EndTime        *time.Time       `db:"end_time" json:"endTime,omitempty"`
	CreatedBy      *uuid.UUID       `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}

// IsFull reports whether every seat is taken
func (t *Tournament) IsFull() bool {
	return t.CurrentPlayers >= t.MaxPlayers
}

// IsOpen reports whether players can still register
func (t *Tournament) IsOpen() bool {
	return t.Status == TournamentStatusUpcoming
}

// PrizeForPosition returns the prize paid for a final placement.
// Positions outside the podium, and a missing position, pay nothing.
func (t *Tournament) PrizeForPosition(position *int) decimal.Decimal {
	if position == nil {
		return decimal.Zero
	}
	switch *position {
	case 1:
		return t.FirstPrize
	case 2:
		return t.SecondPrize
	case 3:
		return t.ThirdPrize
	default:
		return decimal.Zero
	}
}

// WithoutRoomCredentials returns a copy safe to show to players who have not joined
func (t *Tournament) WithoutRoomCredentials() *Tournament {
	clone := *t
	clone.RoomID = nil
	clone.RoomPassword = nil
	return &clone
}

// CreateTournamentParams holds the admin input for a new tournament
type CreateTournamentParams struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Game         Game            `json:"game"`
	GameMode     GameMode        `json:"gameMode"`
	Map          string          `json:"map"`
	PrizePool    decimal.Decimal `json:"prizePool"`
	EntryFee     decimal.Decimal `json:"entryFee"`
	FirstPrize   decimal.Decimal `json:"firstPrize"`
	SecondPrize  decimal.Decimal `json:"secondPrize"`
	ThirdPrize   decimal.Decimal `json:"thirdPrize"`
	MaxPlayers   int             `json:"maxPlayers"`
	StartTime    time.Time       `json:"startTime"`
	RoomID       *string         `json:"roomId,omitempty"`
	RoomPassword *string         `json:"roomPassword,omitempty"`
	CreatedBy    *uuid.UUID      `json:"-"`
}
