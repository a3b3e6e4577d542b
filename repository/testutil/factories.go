package testutil

import (
	"fmt"
	"time"

	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestUser creates an active player with the given balances
func CreateTestUser(username string, balance decimal.Decimal, dil int64) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuu5xv6bAc5.o3QqvQm9rTYh3b0vl7UuVa",
		Role:         models.UserRoleUser,
		Balance:      balance,
		DilBalance:   dil,
		IsActive:     true,
	}
}

// CreateTestTournament creates an upcoming solo PUBG tournament starting in an hour
func CreateTestTournament(title string, entryFee decimal.Decimal, maxPlayers int) *models.Tournament {
	id := uuid.New()
	return &models.Tournament{
		ID:          id,
		Slug:        fmt.Sprintf("%s-%s", "test", id.String()[:8]),
		Title:       title,
		Game:        models.GamePUBG,
		GameMode:    models.GameModeSolo,
		Map:         "Erangel",
		PrizePool:   decimal.RequireFromString("1000.00"),
		EntryFee:    entryFee,
		FirstPrize:  decimal.RequireFromString("500.00"),
		SecondPrize: decimal.RequireFromString("300.00"),
		ThirdPrize:  decimal.RequireFromString("200.00"),
		MaxPlayers:  maxPlayers,
		Status:      models.TournamentStatusUpcoming,
		StartTime:   time.Now().Add(time.Hour).UTC(),
	}
}

// CreateTestSpinReward creates an active wheel slice
func CreateTestSpinReward(kind models.RewardKind, value, probability string, dilCost int64) *models.SpinWheelReward {
	return &models.SpinWheelReward{
		Kind:        kind,
		Value:       decimal.RequireFromString(value),
		Probability: decimal.RequireFromString(probability),
		DilCost:     dilCost,
		IsActive:    true,
	}
}

// CreateTestAdvertisement creates an active banner for a slot
func CreateTestAdvertisement(title string, position models.AdPosition) *models.Advertisement {
	return &models.Advertisement{
		ID:          uuid.New(),
		Title:       title,
		Description: "Test campaign",
		Type:        models.AdTypeBanner,
		Position:    position,
		IsActive:    true,
	}
}
