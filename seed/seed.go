package seed

import (
	"context"
	"fmt"
	"time"

	"gamewin/models"
	"gamewin/service"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Services are the operations the seeder drives. Seeding goes through them so
// every balance is backed by ledger entries.
type Services struct {
	Users          service.UserService
	Wallet         service.WalletService
	Tournaments    service.TournamentService
	Spins          service.SpinService
	Advertisements service.AdvertisementService
}

// Options controls the generated data
type Options struct {
	AdminPassword  string
	PlayerPassword string
	Now            time.Time
}

// Summary reports what Run created
type Summary struct {
	Skipped       bool
	Users         int
	Tournaments   int
	Registrations int
	SpinRewards   int
	Ads           int
}

type player struct {
	username string
	email    string
	deposit  string
}

var players = []player{
	{"ProGamer2023", "progamer@example.com", "2850.00"},
	{"FireKing", "fireking@example.com", "1250.00"},
	{"BattleQueen", "battlequeen@example.com", "3400.00"},
}

type tournamentSeed struct {
	params  models.CreateTournamentParams
	offset  time.Duration
	goLive  bool
	joiners []int
}

func tournamentSeeds() []tournamentSeed {
	return []tournamentSeed{
		{
			params: models.CreateTournamentParams{
				Title:       "PUBG Mobile Clash",
				Description: "Epic battle royale tournament with huge prizes",
				Game:        models.GamePUBG,
				GameMode:    models.GameModeSquad,
				Map:         "Erangel",
				PrizePool:   dec("10000.00"),
				EntryFee:    dec("50.00"),
				FirstPrize:  dec("5000.00"),
				SecondPrize: dec("3000.00"),
				ThirdPrize:  dec("2000.00"),
				MaxPlayers:  100,
				RoomID:      ptr("PUBG2023"),
			},
			offset:  -2 * time.Hour,
			goLive:  true,
			joiners: []int{0, 1},
		},
		{
			params: models.CreateTournamentParams{
				Title:       "PUBG Pro Championship",
				Description: "Professional level tournament for serious gamers",
				Game:        models.GamePUBG,
				GameMode:    models.GameModeSquad,
				Map:         "Sanhok",
				PrizePool:   dec("50000.00"),
				EntryFee:    dec("200.00"),
				FirstPrize:  dec("25000.00"),
				SecondPrize: dec("15000.00"),
				ThirdPrize:  dec("10000.00"),
				MaxPlayers:  100,
				RoomID:      ptr("PUBGPRO2023"),
			},
			offset:  150 * time.Minute,
			joiners: []int{2},
		},
		{
			params: models.CreateTournamentParams{
				Title:       "Free Fire Battle Royale",
				Description: "Fast-paced Free Fire tournament",
				Game:        models.GameFreeFire,
				GameMode:    models.GameModeSolo,
				Map:         "Bermuda",
				PrizePool:   dec("25000.00"),
				EntryFee:    dec("100.00"),
				FirstPrize:  dec("12500.00"),
				SecondPrize: dec("7500.00"),
				ThirdPrize:  dec("5000.00"),
				MaxPlayers:  50,
				RoomID:      ptr("FF2023"),
			},
			offset: -time.Hour,
			goLive: true,
		},
		{
			params: models.CreateTournamentParams{
				Title:       "Weekend Warriors PUBG",
				Description: "Casual weekend tournament for all skill levels",
				Game:        models.GamePUBG,
				GameMode:    models.GameModeDuo,
				Map:         "Miramar",
				PrizePool:   dec("5000.00"),
				EntryFee:    dec("25.00"),
				FirstPrize:  dec("2500.00"),
				SecondPrize: dec("1500.00"),
				ThirdPrize:  dec("1000.00"),
				MaxPlayers:  80,
				RoomID:      ptr("WEEKEND2023"),
			},
			offset: 24 * time.Hour,
		},
	}
}

func spinRewardSeeds(dilCost int64) []models.CreateSpinRewardParams {
	return []models.CreateSpinRewardParams{
		{Kind: models.RewardKindDil, Value: dec("5"), Probability: dec("0.35"), DilCost: dilCost},
		{Kind: models.RewardKindDil, Value: dec("20"), Probability: dec("0.20"), DilCost: dilCost},
		{Kind: models.RewardKindCash, Value: dec("10.00"), Probability: dec("0.25"), DilCost: dilCost},
		{Kind: models.RewardKindCash, Value: dec("50.00"), Probability: dec("0.05"), DilCost: dilCost},
		{Kind: models.RewardKindMedal, Value: dec("1"), Probability: dec("0.15"), DilCost: dilCost},
	}
}

func advertisementSeeds() []*models.Advertisement {
	return []*models.Advertisement{
		{
			Title:       "Gaming Headset Sale",
			Description: "Up to 40% off pro headsets this week",
			ImageURL:    "https://cdn.example.com/ads/headset.png",
			TargetURL:   "https://shop.example.com/headsets",
			Type:        models.AdTypeBanner,
			Position:    models.AdPositionHomeTop,
			IsActive:    true,
		},
		{
			Title:       "Top Up Your Wallet",
			Description: "Add money and join the next championship",
			ImageURL:    "https://cdn.example.com/ads/wallet.png",
			TargetURL:   "https://gamewin.example.com/wallet",
			Type:        models.AdTypeNative,
			Position:    models.AdPositionTournaments,
			IsActive:    true,
		},
	}
}

// Run creates sample accounts, tournaments, spin rewards and ads. It does
// nothing when any user exists already.
func Run(ctx context.Context, svc Services, opts Options, spinDilCost int64) (*Summary, error) {
	existing, err := svc.Users.ListUsers(ctx, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		log.Info("Sample data already exists, skipping seed")
		return &Summary{Skipped: true}, nil
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	summary := &Summary{}

	admin, err := svc.Users.Register(ctx, models.RegisterParams{
		Username: "admin",
		Email:    "admin@gamewin.com",
		Password: opts.AdminPassword,
		Role:     models.UserRoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	summary.Users++

	seeded := make([]*models.User, 0, len(players))
	for _, p := range players {
		user, err := svc.Users.Register(ctx, models.RegisterParams{
			Username: p.username,
			Email:    p.email,
			Password: opts.PlayerPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create player %s: %w", p.username, err)
		}
		if _, err := svc.Wallet.AddFunds(ctx, user.ID, dec(p.deposit)); err != nil {
			return nil, fmt.Errorf("failed to fund player %s: %w", p.username, err)
		}
		seeded = append(seeded, user)
		summary.Users++
	}

	for _, seed := range tournamentSeeds() {
		params := seed.params
		params.StartTime = opts.Now.Add(seed.offset)
		params.CreatedBy = &admin.ID

		tournament, err := svc.Tournaments.CreateTournament(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to create tournament %q: %w", params.Title, err)
		}
		summary.Tournaments++

		for _, idx := range seed.joiners {
			if _, err := svc.Tournaments.JoinTournament(ctx, seeded[idx].ID, tournament.ID); err != nil {
				return nil, fmt.Errorf("failed to join %s to %q: %w", seeded[idx].Username, params.Title, err)
			}
			summary.Registrations++
		}

		if seed.goLive {
			if _, err := svc.Tournaments.UpdateStatus(ctx, tournament.ID, models.TournamentStatusLive); err != nil {
				return nil, fmt.Errorf("failed to start %q: %w", params.Title, err)
			}
		}
	}

	for _, params := range spinRewardSeeds(spinDilCost) {
		if _, err := svc.Spins.CreateReward(ctx, params); err != nil {
			return nil, fmt.Errorf("failed to create spin reward: %w", err)
		}
		summary.SpinRewards++
	}

	for _, ad := range advertisementSeeds() {
		if _, err := svc.Advertisements.Create(ctx, ad); err != nil {
			return nil, fmt.Errorf("failed to create advertisement %q: %w", ad.Title, err)
		}
		summary.Ads++
	}

	log.WithFields(log.Fields{
		"users":         summary.Users,
		"tournaments":   summary.Tournaments,
		"registrations": summary.Registrations,
		"spinRewards":   summary.SpinRewards,
		"ads":           summary.Ads,
	}).Info("Sample data created")

	return summary, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *string {
	return &s
}
