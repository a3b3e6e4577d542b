package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	maxSlugAttempts        = 20
	maxTournamentListLimit = 100
)

type tournamentService struct {
	uowFactory UnitOfWorkFactory
	policy     TxPolicy
}

// NewTournamentService creates a new tournament service
func NewTournamentService(uowFactory UnitOfWorkFactory, policy TxPolicy) TournamentService {
	return &tournamentService{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, params models.CreateTournamentParams) (*models.Tournament, error) {
	if err := validateTournamentParams(params); err != nil {
		return nil, err
	}

	var tournament *models.Tournament
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		tournamentSlug, err := uniqueSlug(ctx, uow.TournamentRepository(), params.Title)
		if err != nil {
			return err
		}

		tournament = &models.Tournament{
			ID:           uuid.New(),
			Slug:         tournamentSlug,
			Title:        params.Title,
			Description:  params.Description,
			Game:         params.Game,
			GameMode:     params.GameMode,
			Map:          params.Map,
			PrizePool:    params.PrizePool,
			EntryFee:     params.EntryFee,
			FirstPrize:   params.FirstPrize,
			SecondPrize:  params.SecondPrize,
			ThirdPrize:   params.ThirdPrize,
			MaxPlayers:   params.MaxPlayers,
			Status:       models.TournamentStatusUpcoming,
			RoomID:       params.RoomID,
			RoomPassword: params.RoomPassword,
			StartTime:    params.StartTime.UTC(),
			CreatedBy:    params.CreatedBy,
		}
		if err := uow.TournamentRepository().Create(ctx, tournament); err != nil {
			return fmt.Errorf("failed to create tournament: %w", err)
		}

		uow.EventBus().Publish(events.TournamentCreatedEvent{
			TournamentID: tournament.ID,
			Title:        tournament.Title,
			Game:         tournament.Game,
			GameMode:     tournament.GameMode,
			EntryFee:     tournament.EntryFee,
			PrizePool:    tournament.PrizePool,
			MaxPlayers:   tournament.MaxPlayers,
			StartTime:    tournament.StartTime.Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"tournamentID": tournament.ID,
		"slug":         tournament.Slug,
		"startTime":    tournament.StartTime,
	}).Info("Tournament created")

	return tournament, nil
}

func validateTournamentParams(params models.CreateTournamentParams) error {
	if params.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !params.Game.Valid() {
		return fmt.Errorf("%w: unsupported game %q", ErrInvalidInput, params.Game)
	}
	if !params.GameMode.Valid() {
		return fmt.Errorf("%w: unsupported game mode %q", ErrInvalidInput, params.GameMode)
	}
	if params.MaxPlayers <= 0 {
		return fmt.Errorf("%w: max players must be positive", ErrInvalidInput)
	}
	if params.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	amounts := map[string]decimal.Decimal{
		"entry fee":    params.EntryFee,
		"prize pool":   params.PrizePool,
		"first prize":  params.FirstPrize,
		"second prize": params.SecondPrize,
		"third prize":  params.ThirdPrize,
	}
	for name, amount := range amounts {
		if amount.IsNegative() {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidAmount, name)
		}
		if !amount.Equal(amount.Round(2)) {
			return fmt.Errorf("%w: %s cannot have more than 2 decimal places", ErrInvalidAmount, name)
		}
	}

	prizes := params.FirstPrize.Add(params.SecondPrize).Add(params.ThirdPrize)
	if prizes.GreaterThan(params.PrizePool) {
		return fmt.Errorf("%w: prizes %s exceed prize pool %s", ErrInvalidAmount, prizes.StringFixed(2), params.PrizePool.StringFixed(2))
	}
	return nil
}

// uniqueSlug derives a slug from the title, adding a numeric suffix on collision
func uniqueSlug(ctx context.Context, repo TournamentRepository, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "tournament"
	}

	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func (s *tournamentService) GetTournament(ctx context.Context, tournamentID, viewerID uuid.UUID) (*models.Tournament, error) {
	var tournament *models.Tournament
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		tournament, err = uow.TournamentRepository().GetByID(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to get tournament: %w", err)
		}
		if tournament == nil {
			return ErrTournamentNotFound
		}

		if tournament.RoomID == nil && tournament.RoomPassword == nil {
			return nil
		}
		canSeeRoom, err := canSeeRoomCredentials(ctx, uow, tournamentID, viewerID)
		if err != nil {
			return err
		}
		if !canSeeRoom {
			tournament = tournament.WithoutRoomCredentials()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tournament, nil
}

func canSeeRoomCredentials(ctx context.Context, uow UnitOfWork, tournamentID, viewerID uuid.UUID) (bool, error) {
	if viewerID == uuid.Nil {
		return false, nil
	}

	viewer, err := uow.UserRepository().GetByID(ctx, viewerID)
	if err != nil {
		return false, fmt.Errorf("failed to get viewer: %w", err)
	}
	if viewer == nil {
		return false, nil
	}
	if viewer.IsAdmin() {
		return true, nil
	}

	registration, err := uow.RegistrationRepository().GetByUserAndTournament(ctx, viewerID, tournamentID)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return registration != nil, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, status *models.TournamentStatus, limit int) ([]*models.Tournament, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *status)
	}
	if limit <= 0 || limit > maxTournamentListLimit {
		limit = maxTournamentListLimit
	}

	var tournaments []*models.Tournament
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		list, err := uow.TournamentRepository().List(ctx, status, limit)
		if err != nil {
			return fmt.Errorf("failed to list tournaments: %w", err)
		}
		tournaments = make([]*models.Tournament, 0, len(list))
		for _, t := range list {
			tournaments = append(tournaments, t.WithoutRoomCredentials())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (s *tournamentService) JoinTournament(ctx context.Context, userID, tournamentID uuid.UUID) (*models.JoinResult, error) {
	var result *models.JoinResult
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		// Lock order is tournament, then user
		tournament, err := uow.TournamentRepository().GetByIDForUpdate(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to get tournament: %w", err)
		}
		if tournament == nil {
			return ErrTournamentNotFound
		}

		existing, err := uow.RegistrationRepository().GetByUserAndTournament(ctx, userID, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to check registration: %w", err)
		}
		if existing != nil {
			return ErrAlreadyRegistered
		}

		// A registered player gets ErrAlreadyRegistered whatever the status
		if !tournament.IsOpen() {
			return fmt.Errorf("%w: tournament is %s", ErrTournamentClosed, tournament.Status)
		}

		if tournament.IsFull() {
			return ErrTournamentFull
		}

		user, err := loadActiveUserForUpdate(ctx, uow, userID)
		if err != nil {
			return err
		}
		if !user.CanAfford(tournament.EntryFee) {
			return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, user.Balance.StringFixed(2), tournament.EntryFee.StringFixed(2))
		}

		registration := &models.Registration{
			ID:           uuid.New(),
			UserID:       userID,
			TournamentID: tournamentID,
			EntryFeePaid: tournament.EntryFee,
		}
		if err := uow.RegistrationRepository().Create(ctx, registration); err != nil {
			return fmt.Errorf("failed to create registration: %w", err)
		}

		if tournament.EntryFee.IsPositive() {
			newBalance, err := uow.UserRepository().DebitBalance(ctx, userID, tournament.EntryFee)
			if err != nil {
				return fmt.Errorf("failed to charge entry fee: %w", err)
			}
			entry := &models.Transaction{
				UserID:         userID,
				Type:           models.TransactionTypeEntryFee,
				Amount:         tournament.EntryFee.Neg(),
				Description:    fmt.Sprintf("Entry fee for %s", tournament.Title),
				TournamentID:   &tournament.ID,
				RegistrationID: &registration.ID,
			}
			if err := RecordLedgerEntry(ctx, uow, entry, newBalance, user.DilBalance); err != nil {
				return err
			}
			user.Balance = newBalance
		}

		players, err := uow.TournamentRepository().IncrementPlayers(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to take seat: %w", err)
		}
		tournament.CurrentPlayers = players

		uow.EventBus().Publish(events.TournamentJoinedEvent{
			TournamentID:    tournament.ID,
			TournamentTitle: tournament.Title,
			RegistrationID:  registration.ID,
			UserID:          userID,
			Username:        user.Username,
			EntryFee:        tournament.EntryFee,
			CurrentPlayers:  players,
			MaxPlayers:      tournament.MaxPlayers,
		})

		result = &models.JoinResult{
			Registration: registration,
			Tournament:   tournament,
			User:         user,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":         userID,
		"tournamentID":   tournamentID,
		"entryFee":       result.Tournament.EntryFee.StringFixed(2),
		"currentPlayers": result.Tournament.CurrentPlayers,
	}).Info("User joined tournament")

	return result, nil
}

func (s *tournamentService) SettleResult(ctx context.Context, registrationID uuid.UUID, position *int, kills int) (*models.SettlementResult, error) {
	if kills < 0 {
		return nil, fmt.Errorf("%w: kills cannot be negative", ErrInvalidInput)
	}
	if position != nil && *position < 1 {
		return nil, fmt.Errorf("%w: position must be at least 1", ErrInvalidInput)
	}

	var result *models.SettlementResult
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		registration, err := uow.RegistrationRepository().GetByIDForUpdate(ctx, registrationID)
		if err != nil {
			return fmt.Errorf("failed to get registration: %w", err)
		}
		if registration == nil {
			return ErrRegistrationNotFound
		}
		if registration.IsSettled() {
			return ErrAlreadySettled
		}
		if registration.IsRefunded() {
			return fmt.Errorf("%w: entry fee was refunded", ErrAlreadySettled)
		}

		tournament, err := uow.TournamentRepository().GetByID(ctx, registration.TournamentID)
		if err != nil {
			return fmt.Errorf("failed to get tournament: %w", err)
		}
		if tournament == nil {
			return ErrTournamentNotFound
		}

		prize := tournament.PrizeForPosition(position)
		settled, err := uow.RegistrationRepository().Settle(ctx, registrationID, models.RegistrationResult{
			Position: position,
			Kills:    kills,
			Earnings: prize,
		})
		if err != nil {
			return fmt.Errorf("failed to settle registration: %w", err)
		}

		user, err := uow.UserRepository().GetByIDForUpdate(ctx, registration.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}

		if prize.IsPositive() {
			if err := payPrize(ctx, uow, user, tournament, settled, prize); err != nil {
				return err
			}
		}

		uow.EventBus().Publish(events.ResultSettledEvent{
			RegistrationID:  settled.ID,
			TournamentID:    tournament.ID,
			TournamentTitle: tournament.Title,
			UserID:          user.ID,
			Username:        user.Username,
			Position:        position,
			Kills:           kills,
			Prize:           prize,
		})

		result = &models.SettlementResult{
			Registration: settled,
			Prize:        prize,
			User:         user,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"registrationID": registrationID,
		"prize":          result.Prize.StringFixed(2),
		"kills":          kills,
	}).Info("Registration settled")

	return result, nil
}

// payPrize credits a placement prize and updates the winner's statistics.
// Games played only counts placements that paid out.
func payPrize(ctx context.Context, uow UnitOfWork, user *models.User, tournament *models.Tournament, registration *models.Registration, prize decimal.Decimal) error {
	newBalance, err := uow.UserRepository().CreditBalance(ctx, user.ID, prize)
	if err != nil {
		return fmt.Errorf("failed to credit prize: %w", err)
	}

	delta := models.UserStatsDelta{
		TotalEarnings: prize,
		GamesPlayed:   1,
	}
	if registration.Position != nil && *registration.Position <= 3 {
		delta.TournamentsWon = 1
	}
	if err := uow.UserRepository().UpdateStats(ctx, user.ID, delta); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}

	entry := &models.Transaction{
		UserID:         user.ID,
		Type:           models.TransactionTypePrizeMoney,
		Amount:         prize,
		Description:    fmt.Sprintf("Prize for position %d in %s", *registration.Position, tournament.Title),
		TournamentID:   &tournament.ID,
		RegistrationID: &registration.ID,
	}
	if err := RecordLedgerEntry(ctx, uow, entry, newBalance, user.DilBalance); err != nil {
		return err
	}

	user.Balance = newBalance
	user.TotalEarnings = user.TotalEarnings.Add(prize)
	user.GamesPlayed += delta.GamesPlayed
	user.TournamentsWon += delta.TournamentsWon
	return nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, tournamentID uuid.UUID, status models.TournamentStatus) (*models.Tournament, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	var (
		tournament *models.Tournament
		oldStatus  models.TournamentStatus
		refunded   []uuid.UUID
	)
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		current, err := uow.TournamentRepository().GetByIDForUpdate(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to get tournament: %w", err)
		}
		if current == nil {
			return ErrTournamentNotFound
		}
		if !current.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, status)
		}
		oldStatus = current.Status

		if err := uow.TournamentRepository().UpdateStatus(ctx, tournamentID, current.Status, status); err != nil {
			return fmt.Errorf("failed to update tournament status: %w", err)
		}

		refunded = nil
		if status == models.TournamentStatusCancelled {
			refunded, err = refundEntryFees(ctx, uow, current)
			if err != nil {
				return err
			}
		}

		tournament, err = uow.TournamentRepository().GetByID(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to reload tournament: %w", err)
		}

		uow.EventBus().Publish(events.TournamentStatusChangedEvent{
			TournamentID:  tournamentID,
			Title:         current.Title,
			OldStatus:     oldStatus,
			NewStatus:     status,
			RefundedUsers: refunded,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"tournamentID": tournamentID,
		"oldStatus":    oldStatus,
		"newStatus":    status,
		"refunds":      len(refunded),
	}).Info("Tournament status changed")

	return tournament, nil
}

// refundEntryFees returns the entry fee of every registration that has
// neither a result nor a refund. It runs inside the cancelling unit of work.
func refundEntryFees(ctx context.Context, uow UnitOfWork, tournament *models.Tournament) ([]uuid.UUID, error) {
	registrations, err := uow.RegistrationRepository().ListRefundable(ctx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refundable registrations: %w", err)
	}

	refunded := make([]uuid.UUID, 0, len(registrations))
	for _, registration := range registrations {
		if registration.EntryFeePaid.IsPositive() {
			user, err := uow.UserRepository().GetByIDForUpdate(ctx, registration.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to get user: %w", err)
			}
			if user == nil {
				return nil, ErrUserNotFound
			}

			newBalance, err := uow.UserRepository().CreditBalance(ctx, user.ID, registration.EntryFeePaid)
			if err != nil {
				return nil, fmt.Errorf("failed to refund entry fee: %w", err)
			}
			entry := &models.Transaction{
				UserID:         user.ID,
				Type:           models.TransactionTypeRefund,
				Amount:         registration.EntryFeePaid,
				Description:    fmt.Sprintf("Refund for cancelled %s", tournament.Title),
				TournamentID:   &tournament.ID,
				RegistrationID: &registration.ID,
			}
			if err := RecordLedgerEntry(ctx, uow, entry, newBalance, user.DilBalance); err != nil {
				return nil, err
			}
			refunded = append(refunded, user.ID)
		}

		if err := uow.RegistrationRepository().MarkRefunded(ctx, registration.ID); err != nil {
			return nil, fmt.Errorf("failed to mark registration refunded: %w", err)
		}
	}
	return refunded, nil
}

func (s *tournamentService) ListUserRegistrations(ctx context.Context, userID uuid.UUID) ([]*models.UserRegistration, error) {
	var registrations []*models.UserRegistration
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		registrations, err = uow.RegistrationRepository().ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list registrations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (s *tournamentService) ListTournamentRegistrations(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error) {
	var registrations []*models.Registration
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		tournament, err := uow.TournamentRepository().GetByID(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to get tournament: %w", err)
		}
		if tournament == nil {
			return ErrTournamentNotFound
		}

		registrations, err = uow.RegistrationRepository().ListByTournament(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list registrations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (s *tournamentService) StartDueTournaments(ctx context.Context, now time.Time) (int, error) {
	var due []uuid.UUID
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		due, err = uow.TournamentRepository().ListDueToStart(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to list due tournaments: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	started := 0
	var errs []error
	for _, id := range due {
		if _, err := s.UpdateStatus(ctx, id, models.TournamentStatusLive); err != nil {
			// Cancelled or started by an admin in the meantime
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			errs = append(errs, fmt.Errorf("tournament %s: %w", id, err))
			continue
		}
		started++
	}
	return started, errors.Join(errs...)
}
