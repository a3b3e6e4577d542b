package repository

import (
	"context"
	"fmt"

	"gamewin/database"
	"gamewin/models"
	"gamewin/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const registrationColumns = `
	id, user_id, tournament_id, position, kills, earnings, entry_fee_paid,
	settled_at, refunded_at, registered_at`

// RegistrationRepository implements the RegistrationRepository interface
type RegistrationRepository struct {
	q queryable
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{q: db.Pool}
}

// newRegistrationRepositoryWithTx creates a new registration repository with a transaction
func newRegistrationRepositoryWithTx(tx queryable) *RegistrationRepository {
	return &RegistrationRepository{q: tx}
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var reg models.Registration
	err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.TournamentID,
		&reg.Position,
		&reg.Kills,
		&reg.Earnings,
		&reg.EntryFeePaid,
		&reg.SettledAt,
		&reg.RefundedAt,
		&reg.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func collectRegistrations(rows pgx.Rows) ([]*models.Registration, error) {
	defer rows.Close()

	var registrations []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate registrations")
	}
	return registrations, nil
}

// Create inserts a registration. A second registration of the same pair is
// rejected by the unique constraint.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (id, user_id, tournament_id, entry_fee_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + registrationColumns

	created, err := scanRegistration(r.q.QueryRow(ctx, query, reg.ID, reg.UserID, reg.TournamentID, reg.EntryFeePaid))
	if err != nil {
		return classify(err, "create registration")
	}

	*reg = *created
	return nil
}

// GetByID retrieves a registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg, err := scanRegistration(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("get registration %s", id))
	}
	return reg, nil
}

// GetByIDForUpdate retrieves a registration and locks the row
func (r *RegistrationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 FOR UPDATE`

	reg, err := scanRegistration(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("lock registration %s", id))
	}
	return reg, nil
}

// GetByUserAndTournament retrieves the registration of a user for a tournament
func (r *RegistrationRepository) GetByUserAndTournament(ctx context.Context, userID, tournamentID uuid.UUID) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE user_id = $1 AND tournament_id = $2`

	reg, err := scanRegistration(r.q.QueryRow(ctx, query, userID, tournamentID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "get registration by user and tournament")
	}
	return reg, nil
}

// Settle writes the result of a registration. Only a registration with
// neither result nor refund is updated.
func (r *RegistrationRepository) Settle(ctx context.Context, id uuid.UUID, result models.RegistrationResult) (*models.Registration, error) {
	query := `
		UPDATE registrations
		SET position = $2, kills = $3, earnings = $4, settled_at = NOW()
		WHERE id = $1 AND settled_at IS NULL AND refunded_at IS NULL
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.q.QueryRow(ctx, query, id, result.Position, result.Kills, result.Earnings))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to settle registration %s: %w", id, service.ErrAlreadySettled)
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("settle registration %s", id))
	}
	return reg, nil
}

// ListByTournament returns the registrations of a tournament in registration order
func (r *RegistrationRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE tournament_id = $1
		ORDER BY registered_at ASC, id
	`

	rows, err := r.q.Query(ctx, query, tournamentID)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("list registrations of tournament %s", tournamentID))
	}
	return collectRegistrations(rows)
}

// ListByUser returns the registrations of a user together with their tournaments
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserRegistration, error) {
	query := `
		SELECT
			r.id, r.user_id, r.tournament_id, r.position, r.kills, r.earnings, r.entry_fee_paid,
			r.settled_at, r.refunded_at, r.registered_at,
			t.id, t.slug, t.title, t.description, t.game, t.game_mode, t.map, t.prize_pool, t.entry_fee,
			t.first_prize, t.second_prize, t.third_prize, t.max_players, t.current_players, t.status,
			t.room_id, t.room_password, t.start_time, t.end_time, t.created_by, t.created_at, t.updated_at
		FROM registrations r
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE r.user_id = $1
		ORDER BY r.registered_at DESC, r.id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("list registrations of user %s", userID))
	}
	defer rows.Close()

	var result []*models.UserRegistration
	for rows.Next() {
		var ur models.UserRegistration
		var t models.Tournament
		err := rows.Scan(
			&ur.ID, &ur.UserID, &ur.TournamentID, &ur.Position, &ur.Kills, &ur.Earnings, &ur.EntryFeePaid,
			&ur.SettledAt, &ur.RefundedAt, &ur.RegisteredAt,
			&t.ID, &t.Slug, &t.Title, &t.Description, &t.Game, &t.GameMode, &t.Map, &t.PrizePool, &t.EntryFee,
			&t.FirstPrize, &t.SecondPrize, &t.ThirdPrize, &t.MaxPlayers, &t.CurrentPlayers, &t.Status,
			&t.RoomID, &t.RoomPassword, &t.StartTime, &t.EndTime, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user registration: %w", err)
		}
		ur.Tournament = &t
		result = append(result, &ur)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate user registrations")
	}
	return result, nil
}

// ListRefundable locks and returns the registrations of a tournament that
// have neither a result nor a refund
func (r *RegistrationRepository) ListRefundable(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE tournament_id = $1 AND settled_at IS NULL AND refunded_at IS NULL
		ORDER BY registered_at ASC, id
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, tournamentID)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("list refundable registrations of tournament %s", tournamentID))
	}
	return collectRegistrations(rows)
}

// MarkRefunded stamps the refund time of a registration
func (r *RegistrationRepository) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE registrations
		SET refunded_at = NOW()
		WHERE id = $1 AND settled_at IS NULL AND refunded_at IS NULL
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return classify(err, fmt.Sprintf("mark registration %s refunded", id))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to refund registration %s: %w", id, service.ErrAlreadySettled)
	}
	return nil
}
