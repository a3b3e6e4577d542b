package repository

import (
	"context"
	"fmt"
	"time"

	"gamewin/database"
	"gamewin/models"
	"gamewin/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const tournamentColumns = `
	id, slug, title, description, game, game_mode, map, prize_pool, entry_fee,
	first_prize, second_prize, third_prize, max_players, current_players, status,
	room_id, room_password, start_time, end_time, created_by, created_at, updated_at`

// TournamentRepository implements the TournamentRepository interface
type TournamentRepository struct {
	q queryable
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *database.DB) *TournamentRepository {
	return &TournamentRepository{q: db.Pool}
}

// newTournamentRepositoryWithTx creates a new tournament repository with a transaction
func newTournamentRepositoryWithTx(tx queryable) *TournamentRepository {
	return &TournamentRepository{q: tx}
}

func scanTournament(row pgx.Row) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(
		&t.ID,
		&t.Slug,
		&t.Title,
		&t.Description,
		&t.Game,
		&t.GameMode,
		&t.Map,
		&t.PrizePool,
		&t.EntryFee,
		&t.FirstPrize,
		&t.SecondPrize,
		&t.ThirdPrize,
		&t.MaxPlayers,
		&t.CurrentPlayers,
		&t.Status,
		&t.RoomID,
		&t.RoomPassword,
		&t.StartTime,
		&t.EndTime,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tournament and fills in the generated columns
func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			id, slug, title, description, game, game_mode, map, prize_pool, entry_fee,
			first_prize, second_prize, third_prize, max_players, status,
			room_id, room_password, start_time, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + tournamentColumns

	created, err := scanTournament(r.q.QueryRow(ctx, query,
		t.ID,
		t.Slug,
		t.Title,
		t.Description,
		t.Game,
		t.GameMode,
		t.Map,
		t.PrizePool,
		t.EntryFee,
		t.FirstPrize,
		t.SecondPrize,
		t.ThirdPrize,
		t.MaxPlayers,
		t.Status,
		t.RoomID,
		t.RoomPassword,
		t.StartTime,
		t.CreatedBy,
	))
	if err != nil {
		return classify(err, "create tournament")
	}

	*t = *created
	return nil
}

// GetByID retrieves a tournament by ID
func (r *TournamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("get tournament %s", id))
	}
	return t, nil
}

// GetByIDForUpdate retrieves a tournament and locks the row until the transaction ends
func (r *TournamentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`

	t, err := scanTournament(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("lock tournament %s", id))
	}
	return t, nil
}

// SlugExists reports whether a slug is already taken
func (r *TournamentRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tournaments WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, classify(err, fmt.Sprintf("check slug %q", slug))
	}
	return exists, nil
}

// List returns tournaments ordered by start time, optionally filtered by status
func (r *TournamentRepository) List(ctx context.Context, status *models.TournamentStatus, limit int) ([]*models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY start_time ASC, id
		LIMIT $2
	`

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.q.Query(ctx, query, statusArg, limit)
	if err != nil {
		return nil, classify(err, "list tournaments")
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate tournaments")
	}
	return tournaments, nil
}

// IncrementPlayers takes one seat and returns the new player count.
// The guard keeps current_players at or below max_players.
func (r *TournamentRepository) IncrementPlayers(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE tournaments
		SET current_players = current_players + 1, updated_at = NOW()
		WHERE id = $1 AND current_players < max_players
		RETURNING current_players
	`

	var players int
	err := r.q.QueryRow(ctx, query, id).Scan(&players)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to take a seat in tournament %s: %w", id, service.ErrTournamentFull)
	}
	if err != nil {
		return 0, classify(err, fmt.Sprintf("take a seat in tournament %s", id))
	}
	return players, nil
}

// UpdateStatus moves a tournament from one status to another. Terminal
// statuses also stamp the end time.
func (r *TournamentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TournamentStatus) error {
	query := `
		UPDATE tournaments
		SET status = $3,
		    end_time = CASE WHEN $4 THEN NOW() ELSE end_time END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.q.Exec(ctx, query, id, from, to, to.IsTerminal())
	if err != nil {
		return classify(err, fmt.Sprintf("update status of tournament %s", id))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tournament %s is no longer %s: %w", id, from, service.ErrConflict)
	}
	return nil
}

// ListDueToStart returns upcoming tournaments whose start time has passed
func (r *TournamentRepository) ListDueToStart(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM tournaments
		WHERE status = $1 AND start_time <= $2
		ORDER BY start_time ASC
	`

	rows, err := r.q.Query(ctx, query, models.TournamentStatusUpcoming, now)
	if err != nil {
		return nil, classify(err, "list tournaments due to start")
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, classify(err, "collect tournaments due to start")
	}
	return ids, nil
}
