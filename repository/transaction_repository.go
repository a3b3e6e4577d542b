package repository

import (
	"context"
	"fmt"

	"gamewin/database"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the TransactionRepository interface.
// Rows are only ever inserted.
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a ledger entry
func (r *TransactionRepository) Create(ctx context.Context, entry *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, amount, dil_amount, description, tournament_id, registration_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.Type,
		entry.Amount,
		entry.DilAmount,
		entry.Description,
		entry.TournamentID,
		entry.RegistrationID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return classify(err, fmt.Sprintf("create %s transaction", entry.Type))
	}
	return nil
}

// ListByUser returns the newest entries of a user
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, dil_amount, description, tournament_id, registration_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("list transactions of user %s", userID))
	}
	defer rows.Close()

	var entries []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Type,
			&t.Amount,
			&t.DilAmount,
			&t.Description,
			&t.TournamentID,
			&t.RegistrationID,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		entries = append(entries, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate transactions")
	}
	return entries, nil
}

// Summarize sums every entry of a user
func (r *TransactionRepository) Summarize(ctx context.Context, userID uuid.UUID) (*models.LedgerSummary, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(dil_amount), 0)::bigint, COUNT(*)
		FROM transactions
		WHERE user_id = $1
	`

	summary := &models.LedgerSummary{UserID: userID}
	err := r.q.QueryRow(ctx, query, userID).Scan(&summary.CashTotal, &summary.DilTotal, &summary.EntryCount)
	if err == pgx.ErrNoRows {
		return summary, nil
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("summarize transactions of user %s", userID))
	}
	return summary, nil
}
