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

const advertisementColumns = `
	id, title, description, image_url, target_url, type, position, is_active,
	start_date, end_date, impressions, clicks, created_at, updated_at`

// AdvertisementRepository implements the AdvertisementRepository interface
type AdvertisementRepository struct {
	q queryable
}

// NewAdvertisementRepository creates a new advertisement repository
func NewAdvertisementRepository(db *database.DB) *AdvertisementRepository {
	return &AdvertisementRepository{q: db.Pool}
}

// newAdvertisementRepositoryWithTx creates a new advertisement repository with a transaction
func newAdvertisementRepositoryWithTx(tx queryable) *AdvertisementRepository {
	return &AdvertisementRepository{q: tx}
}

func scanAdvertisement(row pgx.Row) (*models.Advertisement, error) {
	var ad models.Advertisement
	err := row.Scan(
		&ad.ID,
		&ad.Title,
		&ad.Description,
		&ad.ImageURL,
		&ad.TargetURL,
		&ad.Type,
		&ad.Position,
		&ad.IsActive,
		&ad.StartDate,
		&ad.EndDate,
		&ad.Impressions,
		&ad.Clicks,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *AdvertisementRepository) list(ctx context.Context, query string, args ...any) ([]*models.Advertisement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list advertisements")
	}
	defer rows.Close()

	var ads []*models.Advertisement
	for rows.Next() {
		ad, err := scanAdvertisement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advertisement: %w", err)
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate advertisements")
	}
	return ads, nil
}

// Create inserts a campaign
func (r *AdvertisementRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	query := `
		INSERT INTO advertisements (
			id, title, description, image_url, target_url, type, position, is_active, start_date, end_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + advertisementColumns

	created, err := scanAdvertisement(r.q.QueryRow(ctx, query,
		ad.ID,
		ad.Title,
		ad.Description,
		ad.ImageURL,
		ad.TargetURL,
		ad.Type,
		ad.Position,
		ad.IsActive,
		ad.StartDate,
		ad.EndDate,
	))
	if err != nil {
		return classify(err, "create advertisement")
	}

	*ad = *created
	return nil
}

// GetByID retrieves a campaign by ID
func (r *AdvertisementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Advertisement, error) {
	query := `SELECT ` + advertisementColumns + ` FROM advertisements WHERE id = $1`

	ad, err := scanAdvertisement(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("get advertisement %s", id))
	}
	return ad, nil
}

// Update overwrites the editable columns of a campaign
func (r *AdvertisementRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	query := `
		UPDATE advertisements
		SET title = $2, description = $3, image_url = $4, target_url = $5, type = $6,
		    position = $7, is_active = $8, start_date = $9, end_date = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + advertisementColumns

	updated, err := scanAdvertisement(r.q.QueryRow(ctx, query,
		ad.ID,
		ad.Title,
		ad.Description,
		ad.ImageURL,
		ad.TargetURL,
		ad.Type,
		ad.Position,
		ad.IsActive,
		ad.StartDate,
		ad.EndDate,
	))
	if err == pgx.ErrNoRows {
		return service.ErrAdvertisementNotFound
	}
	if err != nil {
		return classify(err, fmt.Sprintf("update advertisement %s", ad.ID))
	}

	*ad = *updated
	return nil
}

// Delete removes a campaign
func (r *AdvertisementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM advertisements WHERE id = $1`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("delete advertisement %s", id))
	}
	if result.RowsAffected() == 0 {
		return service.ErrAdvertisementNotFound
	}
	return nil
}

// List returns every campaign, newest first
func (r *AdvertisementRepository) List(ctx context.Context) ([]*models.Advertisement, error) {
	query := `SELECT ` + advertisementColumns + ` FROM advertisements ORDER BY created_at DESC, id`
	return r.list(ctx, query)
}

// ListRunning returns the active campaigns of a slot whose window contains now
func (r *AdvertisementRepository) ListRunning(ctx context.Context, position models.AdPosition, now time.Time) ([]*models.Advertisement, error) {
	query := `
		SELECT ` + advertisementColumns + `
		FROM advertisements
		WHERE is_active
		  AND position = $1
		  AND (start_date IS NULL OR start_date <= $2)
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY created_at DESC, id
	`
	return r.list(ctx, query, position, now)
}

// IncrementImpressions counts one impression for each campaign
func (r *AdvertisementRepository) IncrementImpressions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	_, err := r.q.Exec(ctx, `UPDATE advertisements SET impressions = impressions + 1 WHERE id = ANY($1::uuid[])`, idStrings)
	if err != nil {
		return classify(err, "count advertisement impressions")
	}
	return nil
}

// IncrementClicks counts one click
func (r *AdvertisementRepository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `UPDATE advertisements SET clicks = clicks + 1 WHERE id = $1`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("count click on advertisement %s", id))
	}
	if result.RowsAffected() == 0 {
		return service.ErrAdvertisementNotFound
	}
	return nil
}
