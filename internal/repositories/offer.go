package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"offer-ticketing-platform/internal/models"

	"github.com/jmoiron/sqlx"
)

// OfferRepository handles offer data operations
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `id, name, description, price, created_at`

// Create lists a new offer
func (r *OfferRepository) Create(ctx context.Context, req *models.OfferCreateRequest) (*models.Offer, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO offers (name, description, price, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + offerColumns

	offer := &models.Offer{}
	err := r.db.GetContext(ctx, offer, query, req.Name, req.Description, req.Price, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	return offer, nil
}

// GetByID retrieves an offer by ID
func (r *OfferRepository) GetByID(ctx context.Context, id int) (*models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	offer := &models.Offer{}
	if err := r.db.GetContext(ctx, offer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("offer with id %d: %w", id, models.ErrOfferNotFound)
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	return offer, nil
}

// GetByIDs retrieves the offers with the given IDs, keyed by ID. Missing IDs are absent from the map.
func (r *OfferRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Offer, error) {
	result := make(map[int]*models.Offer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT `+offerColumns+` FROM offers WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build offer query: %w", err)
	}

	var offers []*models.Offer
	if err := r.db.SelectContext(ctx, &offers, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get offers: %w", err)
	}

	for _, offer := range offers {
		result[offer.ID] = offer
	}
	return result, nil
}

// List retrieves all offers ordered by ID
func (r *OfferRepository) List(ctx context.Context) ([]*models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY id ASC`

	var offers []*models.Offer
	if err := r.db.SelectContext(ctx, &offers, query); err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	return offers, nil
}
