package services

import (
	"context"
	"fmt"

	"offer-ticketing-platform/internal/models"
)

// CatalogService exposes the read-only list of offers
type CatalogService struct {
	offers OfferRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(offers OfferRepository) *CatalogService {
	return &CatalogService{offers: offers}
}

// GetOffer returns one offer or an error matching models.ErrNotFound
func (s *CatalogService) GetOffer(ctx context.Context, id int) (*models.Offer, error) {
	if id <= 0 {
		return nil, fmt.Errorf("offer with id %d: %w", id, models.ErrOfferNotFound)
	}
	return s.offers.GetByID(ctx, id)
}

// GetOffers returns the offers that exist among ids, keyed by ID
func (s *CatalogService) GetOffers(ctx context.Context, ids []int) (map[int]*models.Offer, error) {
	return s.offers.GetByIDs(ctx, ids)
}

// ListOffers returns all offers
func (s *CatalogService) ListOffers(ctx context.Context) ([]*models.Offer, error) {
	return s.offers.List(ctx)
}
