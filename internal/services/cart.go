package services

import (
	"context"
	"fmt"

	"offer-ticketing-platform/internal/cart"
	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/models"
)

// CartService applies catalog rules on top of a cart.Store
type CartService struct {
	catalog CatalogServiceInterface
}

// NewCartService creates a new cart service
func NewCartService(catalog CatalogServiceInterface) *CartService {
	return &CartService{catalog: catalog}
}

// Add puts one more unit of an existing offer in the user's cart
func (s *CartService) Add(ctx context.Context, store cart.Store, userID, offerID int) error {
	if _, err := s.catalog.GetOffer(ctx, offerID); err != nil {
		return err
	}
	return store.Add(ctx, userID, offerID)
}

// Remove drops an offer from the cart; absent offers are ignored
func (s *CartService) Remove(ctx context.Context, store cart.Store, userID, offerID int) error {
	return store.Remove(ctx, userID, offerID)
}

// Decrement takes one unit of an offer out of the cart
func (s *CartService) Decrement(ctx context.Context, store cart.Store, userID, offerID int) error {
	return store.Decrement(ctx, userID, offerID)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, store cart.Store, userID int) error {
	return store.Clear(ctx, userID)
}

// List prices the cart. Entries whose offer no longer exists are skipped and pruned.
func (s *CartService) List(ctx context.Context, store cart.Store, userID int) (*models.CartView, error) {
	entries, err := store.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return models.NewCartView(nil), nil
	}

	ids := make([]int, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.OfferID)
	}

	offers, err := s.catalog.GetOffers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart offers: %w", err)
	}

	lines := make([]models.CartLine, 0, len(entries))
	for _, entry := range entries {
		offer, ok := offers[entry.OfferID]
		if !ok {
			if err := store.Remove(ctx, userID, entry.OfferID); err != nil {
				logging.FromContext(ctx).WithError(err).WithField("offer_id", entry.OfferID).Warn("Failed to prune stale cart entry")
			}
			continue
		}
		lines = append(lines, models.CartLine{Offer: offer, Quantity: entry.Quantity})
	}

	return models.NewCartView(lines), nil
}
