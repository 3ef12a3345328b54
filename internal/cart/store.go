// Package cart keeps each user's pending selection of offers.
package cart

import (
	"context"
	"net/http"

	"offer-ticketing-platform/internal/models"
)

// Store holds cart entries per user. Implementations keep at most one entry per
// (user, offer) and return entries in insertion order.
type Store interface {
	// Add increments the quantity for offerID, inserting it with quantity 1 if absent
	Add(ctx context.Context, userID, offerID int) error
	// Decrement takes one unit of offerID out of the cart, deleting the entry when
	// its quantity reaches zero. Decrementing an absent entry is a no-op.
	Decrement(ctx context.Context, userID, offerID int) error
	// Remove deletes the entry for offerID. Removing an absent entry is a no-op.
	Remove(ctx context.Context, userID, offerID int) error
	// Clear removes every entry for the user
	Clear(ctx context.Context, userID int) error
	// Entries lists the user's entries in insertion order
	Entries(ctx context.Context, userID int) ([]models.CartEntry, error)
}

// Backend opens the cart store for a request
type Backend interface {
	Open(w http.ResponseWriter, r *http.Request) Store
}

func addEntry(entries []models.CartEntry, offerID int) []models.CartEntry {
	for i := range entries {
		if entries[i].OfferID == offerID {
			entries[i].Quantity++
			return entries
		}
	}
	return append(entries, models.CartEntry{OfferID: offerID, Quantity: 1})
}

func decrementEntry(entries []models.CartEntry, offerID int) ([]models.CartEntry, bool) {
	for i := range entries {
		if entries[i].OfferID != offerID {
			continue
		}
		if entries[i].Quantity > 1 {
			entries[i].Quantity--
			return entries, true
		}
		return append(entries[:i], entries[i+1:]...), true
	}
	return entries, false
}

func removeEntry(entries []models.CartEntry, offerID int) ([]models.CartEntry, bool) {
	for i := range entries {
		if entries[i].OfferID == offerID {
			return append(entries[:i], entries[i+1:]...), true
		}
	}
	return entries, false
}
