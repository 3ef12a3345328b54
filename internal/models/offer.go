package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Offer represents a purchasable offer listed in the catalog
type Offer struct {
	ID          int             `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// OfferCreateRequest represents the data needed to list a new offer
type OfferCreateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// maxOfferPrice mirrors the NUMERIC(10,2) column
var maxOfferPrice = decimal.RequireFromString("99999999.99")

// Validate validates offer creation data
func (req *OfferCreateRequest) Validate() error {
	if err := validateOfferName(req.Name); err != nil {
		return err
	}

	if err := validateOfferPrice(req.Price); err != nil {
		return err
	}

	return nil
}

func validateOfferName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("offer name is required")
	}

	if len(name) > 255 {
		return errors.New("offer name must be less than 255 characters")
	}

	return nil
}

func validateOfferPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errors.New("offer price cannot be negative")
	}

	if price.GreaterThan(maxOfferPrice) {
		return errors.New("offer price exceeds the maximum allowed")
	}

	if !price.Equal(price.Round(2)) {
		return errors.New("offer price must have at most two decimal places")
	}

	return nil
}

// FormattedPrice returns the price with two decimals
func (o *Offer) FormattedPrice() string {
	return o.Price.StringFixed(2)
}
