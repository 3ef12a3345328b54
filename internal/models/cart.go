package models

import "github.com/shopspring/decimal"

// CartEntry is one offer in a user's cart. There is at most one entry per offer.
type CartEntry struct {
	OfferID  int `json:"offer_id"`
	Quantity int `json:"quantity"`
}

// CartLine is a cart entry resolved against the catalog
type CartLine struct {
	Offer    *Offer          `json:"offer"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the priced content of a cart
type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// NewCartView prices the given lines
func NewCartView(lines []CartLine) *CartView {
	view := &CartView{Lines: lines, Total: decimal.Zero}
	for i := range view.Lines {
		line := &view.Lines[i]
		line.Subtotal = line.Offer.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Total = view.Total.Add(line.Subtotal)
	}
	return view
}

// IsEmpty reports whether the cart has no lines
func (c *CartView) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the total quantity across lines
func (c *CartView) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// FormattedTotal returns the total with two decimals
func (c *CartView) FormattedTotal() string {
	return c.Total.StringFixed(2)
}
