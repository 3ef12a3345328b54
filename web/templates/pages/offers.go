package pages

import (
	"context"
	"fmt"

	"offer-ticketing-platform/internal/models"

	"github.com/a-h/templ"
)

// HomePage lists every offer with add-to-cart and buy-now actions
func HomePage(data LayoutData, offers []*models.Offer) templ.Component {
	return Layout("Offers", data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>Available offers</h1>`)
		if len(offers) == 0 {
			h.raw(`<p class="empty">No offers are available right now.</p>`)
			return
		}

		h.raw(`<ul class="offers">`)
		for _, offer := range offers {
			h.rawf(`<li class="offer" id="offer-%d"><h2>`, offer.ID)
			h.text(offer.Name)
			h.raw(`</h2><p>`)
			h.text(offer.Description)
			h.raw(`</p><p class="price">`)
			h.text(offer.FormattedPrice())
			h.raw(` €</p>`)
			h.postForm(ctx, fmt.Sprintf("/add-to-cart/%d/", offer.ID), "Add to cart", "button")
			h.rawf(` <a class="button" href="/checkout/%d/">Buy now</a>`, offer.ID)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	}))
}

// CheckoutPage renders the payment form for a single offer
func CheckoutPage(data LayoutData, offer *models.Offer, form FormState) templ.Component {
	return Layout("Checkout", data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>Checkout</h1><p>`)
		h.text(offer.Name)
		h.raw(` for `)
		h.text(offer.FormattedPrice())
		h.raw(` €</p>`)
		h.rawf(`<form method="post" action="/checkout/%d/">`, offer.ID)
		h.csrfField(ctx)
		paymentFields(h, form)
		h.raw(`<button type="submit">Pay</button></form>`)
	}))
}

func paymentFields(h *html, form FormState) {
	h.field(form, "card_number", "Card number", "text")
	h.field(form, "expiry_date", "Expiry date (MM/YY)", "text")
	h.field(form, "cvv", "CVV", "password")
}

// FinalizePage asks the user to confirm the purchase of offer
func FinalizePage(data LayoutData, offer *models.Offer) templ.Component {
	return Layout("Confirm your order", data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>Confirm your order</h1><p>`)
		h.text(offer.Name)
		h.raw(`</p><p class="price">`)
		h.text(offer.FormattedPrice())
		h.raw(` €</p>`)
		h.postForm(ctx, fmt.Sprintf("/finalize-order/%d/", offer.ID), "Confirm purchase", "button")
	}))
}
