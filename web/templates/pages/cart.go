package pages

import (
	"context"
	"fmt"

	"offer-ticketing-platform/internal/models"

	"github.com/a-h/templ"
)

// CartPage shows the priced cart and the form that checks all of it out
func CartPage(data LayoutData, view *models.CartView, form FormState) templ.Component {
	return Layout("Your cart", data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>Your cart</h1>`)
		h.nonFieldErrors(form, "cart")

		if view == nil || view.IsEmpty() {
			h.raw(`<p class="empty">Your cart is empty.</p><a href="/home/">Browse offers</a>`)
			return
		}

		h.raw(`<table class="cart"><thead><tr><th>Offer</th><th>Price</th><th>Quantity</th><th>Subtotal</th><th></th></tr></thead><tbody>`)
		for _, line := range view.Lines {
			h.rawf(`<tr id="cart-line-%d"><td>`, line.Offer.ID)
			h.text(line.Offer.Name)
			h.raw(`</td><td>`)
			h.text(line.Offer.FormattedPrice())
			h.rawf(`</td><td class="quantity">%d</td><td class="subtotal">`, line.Quantity)
			h.text(line.Subtotal.StringFixed(2))
			h.raw(`</td><td>`)
			h.postForm(ctx, fmt.Sprintf("/remove-from-cart/%d/", line.Offer.ID), "Remove", "link")
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody><tfoot><tr><th colspan="3">Total</th><td class="total">`)
		h.text(view.FormattedTotal())
		h.raw(` €</td><td></td></tr></tfoot></table>`)

		h.postForm(ctx, "/clear-cart/", "Clear cart", "link")

		h.raw(`<h2>Checkout</h2><form method="post" action="/cart/checkout/">`)
		h.csrfField(ctx)
		paymentFields(h, form)
		h.raw(`<button type="submit">Pay `)
		h.text(view.FormattedTotal())
		h.raw(` €</button></form>`)
	}))
}
