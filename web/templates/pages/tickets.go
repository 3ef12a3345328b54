package pages

import (
	"context"

	"offer-ticketing-platform/internal/models"

	"github.com/a-h/templ"
)

// ConfirmationPage shows an issued ticket with its QR code
func ConfirmationPage(data LayoutData, t *models.TicketWithOffer) templ.Component {
	return Layout("Order confirmed", data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>Thank you for your purchase</h1>`)
		ticketCard(h, t)
		h.raw(`<a href="/tickets/">All my tickets</a>`)
	}))
}

// TicketsPage lists the user's tickets, newest first
func TicketsPage(data LayoutData, tickets []*models.TicketWithOffer) templ.Component {
	return Layout("My tickets", data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>My tickets</h1>`)
		if len(tickets) == 0 {
			h.raw(`<p class="empty">You have no tickets yet.</p>`)
			return
		}
		for _, t := range tickets {
			ticketCard(h, t)
		}
	}))
}

func ticketCard(h *html, t *models.TicketWithOffer) {
	h.rawf(`<article class="ticket" id="ticket-%d"><h2>`, t.Ticket.ID)
	h.text(t.Offer.Name)
	h.raw(`</h2><dl><dt>Price</dt><dd>`)
	h.text(t.Offer.FormattedPrice())
	h.raw(` €</dd><dt>Ticket key</dt><dd class="final-key">`)
	h.text(t.Ticket.FinalKey.String())
	h.raw(`</dd><dt>Purchased</dt><dd>`)
	h.text(t.Ticket.CreatedAt.Format("2006-01-02 15:04"))
	h.raw(`</dd></dl>`)
	if t.Ticket.QRCodeURL != "" {
		h.raw(`<img class="qr" alt="Ticket QR code" src="`)
		h.text(t.Ticket.QRCodeURL)
		h.raw(`">`)
	}
	h.raw(`</article>`)
}
