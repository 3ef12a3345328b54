package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/middleware"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/internal/services"
	"offer-ticketing-platform/web/templates/pages"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles single-offer checkout, order finalization and tickets
type OrderHandler struct {
	base
	catalog  services.CatalogServiceInterface
	orders   services.OrderServiceInterface
	checkout services.CheckoutServiceInterface
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	catalog services.CatalogServiceInterface,
	orders services.OrderServiceInterface,
	checkout services.CheckoutServiceInterface,
	store sessions.Store,
) *OrderHandler {
	return &OrderHandler{
		base:     base{store: store},
		catalog:  catalog,
		orders:   orders,
		checkout: checkout,
	}
}

func (h *OrderHandler) offer(w http.ResponseWriter, r *http.Request) (*models.Offer, bool) {
	offerID, ok := idParam(r, "offerID")
	if !ok {
		h.fail(w, r, models.ErrOfferNotFound)
		return nil, false
	}
	offer, err := h.catalog.GetOffer(r.Context(), offerID)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return offer, true
}

// CheckoutPage renders the payment form
func (h *OrderHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.offer(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, pages.CheckoutPage(h.layout(w, r), offer, pages.FormState{}))
}

// CheckoutSubmit validates the payment fields. Nothing is charged.
func (h *OrderHandler) CheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.offer(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if err := h.checkout.Validate(checkoutForm(r)); err != nil {
		verrs, ok := validationErrors(err)
		if !ok {
			h.fail(w, r, err)
			return
		}
		state := pages.FormState{Values: formValues(r, "card_number", "expiry_date"), Errors: verrs}
		h.render(w, r, http.StatusUnprocessableEntity, pages.CheckoutPage(h.layout(w, r), offer, state))
		return
	}

	redirect(w, r, fmt.Sprintf("/finalize-order/%d/", offer.ID))
}

// FinalizePage asks for confirmation before issuing the ticket
func (h *OrderHandler) FinalizePage(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.offer(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, pages.FinalizePage(h.layout(w, r), offer))
}

// FinalizeSubmit issues the ticket and shows its confirmation
func (h *OrderHandler) FinalizeSubmit(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	offerID, ok := idParam(r, "offerID")
	if !ok {
		h.fail(w, r, models.ErrOfferNotFound)
		return
	}

	ticket, err := h.orders.FinalizeOrder(r.Context(), user, offerID)
	if err != nil {
		if errors.Is(err, models.ErrDuplicatePurchase) {
			h.addFlash(w, r, flashError, "You already hold a ticket for this offer.")
			redirect(w, r, "/tickets/")
			return
		}
		h.fail(w, r, err)
		return
	}

	logging.FromContext(r.Context()).WithFields(logrus.Fields{
		"ticket_id": ticket.ID,
		"offer_id":  offerID,
	}).Info("Order finalized")

	redirect(w, r, fmt.Sprintf("/confirmation/%d/", ticket.ID))
}

// Confirmation shows one of the user's tickets
func (h *OrderHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	ticketID, ok := idParam(r, "ticketID")
	if !ok {
		h.fail(w, r, models.ErrTicketNotFound)
		return
	}

	ticket, err := h.orders.GetConfirmation(r.Context(), user, ticketID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, pages.ConfirmationPage(h.layout(w, r), ticket))
}

// Tickets lists the user's tickets
func (h *OrderHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	tickets, err := h.orders.ListUserTickets(r.Context(), user)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, pages.TicketsPage(h.layout(w, r), tickets))
}
