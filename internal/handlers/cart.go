package handlers

import (
	"fmt"
	"net/http"

	"offer-ticketing-platform/internal/cart"
	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/middleware"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/internal/services"
	"offer-ticketing-platform/web/templates/pages"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

// CartHandler handles shopping cart requests
type CartHandler struct {
	base
	catalog  services.CatalogServiceInterface
	carts    services.CartServiceInterface
	checkout services.CheckoutServiceInterface
	backend  cart.Backend
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	catalog services.CatalogServiceInterface,
	carts services.CartServiceInterface,
	checkout services.CheckoutServiceInterface,
	backend cart.Backend,
	store sessions.Store,
) *CartHandler {
	return &CartHandler{
		base:     base{store: store},
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		backend:  backend,
	}
}

// AddToCart adds one unit of an offer and returns to the offer list
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	offerID, ok := idParam(r, "offerID")
	if !ok {
		h.fail(w, r, models.ErrOfferNotFound)
		return
	}

	offer, err := h.catalog.GetOffer(r.Context(), offerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.carts.Add(r.Context(), h.backend.Open(w, r), user.ID, offer.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.addFlash(w, r, flashSuccess, fmt.Sprintf("%q was added to your cart.", offer.Name))
	redirect(w, r, homePath)
}

// ViewCart shows the priced cart
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	view, err := h.carts.List(r.Context(), h.backend.Open(w, r), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, pages.CartPage(h.layout(w, r), view, pages.FormState{}))
}

// RemoveFromCart drops an offer from the cart. Offers not in the cart are ignored.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	offerID, ok := idParam(r, "offerID")
	if !ok {
		h.fail(w, r, models.ErrOfferNotFound)
		return
	}

	if err := h.carts.Remove(r.Context(), h.backend.Open(w, r), user.ID, offerID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.addFlash(w, r, flashSuccess, "The offer was removed from your cart.")
	redirect(w, r, "/cart/")
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), h.backend.Open(w, r), user.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.addFlash(w, r, flashSuccess, "Your cart has been emptied.")
	redirect(w, r, "/cart/")
}

// CheckoutCart pays for the whole cart once and issues one ticket per unit
func (h *CartHandler) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	store := h.backend.Open(w, r)
	form := checkoutForm(r)

	tickets, err := h.checkout.CheckoutCart(r.Context(), store, user, form)
	if err != nil {
		if verrs, ok := validationErrors(err); ok {
			view, listErr := h.carts.List(r.Context(), store, user.ID)
			if listErr != nil {
				h.fail(w, r, listErr)
				return
			}
			state := pages.FormState{Values: formValues(r, "card_number", "expiry_date"), Errors: verrs}
			h.render(w, r, http.StatusUnprocessableEntity, pages.CartPage(h.layout(w, r), view, state))
			return
		}

		logging.FromContext(r.Context()).WithFields(logrus.Fields{
			"issued": len(tickets),
		}).WithError(err).Error("Cart checkout stopped")
		if len(tickets) > 0 {
			h.addFlash(w, r, flashError, fmt.Sprintf("Only %d ticket(s) could be issued. The remaining items are still in your cart.", len(tickets)))
			redirect(w, r, "/tickets/")
			return
		}
		h.fail(w, r, err)
		return
	}

	h.addFlash(w, r, flashSuccess, fmt.Sprintf("Payment accepted. %d ticket(s) issued.", len(tickets)))
	redirect(w, r, "/tickets/")
}

func checkoutForm(r *http.Request) *models.CheckoutForm {
	return &models.CheckoutForm{
		CardNumber: r.PostFormValue("card_number"),
		ExpiryDate: r.PostFormValue("expiry_date"),
		CVV:        r.PostFormValue("cvv"),
	}
}
