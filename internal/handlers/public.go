package handlers

import (
	"net/http"

	"offer-ticketing-platform/internal/services"
	"offer-ticketing-platform/web/templates/pages"

	"github.com/gorilla/sessions"
)

// PublicHandler handles the pages anyone can see
type PublicHandler struct {
	base
	catalog services.CatalogServiceInterface
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(catalog services.CatalogServiceInterface, store sessions.Store) *PublicHandler {
	return &PublicHandler{base: base{store: store}, catalog: catalog}
}

// HomePage lists all offers
func (h *PublicHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	offers, err := h.catalog.ListOffers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, pages.HomePage(h.layout(w, r), offers))
}
