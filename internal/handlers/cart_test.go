package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"offer-ticketing-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCart_AliceAddsOfferTwice(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.loginAsAlice()

	for i := 0; i < 2; i++ {
		resp := c.post("/add-to-cart/1/", nil)
		assert.Equal(t, http.StatusSeeOther, resp.status)
		assert.Equal(t, "/home/", resp.location)
	}

	page := c.get("/cart/")
	assert.Equal(t, http.StatusOK, page.status)
	assert.Contains(t, page.body, `<tr id="cart-line-1">`)
	assert.Contains(t, page.body, `<td class="quantity">2</td>`)
	assert.Contains(t, page.body, `<td class="total">100.00 €</td>`)
}

func TestCart_AddShowsFlashOnHome(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.loginAsAlice()
	c.get("/home/") // consume the login flash

	c.post("/add-to-cart/2/", nil)

	home := c.get("/home/")
	assert.Contains(t, home.body, "&#34;Talk&#34; was added to your cart.")
	assert.NotContains(t, c.get("/home/").body, "was added to your cart.")
}

func TestCart_UnknownOffer(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.loginAsAlice()

	assert.Equal(t, http.StatusNotFound, c.post("/add-to-cart/99/", nil).status)
	assert.Equal(t, http.StatusNotFound, c.post("/add-to-cart/abc/", nil).status)
}

func TestCart_RemoveAndClear(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.loginAsAlice()

	c.post("/add-to-cart/1/", nil)
	c.post("/add-to-cart/2/", nil)

	resp := c.post("/remove-from-cart/1/", nil)
	assert.Equal(t, http.StatusSeeOther, resp.status)
	assert.Equal(t, "/cart/", resp.location)

	page := c.get("/cart/")
	assert.NotContains(t, page.body, `<tr id="cart-line-1">`)
	assert.Contains(t, page.body, `<tr id="cart-line-2">`)
	assert.Contains(t, page.body, "The offer was removed from your cart.")

	// Removing an offer that is not in the cart changes nothing
	c.post("/remove-from-cart/1/", nil)
	assert.Contains(t, c.get("/cart/").body, `<tr id="cart-line-2">`)

	c.post("/clear-cart/", nil)
	page = c.get("/cart/")
	assert.Contains(t, page.body, "Your cart is empty.")
	assert.Contains(t, page.body, "Your cart has been emptied.")
}

func TestCart_RequiresLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp := c.get("/cart/")

	assert.Equal(t, http.StatusSeeOther, resp.status)
	assert.Equal(t, "/login/?next=/cart/", resp.location)
}

func TestCartCheckout_IssuesOneTicketPerUnit(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.loginAsAlice()

	c.post("/add-to-cart/1/", nil)
	c.post("/add-to-cart/1/", nil)
	c.post("/add-to-cart/2/", nil)

	app.orders.On("FinalizeOrder", mock.Anything, alice, 1).Return(&models.Ticket{ID: 10}, nil).Twice()
	app.orders.On("FinalizeOrder", mock.Anything, alice, 2).Return(&models.Ticket{ID: 11}, nil).Once()
	app.orders.On("ListUserTickets", mock.Anything, alice).Return([]*models.TicketWithOffer{}, nil)

	resp := c.post("/cart/checkout/", validPayment())

	assert.Equal(t, http.StatusSeeOther, resp.status)
	assert.Equal(t, "/tickets/", resp.location)
	assert.Contains(t, c.get("/tickets/").body, "Payment accepted. 3 ticket(s) issued.")
	assert.Contains(t, c.get("/cart/").body, "Your cart is empty.")
	app.orders.AssertExpectations(t)
}

func TestCartCheckout_InvalidPayment(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.loginAsAlice()
	c.post("/add-to-cart/1/", nil)

	resp := c.post("/cart/checkout/", url.Values{"card_number": {"4242"}, "expiry_date": {"12/30"}})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Contains(t, resp.body, "card number must be 12 to 19 digits")
	assert.Contains(t, resp.body, "CVV is required")
	assert.Contains(t, resp.body, `value="4242"`)
	assert.Contains(t, resp.body, `<tr id="cart-line-1">`)
	app.orders.AssertNotCalled(t, "FinalizeOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartCheckout_EmptyCart(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.loginAsAlice()

	resp := c.post("/cart/checkout/", validPayment())

	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Contains(t, resp.body, "your cart is empty")
}

func TestCartCheckout_PartialFailureKeepsRemainingItems(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.loginAsAlice()

	c.post("/add-to-cart/1/", nil)
	c.post("/add-to-cart/2/", nil)

	app.orders.On("FinalizeOrder", mock.Anything, alice, 1).Return(&models.Ticket{ID: 10}, nil).Once()
	app.orders.On("FinalizeOrder", mock.Anything, alice, 2).Return(nil, errors.New("storage down")).Once()
	app.orders.On("ListUserTickets", mock.Anything, alice).Return([]*models.TicketWithOffer{}, nil)

	resp := c.post("/cart/checkout/", validPayment())

	assert.Equal(t, http.StatusSeeOther, resp.status)
	assert.Contains(t, c.get("/tickets/").body, "Only 1 ticket(s) could be issued.")

	page := c.get("/cart/")
	assert.NotContains(t, page.body, `<tr id="cart-line-1">`)
	assert.Contains(t, page.body, `<tr id="cart-line-2">`)
}
