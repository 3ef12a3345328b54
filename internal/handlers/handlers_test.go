package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"offer-ticketing-platform/internal/cart"
	"offer-ticketing-platform/internal/middleware"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/internal/services"

	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService is a mock implementation of AuthServiceInterface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*services.AuthResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResponse), args.Error(1)
}

func (m *MockAuthService) ValidateSession(ctx context.Context, sessionID string) (*models.User, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockOrderService is a mock implementation of OrderServiceInterface
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) FinalizeOrder(ctx context.Context, user *models.User, offerID int) (*models.Ticket, error) {
	args := m.Called(ctx, user, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockOrderService) GetConfirmation(ctx context.Context, user *models.User, ticketID int) (*models.TicketWithOffer, error) {
	args := m.Called(ctx, user, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketWithOffer), args.Error(1)
}

func (m *MockOrderService) ListUserTickets(ctx context.Context, user *models.User) ([]*models.TicketWithOffer, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TicketWithOffer), args.Error(1)
}

type fakeOfferRepository struct {
	offers map[int]*models.Offer
}

func (r *fakeOfferRepository) GetByID(ctx context.Context, id int) (*models.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, fmt.Errorf("offer with id %d: %w", id, models.ErrOfferNotFound)
	}
	return o, nil
}

func (r *fakeOfferRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Offer, error) {
	result := map[int]*models.Offer{}
	for _, id := range ids {
		if o, ok := r.offers[id]; ok {
			result[id] = o
		}
	}
	return result, nil
}

func (r *fakeOfferRepository) List(ctx context.Context) ([]*models.Offer, error) {
	offers := make([]*models.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		offers = append(offers, o)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
	return offers, nil
}

var (
	alice = &models.User{ID: 7, Username: "alice", FirstName: "Alice", IsActive: true}

	gig  = &models.Offer{ID: 1, Name: "Gig", Description: "Live music", Price: decimal.RequireFromString("50.00")}
	talk = &models.Offer{ID: 2, Name: "Talk", Price: decimal.RequireFromString("12.35")}
)

type testApp struct {
	server   *httptest.Server
	mediaDir string
	auth     *MockAuthService
	orders   *MockOrderService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	store.Options.Path = "/"

	authService := new(MockAuthService)
	authService.On("ValidateSession", mock.Anything, "sess-alice").Return(alice, nil).Maybe()
	orders := new(MockOrderService)

	catalog := services.NewCatalogService(&fakeOfferRepository{offers: map[int]*models.Offer{1: gig, 2: talk}})
	carts := services.NewCartService(catalog)
	checkout := services.NewCheckoutService(carts, orders)

	mediaDir := t.TempDir()
	router := Router{
		Public: NewPublicHandler(catalog, store),
		Auth:   NewAuthHandler(authService, store),
		Cart:   NewCartHandler(catalog, carts, checkout, cart.NewSessionBackend(store), store),
		Orders: NewOrderHandler(catalog, orders, checkout, store),
		Health: NewHealthHandler(map[string]HealthCheck{
			"database": func(ctx context.Context) error { return nil },
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(authService, store),
		CSRF:           middleware.NewCSRFMiddleware(store),
		MediaDir:       mediaDir,
	}

	server := httptest.NewServer(router.Handler())
	t.Cleanup(server.Close)

	return &testApp{server: server, mediaDir: mediaDir, auth: authService, orders: orders}
}

type testClient struct {
	t      *testing.T
	app    *testApp
	client *http.Client
}

func (a *testApp) client(t *testing.T) *testClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t:   t,
		app: a,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	status   int
	location string
	body     string
}

func (c *testClient) do(req *http.Request) response {
	c.t.Helper()

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return response{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (c *testClient) get(path string) response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.app.server.URL+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// csrfToken reads the token from a rendered form, the way a browser would submit it
func (c *testClient) csrfToken() string {
	c.t.Helper()
	page := c.get("/home/")
	m := csrfInput.FindStringSubmatch(page.body)
	require.Len(c.t, m, 2, "no CSRF field on the offers page")
	return m[1]
}

func (c *testClient) post(path string, form url.Values) response {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if form.Get(middleware.CSRFFieldName) == "" {
		form.Set(middleware.CSRFFieldName, c.csrfToken())
	}

	req, err := http.NewRequest(http.MethodPost, c.app.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// loginAsAlice goes through the login form with a mocked credential check
func (c *testClient) loginAsAlice() {
	c.t.Helper()
	c.app.auth.On("Login", mock.Anything, "alice", "correct-horse").
		Return(&services.AuthResponse{User: alice, SessionID: "sess-alice", ExpiresAt: time.Now().Add(time.Hour)}, nil).Once()

	resp := c.post("/login/", url.Values{"username": {"alice"}, "password": {"correct-horse"}})
	require.Equal(c.t, http.StatusSeeOther, resp.status)
}

func validPayment() url.Values {
	return url.Values{
		"card_number": {"4242 4242 4242 4242"},
		"expiry_date": {"12/30"},
		"cvv":         {"123"},
	}
}
