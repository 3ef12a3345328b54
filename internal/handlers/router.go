package handlers

import (
	"net/http"
	"time"

	"offer-ticketing-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router wires the handlers and middleware into the site's URL space
type Router struct {
	Public *PublicHandler
	Auth   *AuthHandler
	Cart   *CartHandler
	Orders *OrderHandler
	Health *HealthHandler

	AuthMiddleware *middleware.AuthMiddleware
	CSRF           *middleware.CSRFMiddleware
	LoginLimiter   *middleware.LoginRateLimiter

	// MediaDir is served under /media/; it holds locally stored artifacts
	MediaDir string
}

// Handler builds the chi router
func (rt Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.SecureHeaders)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	if rt.Health != nil {
		r.Method(http.MethodGet, "/healthz", rt.Health)
	}
	if rt.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(rt.MediaDir))))
	}

	r.Group(func(r chi.Router) {
		r.Use(rt.AuthMiddleware.LoadUser)
		r.Use(rt.CSRF.EnsureCSRFToken)
		r.Use(rt.CSRF.CSRFProtection)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, homePath, http.StatusFound)
		})
		r.Get("/home/", rt.Public.HomePage)

		r.Get("/signup/", rt.Auth.SignupPage)
		r.Post("/signup/", rt.Auth.SignupSubmit)
		r.Get("/register/", rt.Auth.RegisterPage)
		r.Post("/register/", rt.Auth.RegisterSubmit)

		r.Group(func(r chi.Router) {
			if rt.LoginLimiter != nil {
				r.Use(middleware.LoginRateLimit(rt.LoginLimiter))
			}
			r.Get("/login/", rt.Auth.LoginPage)
			r.Post("/login/", rt.Auth.LoginSubmit)
		})
		r.Get("/logout/", rt.Auth.Logout)
		r.Post("/logout/", rt.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(rt.AuthMiddleware.RequireAuth)

			r.Get("/add-to-cart/{offerID}/", rt.Cart.AddToCart)
			r.Post("/add-to-cart/{offerID}/", rt.Cart.AddToCart)
			r.Get("/cart/", rt.Cart.ViewCart)
			r.Post("/cart/checkout/", rt.Cart.CheckoutCart)
			r.Get("/remove-from-cart/{offerID}/", rt.Cart.RemoveFromCart)
			r.Post("/remove-from-cart/{offerID}/", rt.Cart.RemoveFromCart)
			r.Get("/clear-cart/", rt.Cart.ClearCart)
			r.Post("/clear-cart/", rt.Cart.ClearCart)

			r.Get("/checkout/{offerID}/", rt.Orders.CheckoutPage)
			r.Post("/checkout/{offerID}/", rt.Orders.CheckoutSubmit)
			r.Get("/finalize-order/{offerID}/", rt.Orders.FinalizePage)
			r.Post("/finalize-order/{offerID}/", rt.Orders.FinalizeSubmit)
			r.Get("/confirmation/{ticketID}/", rt.Orders.Confirmation)
			r.Get("/tickets/", rt.Orders.Tickets)
		})
	})

	return r
}
