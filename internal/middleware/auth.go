package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/internal/services"

	"github.com/gorilla/sessions"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
	csrfContextKey contextKey = "csrf_token"
)

// SessionName is the gorilla session that carries the login, CSRF token, flashes and the session cart
const SessionName = "session"

// LoginPath is where anonymous requests are sent
const LoginPath = "/login/"

// AuthMiddleware provides authentication functionality
type AuthMiddleware struct {
	authService services.AuthServiceInterface
	store       sessions.Store
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService services.AuthServiceInterface, store sessions.Store) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		store:       store,
	}
}

// LoadUser middleware loads the current user from session and adds to context
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sessionID, ok := session.Values["session_id"].(string)
		if !ok || sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authService.ValidateSession(r.Context(), sessionID)
		if err != nil {
			// Expired or revoked: drop the login but keep the rest of the session
			delete(session.Values, "session_id")
			if err := session.Save(r, w); err != nil {
				logging.FromContext(r.Context()).WithError(err).Warn("Failed to clear stale login")
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := SetUserContext(r.Context(), user)
		ctx = logging.WithField(ctx, "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth middleware ensures user is authenticated
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return RequireAuth(next)
}

// RequireAuth redirects anonymous requests to the login page, remembering where they were going
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			RedirectToLogin(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RedirectToLogin sends the client to the login page with next set to the current path
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginURL(r.URL.Path)
	if IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// LoginURL returns the login URL that returns to next after a successful login
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	// Slashes stay readable: /login/?next=/cart/
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// GetUserFromContext retrieves the user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetUserContext sets the user in the context
func SetUserContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// IsHTMXRequest checks if the request is from HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// GenerateCSRFToken generates a CSRF token for the session
func GenerateCSRFToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}
