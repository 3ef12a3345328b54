package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"offer-ticketing-platform/internal/logging"

	"github.com/gorilla/sessions"
)

// CSRFFieldName is the form field carrying the token
const CSRFFieldName = "csrf_token"

// CSRFMiddleware provides CSRF protection functionality
type CSRFMiddleware struct {
	store sessions.Store
}

// NewCSRFMiddleware creates a new CSRF middleware
func NewCSRFMiddleware(store sessions.Store) *CSRFMiddleware {
	return &CSRFMiddleware{
		store: store,
	}
}

// EnsureCSRFToken makes sure the session holds a token and exposes it to templates
func (m *CSRFMiddleware) EnsureCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())

		session, err := m.store.Get(r, SessionName)
		if err != nil {
			// A cookie signed with an old secret; Get still returns a fresh session
			log.WithError(err).Debug("Discarding undecodable session")
		}

		token, ok := session.Values["csrf_token"].(string)
		if !ok || token == "" {
			token, err = GenerateCSRFToken()
			if err != nil {
				log.WithError(err).Error("Failed to generate CSRF token")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			session.Values["csrf_token"] = token
			if err := session.Save(r, w); err != nil {
				log.WithError(err).Error("Failed to save CSRF token")
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey, token)))
	})
}

// CSRFProtection rejects state-changing requests whose token does not match the session's
func (m *CSRFMiddleware) CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		sessionToken := CSRFTokenFromContext(r.Context())
		if sessionToken == "" {
			session, _ := m.store.Get(r, SessionName)
			sessionToken, _ = session.Values["csrf_token"].(string)
		}

		requestToken := r.Header.Get("X-CSRF-Token")
		if requestToken == "" {
			requestToken = r.PostFormValue(CSRFFieldName)
		}

		if sessionToken == "" || subtle.ConstantTimeCompare([]byte(requestToken), []byte(sessionToken)) != 1 {
			logging.FromContext(r.Context()).WithField("path", r.URL.Path).Warn("CSRF token mismatch")
			http.Error(w, "CSRF token mismatch", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CSRFTokenFromContext returns the token placed by EnsureCSRFToken
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey).(string)
	return token
}
