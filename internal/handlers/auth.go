package handlers

import (
	"errors"
	"net/http"
	"strings"

	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/middleware"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/internal/services"
	"offer-ticketing-platform/web/templates/pages"

	"github.com/gorilla/sessions"
)

const homePath = "/home/"

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	base
	authService services.AuthServiceInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface, store sessions.Store) *AuthHandler {
	return &AuthHandler{base: base{store: store}, authService: authService}
}

// SignupPage renders the full registration form
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.registrationPage(w, r, models.RegistrationSignup)
}

// RegisterPage renders the short registration form
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.registrationPage(w, r, models.RegistrationBasic)
}

func (h *AuthHandler) registrationPage(w http.ResponseWriter, r *http.Request, kind models.RegistrationKind) {
	if middleware.GetUserFromContext(r.Context()) != nil {
		redirect(w, r, homePath)
		return
	}
	h.render(w, r, http.StatusOK, pages.SignupPage(h.layout(w, r), kind, pages.FormState{}))
}

// SignupSubmit creates the account and logs the new user in
func (h *AuthHandler) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.register(w, r, models.RegistrationSignup)
	if !ok {
		return
	}

	resp, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.startSession(w, r, resp); err != nil {
		h.fail(w, r, err)
		return
	}

	redirect(w, r, homePath)
}

// RegisterSubmit creates the account and sends the user to the login page
func (h *AuthHandler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.register(w, r, models.RegistrationBasic); !ok {
		return
	}

	h.addFlash(w, r, flashSuccess, "Your account has been created. You can now log in.")
	redirect(w, r, middleware.LoginPath)
}

// register validates and creates the user. On failure the response has been written.
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, kind models.RegistrationKind) (*models.UserCreateRequest, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return nil, false
	}

	req := &models.UserCreateRequest{
		Kind:            kind,
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		FirstName:       strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:        strings.TrimSpace(r.PostFormValue("last_name")),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}

	if _, err := h.authService.Register(r.Context(), req); err != nil {
		verrs, ok := validationErrors(err)
		if !ok {
			h.fail(w, r, err)
			return nil, false
		}
		form := pages.FormState{
			Values: formValues(r, "username", "email", "first_name", "last_name"),
			Errors: verrs,
		}
		h.render(w, r, http.StatusUnprocessableEntity, pages.SignupPage(h.layout(w, r), kind, form))
		return nil, false
	}

	logging.FromContext(r.Context()).WithField("username", req.Username).Info("User registered")
	return req, true
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if middleware.GetUserFromContext(r.Context()) != nil {
		redirect(w, r, next)
		return
	}
	h.render(w, r, http.StatusOK, pages.LoginPage(h.layout(w, r), r.URL.Query().Get("next"), pages.FormState{}))
}

// LoginSubmit handles login form submission
func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := r.PostFormValue("next")

	resp, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			h.fail(w, r, err)
			return
		}
		form := pages.FormState{
			Values: map[string]string{"username": username},
			Errors: models.ValidationErrors{"__all__": {"Invalid username or password."}},
		}
		h.render(w, r, http.StatusUnprocessableEntity, pages.LoginPage(h.layout(w, r), next, form))
		return
	}

	if err := h.startSession(w, r, resp); err != nil {
		h.fail(w, r, err)
		return
	}

	h.addFlash(w, r, flashSuccess, "You are now logged in.")
	redirect(w, r, safeNext(next))
}

// startSession stores the session ID and rotates the CSRF token
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, resp *services.AuthResponse) error {
	token, err := middleware.GenerateCSRFToken()
	if err != nil {
		return err
	}

	session := h.session(r)
	session.Values["session_id"] = resp.SessionID
	session.Values["csrf_token"] = token
	return session.Save(r, w)
}

// Logout handles user logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)

	if sessionID, ok := session.Values["session_id"].(string); ok && sessionID != "" {
		if err := h.authService.Logout(r.Context(), sessionID); err != nil {
			logging.FromContext(r.Context()).WithError(err).Warn("Failed to delete session")
		}
	}

	// The whole cookie goes: login, CSRF token and the session cart
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		logging.FromContext(r.Context()).WithError(err).Warn("Failed to clear session cookie")
	}

	redirect(w, r, homePath)
}

// safeNext only accepts local paths so login cannot be used as an open redirect
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return homePath
	}
	return next
}
