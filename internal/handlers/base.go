package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/middleware"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/web/templates/pages"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// base holds what every page handler shares: the session store for flashes and the rendering helpers
type base struct {
	store sessions.Store
}

func (b base) session(r *http.Request) *sessions.Session {
	session, err := b.store.Get(r, middleware.SessionName)
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Debug("Starting a fresh session")
	}
	return session
}

func (b base) addFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	session := b.session(r)
	session.AddFlash(message, level)
	if err := session.Save(r, w); err != nil {
		logging.FromContext(r.Context()).WithError(err).Warn("Failed to save flash message")
	}
}

// layout collects the user and pending flashes. Reading flashes consumes them.
func (b base) layout(w http.ResponseWriter, r *http.Request) pages.LayoutData {
	data := pages.LayoutData{User: middleware.GetUserFromContext(r.Context())}

	session := b.session(r)
	consumed := false
	for _, level := range []string{flashSuccess, flashError} {
		for _, f := range session.Flashes(level) {
			consumed = true
			if msg, ok := f.(string); ok {
				data.Flashes = append(data.Flashes, pages.Flash{Level: level, Message: msg})
			}
		}
	}
	if consumed {
		if err := session.Save(r, w); err != nil {
			logging.FromContext(r.Context()).WithError(err).Warn("Failed to consume flash messages")
		}
	}

	return data
}

func (b base) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("Failed to render page")
	}
}

// fail maps a service error onto a response: login redirect, 404, or a generic 500
func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		middleware.RedirectToLogin(w, r)
	case errors.Is(err, models.ErrNotFound):
		b.render(w, r, http.StatusNotFound, pages.ErrorPage(b.layout(w, r), "Not found", "The page you are looking for does not exist."))
	default:
		logging.FromContext(r.Context()).WithError(err).Error("Request failed")
		b.render(w, r, http.StatusInternalServerError, pages.ErrorPage(b.layout(w, r), "Something went wrong", "Please try again later."))
	}
}

// redirect handles redirects appropriately for HTMX vs regular requests
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// idParam parses a positive integer URL parameter
func idParam(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formValues keeps the named fields of a parsed form for re-rendering
func formValues(r *http.Request, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = strings.TrimSpace(r.PostFormValue(f))
	}
	return values
}

// validationErrors extracts per-field messages, or reports false for any other error
func validationErrors(err error) (models.ValidationErrors, bool) {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
