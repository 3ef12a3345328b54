package pages

import (
	"context"

	"offer-ticketing-platform/internal/models"

	"github.com/a-h/templ"
)

// LoginPage renders the login form. next is carried through as a hidden field.
func LoginPage(data LayoutData, next string, form FormState) templ.Component {
	return Layout("Log in", data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>Log in</h1>`)
		h.nonFieldErrors(form, "__all__")
		h.raw(`<form method="post" action="/login/">`)
		h.csrfField(ctx)
		h.raw(`<input type="hidden" name="next" value="`)
		h.text(next)
		h.raw(`">`)
		h.field(form, "username", "Username", "text")
		h.field(form, "password", "Password", "password")
		h.raw(`<button type="submit">Log in</button></form>`)
		h.raw(`<p>No account yet? <a href="/signup/">Sign up</a></p>`)
	}))
}

// SignupPage renders the full profile form on /signup/ or the short one on /register/
func SignupPage(data LayoutData, kind models.RegistrationKind, form FormState) templ.Component {
	action, title := "/register/", "Register"
	if kind == models.RegistrationSignup {
		action, title = "/signup/", "Sign up"
	}

	return Layout(title, data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>`)
		h.text(title)
		h.raw(`</h1><form method="post" action="`, action, `">`)
		h.csrfField(ctx)
		h.field(form, "username", "Username", "text")
		if kind == models.RegistrationSignup {
			h.field(form, "first_name", "First name", "text")
			h.field(form, "last_name", "Last name", "text")
			h.field(form, "email", "Email", "email")
		}
		h.field(form, "password", "Password", "password")
		h.field(form, "password_confirm", "Confirm password", "password")
		h.raw(`<button type="submit">`)
		h.text(title)
		h.raw(`</button></form>`)
	}))
}
