package pages

import (
	"context"

	"offer-ticketing-platform/internal/models"

	"github.com/a-h/templ"
)

// Flash is a one-shot message shown on the next page
type Flash struct {
	Level   string // "success" or "error"
	Message string
}

// LayoutData is what every page needs besides its own content
type LayoutData struct {
	User    *models.User
	Flashes []Flash
}

// Layout wraps body in the site chrome
func Layout(title string, data LayoutData, body templ.Component) templ.Component {
	return render(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1.0"><title>`)
		h.text(title)
		h.raw(` - Offers</title></head><body><nav>`)
		h.raw(`<a href="/home/">Offers</a>`)
		if data.User != nil {
			h.raw(` <a href="/cart/">Cart</a> <a href="/tickets/">My tickets</a> <span class="user">`)
			h.text(data.User.FullName())
			h.raw(`</span> `)
			h.postForm(ctx, "/logout/", "Log out", "link")
		} else {
			h.raw(` <a href="/login/">Log in</a> <a href="/signup/">Sign up</a>`)
		}
		h.raw(`</nav>`)

		for _, f := range data.Flashes {
			h.raw(`<div class="flash flash-`, f.Level, `">`)
			h.text(f.Message)
			h.raw(`</div>`)
		}

		h.raw(`<main>`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

// ErrorPage renders a bare status page
func ErrorPage(data LayoutData, title, message string) templ.Component {
	return Layout(title, data, render(func(ctx context.Context, h *html) {
		h.raw(`<h1>`)
		h.text(title)
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p><a href="/home/">Back to offers</a>`)
	}))
}
