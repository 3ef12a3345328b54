package pages

import (
	"context"
	"fmt"
	"io"

	"offer-ticketing-platform/internal/middleware"
	"offer-ticketing-platform/internal/models"

	"github.com/a-h/templ"
)

// html writes markup to w and keeps the first write error
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) rawf(format string, args ...interface{}) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func render(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

// FormState carries submitted values and their validation messages back into a form
type FormState struct {
	Values map[string]string
	Errors models.ValidationErrors
}

func (f FormState) value(name string) string {
	if f.Values == nil {
		return ""
	}
	return f.Values[name]
}

func (f FormState) fieldErrors(name string) []string {
	if f.Errors == nil {
		return nil
	}
	return f.Errors[name]
}

func (h *html) csrfField(ctx context.Context) {
	h.raw(`<input type="hidden" name="`, middleware.CSRFFieldName, `" value="`)
	h.text(middleware.CSRFTokenFromContext(ctx))
	h.raw(`">`)
}

// postForm renders a single-button form, the way every state change is submitted
func (h *html) postForm(ctx context.Context, action, label, class string) {
	h.raw(`<form method="post" action="`)
	h.text(action)
	h.raw(`" class="inline">`)
	h.csrfField(ctx)
	h.raw(`<button type="submit" class="`, class, `">`)
	h.text(label)
	h.raw(`</button></form>`)
}

func (h *html) field(form FormState, name, label, inputType string) {
	h.raw(`<div class="field"><label for="`, name, `">`)
	h.text(label)
	h.raw(`</label><input id="`, name, `" name="`, name, `" type="`, inputType, `"`)
	if inputType != "password" {
		h.raw(` value="`)
		h.text(form.value(name))
		h.raw(`"`)
	}
	h.raw(`>`)
	for _, msg := range form.fieldErrors(name) {
		h.raw(`<p class="error">`)
		h.text(msg)
		h.raw(`</p>`)
	}
	h.raw(`</div>`)
}

func (h *html) nonFieldErrors(form FormState, fields ...string) {
	for _, field := range fields {
		for _, msg := range form.fieldErrors(field) {
			h.raw(`<p class="error">`)
			h.text(msg)
			h.raw(`</p>`)
		}
	}
}
