package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// Script sources loaded by every page.
const (
	PlatformSDKURL = "https://telegram.org/js/telegram-web-app.js"
	HTMXURL        = "https://unpkg.com/htmx.org@2.0.4"
	StylesheetURL  = "/static/css/miniapp.css"
)

// PageTitle builds the document title.
func PageTitle(title string) string {
	if title != "" {
		return title + " - Mini App"
	}
	return "Mini App"
}

// Base wraps page content in the HTML document shared by all pages.
func Base(title string, flashes FlashData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return c.HTML5(c.HTML5Props{
			Title:    PageTitle(title),
			Language: "en",
			Head: []g.Node{
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.Script(h.Src(PlatformSDKURL)),
				h.Script(h.Src(HTMXURL)),
				h.Link(h.Rel("stylesheet"), h.Href(StylesheetURL)),
			},
			Body: []g.Node{
				flashList(flashes),
				ToNode(ctx, content),
			},
		}).Render(w)
	})
}

func flashList(f FlashData) g.Node {
	if f.Empty() {
		return g.Group(nil)
	}
	return h.Div(h.ID("flashes"),
		g.Map(f.Success, func(msg string) g.Node {
			return h.P(h.Class("flash flash-success"), g.Text(msg))
		}),
		g.Map(f.Error, func(msg string) g.Node {
			return h.P(h.Class("flash flash-error"), g.Text(msg))
		}),
	)
}
