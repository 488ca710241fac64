package view

import (
	"encoding/json"
	"fmt"
	"strings"

	gview "github.com/nfrund/miniapp/internal/view"
	"github.com/nfrund/miniapp/internal/verifier"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// RootID is the DOM id of the element swapped by a verification response.
const RootID = "miniapp"

// DOMID maps a logical field to its element id.
func DOMID(f verifier.Field) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

// Page renders the mini-app shell: the platform bootstrap, the request that
// starts verification on load and the regions in their initial state.
func Page(data PageData, board *gview.Board) g.Node {
	return h.Main(
		h.Script(g.Raw(bootstrapJS)),
		h.Div(
			h.ID("miniapp-trigger"),
			hx.Post(data.VerifyPath),
			hx.Trigger("load"),
			hx.Target("#"+RootID),
			hx.Swap("outerHTML"),
			hx.Vals(requestVals(data)),
		),
		Regions(board),
	)
}

// Regions renders every display region from the board. It is both the initial
// page body and the response to a verification request.
func Regions(board *gview.Board) g.Node {
	return h.Div(h.ID(RootID),
		statusRegion(board),
		profileRegion(board),
		h.H3(g.Text("Platform data")),
		panel(board, verifier.FieldRawData),
		h.H3(g.Text("Server response")),
		panel(board, verifier.FieldServerResponse),
	)
}

func statusRegion(board *gview.Board) g.Node {
	tone := board.Tone(verifier.FieldStatus)
	text := board.Text(verifier.FieldStatus)
	if text == "" {
		text = verifier.StatusStarting
	}
	return h.Div(
		h.ID(DOMID(verifier.FieldStatus)),
		c.Classes{
			"status-indicator": true,
			"status-success":   tone == verifier.ToneSuccess,
			"status-error":     tone == verifier.ToneError,
		},
		g.Text(text),
	)
}

func panel(board *gview.Board, f verifier.Field) g.Node {
	return h.Pre(
		h.ID(DOMID(f)),
		c.Classes{"panel": true, "hidden": !board.Visible(f)},
		g.Text(board.Text(f)),
	)
}

func profileRegion(board *gview.Board) g.Node {
	return h.Section(
		h.ID(DOMID(verifier.FieldProfile)),
		c.Classes{"profile": true, "hidden": !board.Visible(verifier.FieldProfile)},
		avatar(board),
		h.H2(
			h.Span(h.ID(DOMID(verifier.FieldName)), g.Text(board.Text(verifier.FieldName))),
			h.Span(
				h.ID(DOMID(verifier.FieldPremiumBadge)),
				c.Classes{"premium-badge": true, "hidden": !board.Visible(verifier.FieldPremiumBadge)},
				g.Text("★"),
			),
		),
		h.P(h.ID(DOMID(verifier.FieldHandle)), g.Text(board.Text(verifier.FieldHandle))),
		h.Dl(
			detail("ID", board, verifier.FieldUserID),
			detail("Language", board, verifier.FieldLocale),
			detail("Can message", board, verifier.FieldCanWrite),
			detail("Account", board, verifier.FieldAccountType),
		),
	)
}

func avatar(board *gview.Board) g.Node {
	src := board.Text(verifier.FieldAvatar)
	return h.Img(
		h.ID(DOMID(verifier.FieldAvatar)),
		c.Classes{"avatar": true, "hidden": !board.Visible(verifier.FieldAvatar) || src == ""},
		g.If(src != "", h.Src(src)),
		h.Alt(""),
		// A broken URL hides the image instead of showing a broken glyph.
		g.Attr("onerror", "this.style.display='none'"),
	)
}

func detail(label string, board *gview.Board, f verifier.Field) g.Node {
	return g.Group([]g.Node{
		h.Dt(g.Text(label)),
		h.Dd(h.ID(DOMID(f)), g.Text(board.Text(f))),
	})
}

// requestVals builds the hx-vals expression. Platform data is read in the
// browser at request time; the query overrides are embedded as JSON strings.
func requestVals(data PageData) string {
	endpoint, _ := json.Marshal(data.Endpoint)
	dev := "0"
	if data.Dev {
		dev = "1"
	}
	return fmt.Sprintf(
		`js:{init_data: miniappPlatform().initData, init_data_unsafe: miniappPlatform().initDataUnsafe, endpoint: %s, dev: %q}`,
		endpoint, dev,
	)
}

const bootstrapJS = `
(function () {
  var app = window.Telegram && window.Telegram.WebApp;
  window.miniappPlatform = function () {
    if (!app) {
      return { initData: "", initDataUnsafe: "" };
    }
    return {
      initData: app.initData || "",
      initDataUnsafe: JSON.stringify(app.initDataUnsafe || {})
    };
  };
  if (!app) {
    return;
  }
  app.ready();
  app.expand();
  document.addEventListener("DOMContentLoaded", function () {
    var raw = document.getElementById("raw-data");
    if (raw) {
      raw.textContent = JSON.stringify(app.initDataUnsafe || {}, null, 2);
    }
  });
})();
`
