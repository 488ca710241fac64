package termview

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nfrund/miniapp/internal/verifier"
)

// View prints every field mutation as a line on a writer. It is the terminal
// counterpart of the HTML board.
type View struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a View writing to w.
func New(w io.Writer) *View {
	return &View{w: w}
}

// SetText implements verifier.View. Multi-line text is indented under the
// field name.
func (v *View) SetText(field verifier.Field, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if strings.Contains(text, "\n") {
		fmt.Fprintf(v.w, "%s:\n  %s\n", field, strings.ReplaceAll(text, "\n", "\n  "))
		return
	}
	fmt.Fprintf(v.w, "%s: %s\n", field, text)
}

// SetVisible implements verifier.View.
func (v *View) SetVisible(field verifier.Field, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	state := "hidden"
	if visible {
		state = "shown"
	}
	fmt.Fprintf(v.w, "%s [%s]\n", field, state)
}

// SetTone implements verifier.View.
func (v *View) SetTone(field verifier.Field, tone verifier.Tone) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.w, "%s <%s>\n", field, tone)
}
