package view

import "github.com/nfrund/miniapp/internal/verifier"

// Board is an in-memory verifier.View. It records the latest text, visibility
// and tone of every field so a page can be rendered from it afterwards.
type Board struct {
	text    map[verifier.Field]string
	visible map[verifier.Field]bool
	tone    map[verifier.Field]verifier.Tone
	touched map[verifier.Field]bool
}

// NewBoard returns a board in the page's initial layout: the profile panel,
// avatar and premium badge start hidden, everything else visible and empty.
func NewBoard() *Board {
	b := &Board{
		text:    make(map[verifier.Field]string),
		visible: make(map[verifier.Field]bool),
		tone:    make(map[verifier.Field]verifier.Tone),
		touched: make(map[verifier.Field]bool),
	}
	b.visible[verifier.FieldProfile] = false
	b.visible[verifier.FieldAvatar] = false
	b.visible[verifier.FieldPremiumBadge] = false
	return b
}

// SetText implements verifier.View.
func (b *Board) SetText(field verifier.Field, text string) {
	b.text[field] = text
	b.touched[field] = true
}

// SetVisible implements verifier.View.
func (b *Board) SetVisible(field verifier.Field, visible bool) {
	b.visible[field] = visible
	b.touched[field] = true
}

// SetTone implements verifier.View.
func (b *Board) SetTone(field verifier.Field, tone verifier.Tone) {
	b.tone[field] = tone
	b.touched[field] = true
}

// Text returns the current text of field.
func (b *Board) Text(field verifier.Field) string {
	return b.text[field]
}

// Visible reports whether field is shown. Fields never hidden are visible.
func (b *Board) Visible(field verifier.Field) bool {
	v, ok := b.visible[field]
	return !ok || v
}

// Tone returns the tone of field.
func (b *Board) Tone(field verifier.Field) verifier.Tone {
	return b.tone[field]
}

// Touched reports whether any mutation reached field since the board was created.
func (b *Board) Touched(field verifier.Field) bool {
	return b.touched[field]
}
