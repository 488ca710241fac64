package profile

import (
	"strconv"
	"strings"

	"github.com/nfrund/miniapp/internal/domain"
)

// Projection is the display-ready form of an UnsafeUserView. Every field is a
// plain string or flag so views can render it without further logic.
type Projection struct {
	DisplayName string
	Handle      string
	AvatarURL   string
	ShowAvatar  bool
	Premium     bool
	Locale      string
	ID          string
	CanWrite    string
	AccountType string
}

// Project derives the profile panel contents from the unverified user view.
// It has no side effects: projecting the same user twice gives equal results.
func Project(user domain.UnsafeUserView, labels Labels) Projection {
	avatar := strings.TrimSpace(user.PhotoURL)

	canWrite := labels.No
	if user.AllowsWriteToPM {
		canWrite = labels.Yes
	}
	accountType := labels.Standard
	if user.IsPremium {
		accountType = labels.Premium
	}

	return Projection{
		DisplayName: DisplayName(user.FirstName, user.LastName, labels.Placeholder),
		Handle:      Handle(user.Username),
		AvatarURL:   avatar,
		ShowAvatar:  avatar != "",
		Premium:     user.IsPremium,
		Locale:      user.LanguageCode,
		ID:          strconv.FormatInt(user.ID, 10),
		CanWrite:    canWrite,
		AccountType: accountType,
	}
}

// DisplayName joins the non-blank name parts with a single space, falling back
// to placeholder when both are blank.
func DisplayName(first, last, placeholder string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return placeholder
	}
	return strings.Join(parts, " ")
}

// Handle renders a username as "@name", or "" when there is none.
func Handle(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return ""
	}
	return "@" + username
}
