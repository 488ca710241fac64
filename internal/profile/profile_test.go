package profile

import (
	"testing"

	"github.com/nfrund/miniapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		first, last string
		want        string
	}{
		{"both parts", "Ada", "Lovelace", "Ada Lovelace"},
		{"first only", "Ada", "", "Ada"},
		{"last only", "", "Lovelace", "Lovelace"},
		{"whitespace last", "Ada", "   ", "Ada"},
		{"trimmed parts", "  Ada ", " Lovelace  ", "Ada Lovelace"},
		{"both blank", "", " ", "Anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.first, tt.last, "Anonymous"))
		})
	}
}

func TestHandle(t *testing.T) {
	assert.Equal(t, "@ada", Handle("ada"))
	assert.Equal(t, "", Handle(""))
	assert.Equal(t, "", Handle("  "))
}

func TestProject(t *testing.T) {
	user := domain.UnsafeUserView{
		ID:              7,
		FirstName:       "Ada",
		Username:        "ada",
		PhotoURL:        "https://example.org/a.png",
		LanguageCode:    "en",
		IsPremium:       true,
		AllowsWriteToPM: false,
	}

	got := Project(user, DefaultLabels())

	assert.Equal(t, Projection{
		DisplayName: "Ada",
		Handle:      "@ada",
		AvatarURL:   "https://example.org/a.png",
		ShowAvatar:  true,
		Premium:     true,
		Locale:      "en",
		ID:          "7",
		CanWrite:    "No",
		AccountType: "Premium",
	}, got)

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, got, Project(user, DefaultLabels()))
	})

	t.Run("labels come from the two-valued set", func(t *testing.T) {
		l := DefaultLabels()
		for _, u := range []domain.UnsafeUserView{
			{}, {IsPremium: true}, {AllowsWriteToPM: true}, {IsPremium: true, AllowsWriteToPM: true},
		} {
			p := Project(u, l)
			assert.Contains(t, []string{l.Yes, l.No}, p.CanWrite)
			assert.Contains(t, []string{l.Premium, l.Standard}, p.AccountType)
		}
	})

	t.Run("blank avatar is hidden", func(t *testing.T) {
		p := Project(domain.UnsafeUserView{PhotoURL: "  "}, DefaultLabels())
		assert.False(t, p.ShowAvatar)
		assert.Empty(t, p.AvatarURL)
		assert.Equal(t, "Anonymous", p.DisplayName)
		assert.Equal(t, "Standard", p.AccountType)
		assert.Equal(t, "0", p.ID)
	})
}

func TestCatalog(t *testing.T) {
	c, err := NewCatalog("en")
	require.NoError(t, err)

	assert.Equal(t, DefaultLabels(), c.Labels("en"))
	assert.Equal(t, DefaultLabels(), c.Labels(""))
	assert.Equal(t, DefaultLabels(), c.Labels("not a tag!"))

	ru := c.Labels("ru")
	assert.Equal(t, Labels{
		Yes:         "Да",
		No:          "Нет",
		Premium:     "Премиум",
		Standard:    "Обычный",
		Placeholder: "Без имени",
	}, ru)

	t.Run("russian fallback", func(t *testing.T) {
		c, err := NewCatalog("ru")
		require.NoError(t, err)
		assert.Equal(t, "Да", c.Labels("").Yes)
		assert.Equal(t, "Yes", c.Labels("en-GB").Yes)
	})

	t.Run("invalid fallback defaults to english", func(t *testing.T) {
		c, err := NewCatalog("!!")
		require.NoError(t, err)
		assert.Equal(t, DefaultLabels(), c.Labels(""))
	})

	t.Run("broken translation is reported", func(t *testing.T) {
		_, err := newCatalog("en", map[language.Tag]map[string]string{
			language.English: {keyYes: "Yes ${unclosed"},
		})
		assert.ErrorContains(t, err, `en label "Yes"`)
	})
}
