package profile

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Labels is the fixed two-valued vocabulary used for boolean profile flags,
// plus the placeholder shown when a user has no name.
type Labels struct {
	Yes         string
	No          string
	Premium     string
	Standard    string
	Placeholder string
}

// LabelSource picks the label set for a user's language code.
type LabelSource interface {
	Labels(languageCode string) Labels
}

// Message keys. The English text doubles as the key.
const (
	keyYes         = "Yes"
	keyNo          = "No"
	keyPremium     = "Premium"
	keyStandard    = "Standard"
	keyPlaceholder = "Anonymous"
)

// DefaultLabels returns the English label set.
func DefaultLabels() Labels {
	return Labels{
		Yes:         keyYes,
		No:          keyNo,
		Premium:     keyPremium,
		Standard:    keyStandard,
		Placeholder: keyPlaceholder,
	}
}

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyYes:         "Yes",
		keyNo:          "No",
		keyPremium:     "Premium",
		keyStandard:    "Standard",
		keyPlaceholder: "Anonymous",
	},
	language.Russian: {
		keyYes:         "Да",
		keyNo:          "Нет",
		keyPremium:     "Премиум",
		keyStandard:    "Обычный",
		keyPlaceholder: "Без имени",
	},
}

// Catalog resolves localized label sets from a message catalog.
type Catalog struct {
	builder   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	fallback  language.Tag
}

// NewCatalog builds the label catalog. fallbackCode is used when a user has no
// language code; unknown codes fall back to it as well.
func NewCatalog(fallbackCode string) (*Catalog, error) {
	return newCatalog(fallbackCode, translations)
}

func newCatalog(fallbackCode string, table map[language.Tag]map[string]string) (*Catalog, error) {
	supported := []language.Tag{language.English, language.Russian}

	fallback := language.English
	if t, err := language.Parse(strings.TrimSpace(fallbackCode)); err == nil {
		_, idx, conf := language.NewMatcher(supported).Match(t)
		if conf != language.No {
			fallback = supported[idx]
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(fallback))
	for tag, msgs := range table {
		for key, text := range msgs {
			if err := b.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("failed to add %s label %q: %w", tag, key, err)
			}
		}
	}

	// The fallback goes first so the matcher prefers it for unknown codes.
	ordered := []language.Tag{fallback}
	for _, t := range supported {
		if t != fallback {
			ordered = append(ordered, t)
		}
	}

	return &Catalog{
		builder:   b,
		supported: ordered,
		matcher:   language.NewMatcher(ordered),
		fallback:  fallback,
	}, nil
}

// Labels implements LabelSource.
func (c *Catalog) Labels(languageCode string) Labels {
	p := message.NewPrinter(c.match(languageCode), message.Catalog(c.builder))
	return Labels{
		Yes:         p.Sprintf(keyYes),
		No:          p.Sprintf(keyNo),
		Premium:     p.Sprintf(keyPremium),
		Standard:    p.Sprintf(keyStandard),
		Placeholder: p.Sprintf(keyPlaceholder),
	}
}

func (c *Catalog) match(languageCode string) language.Tag {
	code := strings.TrimSpace(languageCode)
	if code == "" {
		return c.fallback
	}
	t, err := language.Parse(code)
	if err != nil {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(t)
	if conf == language.No {
		return c.fallback
	}
	return c.supported[idx]
}
