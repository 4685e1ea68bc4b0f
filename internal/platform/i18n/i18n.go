// Package i18n holds the supported locales and locale-aware formatting
// shared by geodev services.
package i18n

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

var (
	supportedTags = []language.Tag{
		language.MustParse("en-US"),
		language.MustParse("pt-BR"),
	}
	matcher = language.NewMatcher(supportedTags)
)

// dateLayouts maps supported locales to their short numeric date layout.
var dateLayouts = map[string]string{
	"en-US": "1/2/2006",
	"pt-BR": "02/01/2006",
}

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the fallback language tag.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// ParseTag parses value and matches it to a supported tag. Unsupported or
// malformed values report false.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DefaultTag(), false
	}
	return supportedTags[index], true
}

// MatchTags returns the best supported tag for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}

// FormatDate renders t as a short numeric date for tag. Timestamps are shown
// in UTC so the date matches what the backend stored.
func FormatDate(tag language.Tag, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout, ok := dateLayouts[MatchTags([]language.Tag{tag}).String()]
	if !ok {
		layout = dateLayouts[DefaultTag().String()]
	}
	return t.UTC().Format(layout)
}
