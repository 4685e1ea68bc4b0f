package templates

import (
	webi18n "github.com/geodev/geodev/internal/services/web/i18n"
	"golang.org/x/text/language"
)

// LanguageOptions returns supported language options with active selection.
func LanguageOptions(page PageContext) []webi18n.LanguageOption {
	return webi18n.BuildLanguageOptions(page.Lang, page.CurrentPath, page.CurrentQuery, func(tag language.Tag) string {
		return T(page.Loc, webi18n.LanguageKeyLabel(tag))
	})
}
