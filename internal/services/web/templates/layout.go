package templates

const (
	daisyUIStylesheet = "https://cdn.jsdelivr.net/npm/daisyui@5/daisyui.css"
	tailwindScript    = "https://cdn.jsdelivr.net/npm/@tailwindcss/browser@4"
	htmxScript        = "https://unpkg.com/htmx.org@2.0.4"
)

// LayoutOptions configures the application shell.
type LayoutOptions struct {
	Title string
	Page  PageContext
}

// PageTitle returns the browser title for a page heading key.
func PageTitle(loc Localizer, headingKey string) string {
	return T(loc, "title.page", T(loc, headingKey))
}

func layoutLang(page PageContext) string {
	if page.Lang == "" {
		return "en-US"
	}
	return page.Lang
}
