// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	webi18n "github.com/geodev/geodev/internal/services/web/i18n"
	"github.com/geodev/geodev/internal/services/web/platform/httpx"
	webtemplates "github.com/geodev/geodev/internal/services/web/templates"
	"golang.org/x/text/language"
)

// ModulePage describes a module page response for both full-page and HTMX flows.
type ModulePage struct {
	Title      string
	StatusCode int
	Page       webtemplates.PageContext
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// ResolvePage resolves the request language and builds the shared page context.
func ResolvePage(w http.ResponseWriter, r *http.Request) (webtemplates.PageContext, language.Tag) {
	tag, printer := webi18n.Resolve(w, r)
	page := webtemplates.PageContext{Lang: tag.String(), Loc: printer}
	if r != nil && r.URL != nil {
		page.CurrentPath = r.URL.Path
		page.CurrentQuery = r.URL.RawQuery
	}
	return page, tag
}

// WriteModulePage writes the fragment alone for HTMX requests and wrapped in
// the application shell otherwise.
func WriteModulePage(w http.ResponseWriter, r *http.Request, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	ctx := httpx.RequestContext(r)
	component := fragment
	if !httpx.IsHTMXRequest(r) {
		ctx = templ.WithChildren(ctx, fragment)
		component = webtemplates.Layout(webtemplates.LayoutOptions{Title: page.Title, Page: page.Page})
	}
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}
