// Package modulehandler provides a composable base for web module handlers.
//
// Modules share request localization, page rendering, and error handling.
// This package extracts that shared scaffold so modules embed it rather than
// duplicating it.
package modulehandler

import (
	"io"
	"log"
	"net/http"

	"github.com/a-h/templ"
	apperrors "github.com/geodev/geodev/internal/services/web/platform/errors"
	"github.com/geodev/geodev/internal/services/web/platform/pagerender"
	"github.com/geodev/geodev/internal/services/web/platform/weberror"
	webtemplates "github.com/geodev/geodev/internal/services/web/templates"
	"golang.org/x/text/language"
)

// Base carries the shared request-scoped helpers used by module handlers.
type Base struct {
	logger *log.Logger
}

// NewBase builds a handler base that reports server-side failures to logger.
func NewBase(logger *log.Logger) Base {
	return Base{logger: logger}
}

// NewTestBase builds a handler base that discards logs.
func NewTestBase() Base {
	return Base{logger: log.New(io.Discard, "", 0)}
}

// Logf writes a module log line.
func (b Base) Logf(format string, args ...any) {
	if b.logger == nil {
		log.Printf(format, args...)
		return
	}
	b.logger.Printf(format, args...)
}

// PageContext resolves the request language and layout context.
func (b Base) PageContext(w http.ResponseWriter, r *http.Request) (webtemplates.PageContext, language.Tag) {
	return pagerender.ResolvePage(w, r)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if status := apperrors.HTTPStatus(err); status >= http.StatusInternalServerError && r != nil {
		b.Logf("module error method=%s path=%s status=%d err=%v", r.Method, r.URL.Path, status, err)
	}
	weberror.WriteModuleError(w, r, err)
}

// WriteNotFound renders a 404 error page within the app shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound)
}

// WritePage renders a full module page (HTMX-aware) with the given title and
// content fragment.
func (b Base) WritePage(
	w http.ResponseWriter,
	r *http.Request,
	page webtemplates.PageContext,
	title string,
	statusCode int,
	fragment templ.Component,
) {
	if err := pagerender.WriteModulePage(w, r, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Page:       page,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}
