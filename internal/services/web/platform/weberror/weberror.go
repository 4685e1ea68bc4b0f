// Package weberror renders shared app-shell error responses for web modules.
package weberror

import (
	"net/http"
	"strings"

	apperrors "github.com/geodev/geodev/internal/services/web/platform/errors"
	"github.com/geodev/geodev/internal/services/web/platform/pagerender"
	webtemplates "github.com/geodev/geodev/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use app error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// WriteAppError writes a localized app-shell error response for full-page and HTMX requests.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int) {
	writeAppError(w, r, statusCode, nil)
}

func writeAppError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	page, _ := pagerender.ResolvePage(w, r)
	message := ""
	if apperrors.LocalizationKey(err) != "" {
		message = PublicMessage(page.Loc, err)
	}
	renderErr := pagerender.WriteModulePage(w, r, pagerender.ModulePage{
		Title:      webtemplates.AppErrorPageTitle(statusCode, page.Loc),
		StatusCode: statusCode,
		Page:       page,
		Fragment:   webtemplates.AppErrorPage(statusCode, page.Loc, message),
	})
	if renderErr != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError writes a module-safe localized error response.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		writeAppError(w, r, statusCode, err)
		return
	}
	page, _ := pagerender.ResolvePage(w, r)
	http.Error(w, PublicMessage(page.Loc, err), statusCode)
}
