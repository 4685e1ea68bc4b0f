package templates

import "net/http"

const (
	appErrorTitleNotFoundKey    = "core.error.not_found.title"
	appErrorDetailNotFoundKey   = "core.error.not_found.detail"
	appErrorTitleUnavailableKey = "core.error.unavailable.title"
	appErrorDetailUnavailable   = "core.error.unavailable.detail"
	appErrorTitleServerErrKey   = "core.error.server.title"
	appErrorDetailServerErrKey  = "core.error.server.detail"
	appErrorBackHomeKey         = "core.error.back_home"
)

// AppErrorPageTitle returns the heading key for an error status.
func AppErrorPageTitle(statusCode int, loc Localizer) string {
	return PageTitle(loc, appErrorTitleKey(statusCode))
}

func appErrorMessage(statusCode int, loc Localizer, message string) string {
	if message == "" {
		return T(loc, appErrorDetailKey(statusCode))
	}
	return message
}

func appErrorTitleKey(statusCode int) string {
	switch normalizeAppErrorStatus(statusCode) {
	case http.StatusNotFound:
		return appErrorTitleNotFoundKey
	case http.StatusBadGateway:
		return appErrorTitleUnavailableKey
	default:
		return appErrorTitleServerErrKey
	}
}

func appErrorDetailKey(statusCode int) string {
	switch normalizeAppErrorStatus(statusCode) {
	case http.StatusNotFound:
		return appErrorDetailNotFoundKey
	case http.StatusBadGateway:
		return appErrorDetailUnavailable
	default:
		return appErrorDetailServerErrKey
	}
}

func normalizeAppErrorStatus(statusCode int) int {
	switch statusCode {
	case http.StatusNotFound, http.StatusBadGateway:
		return statusCode
	default:
		return http.StatusInternalServerError
	}
}
