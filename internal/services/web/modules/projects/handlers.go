package projects

import (
	"net/http"

	"github.com/geodev/geodev/internal/services/web/api"
	apperrors "github.com/geodev/geodev/internal/services/web/platform/errors"
	"github.com/geodev/geodev/internal/services/web/platform/modulehandler"
	"github.com/geodev/geodev/internal/services/web/routepath"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

var invalidProjectMapping = apperrors.RequestErrorMapping{
	NotFoundKey: "project.not_found.detail",
}

// withProjectID parses the project id path value before calling next. Ids
// that are not positive integers render the not-found page without a backend
// call.
func (h handlers) withProjectID(next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := api.ParseProjectID(r.PathValue(routepath.ProjectIDPathValueKey))
		if err != nil {
			h.WriteError(w, r, apperrors.MapRequestError(err, invalidProjectMapping))
			return
		}
		next(w, r, projectID)
	}
}

func (h handlers) handleProjectsRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, routepath.Root, http.StatusFound)
}
