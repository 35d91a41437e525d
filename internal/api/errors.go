package api

import (
	"errors"
	"net/http"

	"github.com/memorylane/lane-server/internal/api/respond"
	"github.com/memorylane/lane-server/internal/model"
	"github.com/memorylane/lane-server/internal/services"
)

// writeServiceError maps domain errors onto the HTTP error taxonomy.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve services.ValidationError
	if errors.As(err, &ve) {
		respond.WriteValidation(w, ve.Fields)
		return
	}
	var pe services.PartialCascadeError
	if errors.As(err, &pe) {
		respond.WritePartialCascade(w, pe.Error(), pe.FailedPaths)
		return
	}
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "not found")
	case errors.Is(err, model.ErrUnauthorized):
		respond.WriteUnauthorized(w)
	case errors.Is(err, model.ErrMisconfigured):
		respond.WriteInternalError(w, "server misconfigured")
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
