package handler

import (
	"errors"
	"net/http"

	"nsportal/internal/domain"
	"nsportal/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	handleErrorWithExtras(w, err, nil)
}

// handleErrorWithExtras is handleError with additional problem fields.
// Conflicts also carry their reason and resource.
func handleErrorWithExtras(w http.ResponseWriter, err error, extras map[string]any) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		if extras == nil {
			extras = map[string]any{}
		}
		extras["reason"] = conflictErr.Reason
		extras["resource_type"] = conflictErr.ResourceType
		extras["resource_id"] = conflictErr.ResourceID
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), extras)
		return
	}

	status, detail := statusFor(err)
	if extras == nil {
		httputil.RespondError(w, status, detail)
		return
	}
	httputil.RespondErrorWithExtras(w, status, detail, extras)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, domain.InternalErrorMessage
	}
}
