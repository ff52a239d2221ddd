package services

import (
	"encoding/json"
	"net/http"

	"github.com/firewatch-geo/firewatch-services/api/middleware"
	"github.com/firewatch-geo/firewatch-services/internal/events"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/rs/zerolog"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most current data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// HandleErrResponse writes a domain error as a structured JSON response.
// Tagged errors map to their transport status; anything else is an
// infrastructure failure and reports as a generic 500.
func HandleErrResponse(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr, ok := models.AsAPIError(err); ok {
		WriteResponse(w, apiErr.HTTPStatus(), models.Response{
			Success:      0,
			ErrorCode:    string(apiErr.Kind),
			ErrorDetails: apiErr.Error(),
		})
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
	WriteResponse(w, http.StatusInternalServerError, models.Response{
		Success:      0,
		ErrorCode:    "internal",
		ErrorDetails: "internal server error",
	})
}

// requirePrincipal extracts the authenticated principal or writes a 401.
// All catalog and account operations require an authenticated caller.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		HandleErrResponse(w, r, models.Unauthenticated("authentication required"))
		return models.Principal{}, false
	}
	return principal, true
}

// publishAudit sends an audit event, logging rather than failing the
// request if the broker is unavailable.
func (svc *Service) publishAudit(r *http.Request, event events.AuditEvent) {
	if err := svc.Publisher.Publish(event); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).
			Str("action", event.Action).Str("entity", event.Entity).
			Msg("failed to publish audit event")
	}
}
