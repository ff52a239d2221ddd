package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/firewatch-geo/firewatch-services/internal/events"
	"github.com/firewatch-geo/firewatch-services/internal/geospatial"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CreateAOIService stores a client-submitted area of interest. Only a
// single GeoJSON Polygon in lon/lat is accepted.
func (svc *Service) CreateAOIService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req models.AOIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleErrResponse(w, r, models.Validation("invalid request payload"))
		return
	}

	if _, err := geospatial.ParseAOI(req.Geometry); err != nil {
		HandleErrResponse(w, r, aoiValidationError(err))
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		req.Name = "AOI"
	}
	if req.Source == "" {
		req.Source = models.AOISourceDraw
	}
	if !req.Source.Valid() {
		HandleErrResponse(w, r, models.Validation("source must be draw or kml"))
		return
	}

	aoi, err := svc.DB.CreateAOI(req.Name, req.Source, req.Geometry)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	svc.publishAudit(r, events.NewAuditEvent("create", "aoi", aoi.ID, principal.User.Username))
	logger.Info().Int64("aoi_id", aoi.ID).Str("source", string(aoi.Source)).Msg("AOI stored")

	WriteResponse(w, http.StatusCreated, aoi)
}

// ListAOIsService lists stored AOIs, newest first.
func (svc *Service) ListAOIsService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	aois, err := svc.DB.ListAOIs()
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if aois == nil {
		aois = []models.AOI{}
	}
	WriteResponse(w, http.StatusOK, aois)
}

// GetAOIService returns a single stored AOI by id.
func (svc *Service) GetAOIService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["aoi-id"], 10, 64)
	if err != nil {
		HandleErrResponse(w, r, models.Validation("invalid AOI id"))
		return
	}

	aoi, err := svc.DB.GetAOI(id)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	WriteResponse(w, http.StatusOK, aoi)
}

// aoiValidationError maps a geometry parse failure to a tagged validation
// error carrying the parse diagnostic.
func aoiValidationError(err error) error {
	switch {
	case errors.Is(err, geospatial.ErrMissingGeometry):
		return models.Validation("geometry is required (GeoJSON Polygon)")
	case errors.Is(err, geospatial.ErrUnsupportedGeometryType):
		return models.ValidationDetails("only Polygon is supported", err.Error())
	default:
		return models.ValidationDetails("invalid geometry", err.Error())
	}
}
