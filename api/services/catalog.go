package services

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/firewatch-geo/firewatch-services/internal/geospatial"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// catalogEntry is one selectable item in the frontend layer menu.
type catalogEntry struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// GetCatalogService returns the static layer menu served to the frontend.
func (svc *Service) GetCatalogService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	WriteResponse(w, http.StatusOK, map[string][]catalogEntry{
		"vectors": {
			{Key: "provinces", Title: "Province boundaries"},
			{Key: "counties", Title: "County boundaries"},
			{Key: "forests", Title: "Forests"},
			{Key: "fire_risk", Title: "Fire-prone areas"},
		},
		"indexes": {
			{Key: "ndvi", Title: "NDVI"},
			{Key: "nbr", Title: "NBR"},
			{Key: "ndmi", Title: "NDMI"},
		},
		"satellites": {
			{Key: "sentinel2", Title: "Sentinel-2"},
			{Key: "landsat8", Title: "Landsat-8"},
		},
	})
}

// parseCatalogFilter reads the recognized query parameters. Unparsable
// dates are a validation failure; unknown parameters are ignored.
func parseCatalogFilter(r *http.Request) (models.CatalogFilter, error) {
	var filter models.CatalogFilter
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dest **time.Time
	}{
		{"date", &filter.Date},
		{"date_from", &filter.DateFrom},
		{"date_to", &filter.DateTo},
	} {
		if raw := q.Get(p.name); raw != "" {
			t, err := time.Parse(dateLayout, raw)
			if err != nil {
				return filter, models.Validation(p.name + " must be formatted YYYY-MM-DD")
			}
			*p.dest = &t
		}
	}

	filter.IndexName = strings.TrimSpace(q.Get("index_name"))
	filter.SatelliteName = strings.TrimSpace(q.Get("satellite_name"))

	if raw := q.Get("aoi_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, models.Validation("aoi_id must be an integer")
		}
		filter.AOIID = &id
	}

	return filter, nil
}

// resolveAOIGeometry looks up the AOI referenced by the filter. A stale
// aoi_id resolves to nil so the query proceeds without spatial narrowing;
// catalog browsing stays robust to dangling AOI references.
func (svc *Service) resolveAOIGeometry(r *http.Request, filter models.CatalogFilter) (json.RawMessage, error) {
	if filter.AOIID == nil {
		return nil, nil
	}

	aoi, err := svc.DB.GetAOI(*filter.AOIID)
	if err != nil {
		if apiErr, ok := models.AsAPIError(err); ok && apiErr.Kind == models.KindNotFound {
			zerolog.Ctx(r.Context()).Debug().Int64("aoi_id", *filter.AOIID).
				Msg("aoi_id does not resolve, skipping spatial filter")
			return nil, nil
		}
		return nil, err
	}
	return aoi.Geometry, nil
}

// ListIndexLayersService lists vegetation-index layer metadata, optionally
// narrowed by date, index name, satellite name and AOI intersection.
func (svc *Service) ListIndexLayersService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	filter, err := parseCatalogFilter(r)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	aoiGeom, err := svc.resolveAOIGeometry(r, filter)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	layers, err := svc.DB.ListIndexLayers(filter, aoiGeom)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if layers == nil {
		layers = []models.IndexLayer{}
	}
	WriteResponse(w, http.StatusOK, layers)
}

// ListSatelliteImagesService lists satellite image metadata, optionally
// narrowed by capture date range, satellite name and AOI intersection.
func (svc *Service) ListSatelliteImagesService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	filter, err := parseCatalogFilter(r)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	aoiGeom, err := svc.resolveAOIGeometry(r, filter)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	images, err := svc.DB.ListSatelliteImages(filter, aoiGeom)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if images == nil {
		images = []models.SatelliteImage{}
	}
	WriteResponse(w, http.StatusOK, images)
}

// ListVectorLayerService lists a boundary layer (provinces, counties,
// forests) alphabetically, with optional AOI narrowing applied in process.
func (svc *Service) ListVectorLayerService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	kind := models.VectorKind(mux.Vars(r)["kind"])
	if !kind.Valid() {
		HandleErrResponse(w, r, models.NotFound("unknown vector layer"))
		return
	}

	filter, err := parseCatalogFilter(r)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	features, err := svc.DB.ListVectorLayer(kind)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	features, err = narrowByAOI(svc, r, features, filter, func(f models.VectorFeature) json.RawMessage {
		return f.Geometry
	})
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if features == nil {
		features = []models.VectorFeature{}
	}
	WriteResponse(w, http.StatusOK, features)
}

// ListFireRiskAreasService lists fire-risk zones alphabetically, with
// optional AOI narrowing applied in process.
func (svc *Service) ListFireRiskAreasService(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}

	filter, err := parseCatalogFilter(r)
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	areas, err := svc.DB.ListFireRiskAreas()
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}

	areas, err = narrowByAOI(svc, r, areas, filter, func(a models.FireRiskArea) json.RawMessage {
		return a.Geometry
	})
	if err != nil {
		HandleErrResponse(w, r, err)
		return
	}
	if areas == nil {
		areas = []models.FireRiskArea{}
	}
	WriteResponse(w, http.StatusOK, areas)
}

// narrowByAOI applies AOI intersection filtering to already loaded catalog
// entities via the spatial filter engine.
func narrowByAOI[T any](svc *Service, r *http.Request, entities []T, filter models.CatalogFilter, geometryOf func(T) json.RawMessage) ([]T, error) {
	aoiGeom, err := svc.resolveAOIGeometry(r, filter)
	if err != nil {
		return nil, err
	}
	if aoiGeom == nil {
		return entities, nil
	}

	aoiPoly, err := geospatial.ParseAOI(aoiGeom)
	if err != nil {
		// Stored AOIs are validated on submission; treat a bad one as
		// no spatial narrowing rather than failing the request.
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("stored AOI geometry did not parse")
		return entities, nil
	}

	return geospatial.FilterByIntersection(entities, aoiPoly, geometryOf), nil
}
