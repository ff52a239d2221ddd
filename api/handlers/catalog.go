package handlers

import (
	"net/http"

	"github.com/firewatch-geo/firewatch-services/api/services"
)

func GetCatalog(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GetCatalogService(w, r)
	}
}

func ListIndexLayers(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListIndexLayersService(w, r)
	}
}

func ListSatelliteImages(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListSatelliteImagesService(w, r)
	}
}

func ListVectorLayer(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListVectorLayerService(w, r)
	}
}

func ListFireRiskAreas(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListFireRiskAreasService(w, r)
	}
}

func CreateAOI(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.CreateAOIService(w, r)
	}
}

func ListAOIs(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ListAOIsService(w, r)
	}
}

func GetAOI(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GetAOIService(w, r)
	}
}
