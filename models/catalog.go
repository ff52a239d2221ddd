package models

import (
	"encoding/json"
	"time"
)

// IndexLayer is vegetation-index raster metadata (NDVI, NBR, NDMI...)
// produced by the ingestion pipeline. Geometry is the footprint polygon as
// GeoJSON; layers ingested without a footprint carry nil.
type IndexLayer struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	StorageLink   string          `json:"storage_link"`
	IndexName     string          `json:"index_name"`
	Date          time.Time       `json:"date"`
	SatelliteName string          `json:"satellite_name"`
	Geometry      json.RawMessage `json:"geometry,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type SatelliteImage struct {
	ID            int64           `json:"id"`
	SatelliteName string          `json:"satellite_name"`
	DateTime      time.Time       `json:"date_time"`
	ImageName     string          `json:"image_name"`
	StorageLink   string          `json:"storage_link"`
	Geometry      json.RawMessage `json:"geometry,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// VectorFeature is one record of a boundary layer (province, county,
// forest) serialized as a GeoJSON feature.
type VectorFeature struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Geometry json.RawMessage `json:"geometry"`
}

type FireRiskArea struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Level    string          `json:"level"`
	Geometry json.RawMessage `json:"geometry"`
}

// VectorKind names the boundary layers the catalog serves.
type VectorKind string

const (
	VectorProvinces VectorKind = "provinces"
	VectorCounties  VectorKind = "counties"
	VectorForests   VectorKind = "forests"
)

func (k VectorKind) Valid() bool {
	switch k {
	case VectorProvinces, VectorCounties, VectorForests:
		return true
	}
	return false
}

// CatalogFilter carries the recognized query narrowing options. All set
// fields are conjunctive. AOIID spatially narrows results to entities whose
// geometry intersects the stored AOI polygon; an AOIID that resolves to no
// stored AOI is skipped rather than failing the request.
type CatalogFilter struct {
	Date          *time.Time
	DateFrom      *time.Time
	DateTo        *time.Time
	IndexName     string
	SatelliteName string
	AOIID         *int64
}
