package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/firewatch-geo/firewatch-services/models"
)

var vectorTables = map[models.VectorKind]string{
	models.VectorProvinces: "iran_provinces",
	models.VectorCounties:  "iran_counties",
	models.VectorForests:   "iran_forests",
}

// ListIndexLayers retrieves vegetation-index layer metadata matching the
// filter, ordered by date then id, both descending. A non-nil aoiGeometry
// restricts results to layers whose footprint intersects it; layers with no
// footprint are excluded from spatially narrowed results.
func (g *GeoportalDB) ListIndexLayers(filter models.CatalogFilter, aoiGeometry json.RawMessage) ([]models.IndexLayer, error) {
	query := `SELECT id, title, storage_link, index_name, date, satellite_name, ST_AsGeoJSON(geometry), created_at FROM index_layers`
	var conds []string
	var args []interface{}

	if filter.Date != nil {
		args = append(args, *filter.Date)
		conds = append(conds, fmt.Sprintf("date = $%d::date", len(args)))
	}
	if filter.IndexName != "" {
		args = append(args, filter.IndexName)
		conds = append(conds, fmt.Sprintf("index_name = $%d", len(args)))
	}
	if filter.SatelliteName != "" {
		args = append(args, filter.SatelliteName)
		conds = append(conds, fmt.Sprintf("satellite_name = $%d", len(args)))
	}
	if aoiGeometry != nil {
		args = append(args, string(aoiGeometry))
		conds = append(conds, fmt.Sprintf(
			"geometry IS NOT NULL AND ST_Intersects(geometry, ST_SetSRID(ST_GeomFromGeoJSON($%d), 4326)::geography)", len(args)))
	}
	query += whereClause(conds) + ` ORDER BY date DESC, id DESC`

	rows, err := g.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving index layers: %w", err)
	}
	defer rows.Close()

	var layers []models.IndexLayer
	for rows.Next() {
		var l models.IndexLayer
		var geom sql.NullString
		if err := rows.Scan(&l.ID, &l.Title, &l.StorageLink, &l.IndexName, &l.Date,
			&l.SatelliteName, &geom, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning index layer: %w", err)
		}
		if geom.Valid {
			l.Geometry = json.RawMessage(geom.String)
		}
		layers = append(layers, l)
	}
	return layers, rows.Err()
}

// ListSatelliteImages retrieves image metadata matching the filter, ordered
// by capture timestamp then id, both descending. The date range bounds are
// inclusive and compare against the capture timestamp's date.
func (g *GeoportalDB) ListSatelliteImages(filter models.CatalogFilter, aoiGeometry json.RawMessage) ([]models.SatelliteImage, error) {
	query := `SELECT id, satellite_name, date_time, image_name, storage_link, ST_AsGeoJSON(geometry), created_at FROM satellite_images`
	var conds []string
	var args []interface{}

	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("date_time::date >= $%d::date", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("date_time::date <= $%d::date", len(args)))
	}
	if filter.SatelliteName != "" {
		args = append(args, filter.SatelliteName)
		conds = append(conds, fmt.Sprintf("satellite_name = $%d", len(args)))
	}
	if aoiGeometry != nil {
		args = append(args, string(aoiGeometry))
		conds = append(conds, fmt.Sprintf(
			"geometry IS NOT NULL AND ST_Intersects(geometry, ST_SetSRID(ST_GeomFromGeoJSON($%d), 4326)::geography)", len(args)))
	}
	query += whereClause(conds) + ` ORDER BY date_time DESC, id DESC`

	rows, err := g.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving satellite images: %w", err)
	}
	defer rows.Close()

	var images []models.SatelliteImage
	for rows.Next() {
		var img models.SatelliteImage
		var geom sql.NullString
		if err := rows.Scan(&img.ID, &img.SatelliteName, &img.DateTime, &img.ImageName,
			&img.StorageLink, &geom, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning satellite image: %w", err)
		}
		if geom.Valid {
			img.Geometry = json.RawMessage(geom.String)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ListVectorLayer retrieves all features of a boundary layer, alphabetical
// by name. Spatial narrowing for vector layers happens in process via the
// spatial filter engine.
func (g *GeoportalDB) ListVectorLayer(kind models.VectorKind) ([]models.VectorFeature, error) {
	table, ok := vectorTables[kind]
	if !ok {
		return nil, models.NotFound("unknown vector layer")
	}

	rows, err := g.DB.Query(`SELECT id, name, ST_AsGeoJSON(geometry) FROM ` + table + ` ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s: %w", table, err)
	}
	defer rows.Close()

	var features []models.VectorFeature
	for rows.Next() {
		var f models.VectorFeature
		var geom string
		if err := rows.Scan(&f.ID, &f.Name, &geom); err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", table, err)
		}
		f.Geometry = json.RawMessage(geom)
		features = append(features, f)
	}
	return features, rows.Err()
}

// ListFireRiskAreas retrieves fire-risk zones, alphabetical by name.
func (g *GeoportalDB) ListFireRiskAreas() ([]models.FireRiskArea, error) {
	rows, err := g.DB.Query(`SELECT id, name, level, ST_AsGeoJSON(geometry) FROM fire_risk_areas ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving fire risk areas: %w", err)
	}
	defer rows.Close()

	var areas []models.FireRiskArea
	for rows.Next() {
		var a models.FireRiskArea
		var geom string
		if err := rows.Scan(&a.ID, &a.Name, &a.Level, &geom); err != nil {
			return nil, fmt.Errorf("error scanning fire risk area: %w", err)
		}
		a.Geometry = json.RawMessage(geom)
		areas = append(areas, a)
	}
	return areas, rows.Err()
}
