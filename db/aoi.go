package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/google/uuid"
)

// CreateAOI stores a validated polygon. Geometry is lon/lat (SRID 4326);
// the caller has already rejected anything that is not a single polygon.
func (g *GeoportalDB) CreateAOI(name string, source models.AOISource, geometry json.RawMessage) (*models.AOI, error) {
	query := `
		INSERT INTO aoi (uuid, name, source, geometry, created_at)
		VALUES ($1, $2, $3, ST_SetSRID(ST_GeomFromGeoJSON($4), 4326)::geography, NOW())
		RETURNING id, uuid, name, source, ST_AsGeoJSON(geometry), created_at`

	var aoi models.AOI
	var geom string
	err := g.DB.QueryRow(query, uuid.New(), name, source, string(geometry)).Scan(
		&aoi.ID, &aoi.UUID, &aoi.Name, &aoi.Source, &geom, &aoi.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting AOI: %w", err)
	}
	aoi.Geometry = json.RawMessage(geom)
	return &aoi, nil
}

func (g *GeoportalDB) GetAOI(id int64) (*models.AOI, error) {
	query := `SELECT id, uuid, name, source, ST_AsGeoJSON(geometry), created_at FROM aoi WHERE id = $1`

	var aoi models.AOI
	var geom string
	err := g.DB.QueryRow(query, id).Scan(
		&aoi.ID, &aoi.UUID, &aoi.Name, &aoi.Source, &geom, &aoi.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("AOI not found")
		}
		return nil, fmt.Errorf("error retrieving AOI: %w", err)
	}
	aoi.Geometry = json.RawMessage(geom)
	return &aoi, nil
}

// ListAOIs retrieves stored AOIs, newest first.
func (g *GeoportalDB) ListAOIs() ([]models.AOI, error) {
	query := `SELECT id, uuid, name, source, ST_AsGeoJSON(geometry), created_at FROM aoi ORDER BY id DESC`

	rows, err := g.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving AOIs: %w", err)
	}
	defer rows.Close()

	var aois []models.AOI
	for rows.Next() {
		var aoi models.AOI
		var geom string
		if err := rows.Scan(&aoi.ID, &aoi.UUID, &aoi.Name, &aoi.Source, &geom, &aoi.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning AOI: %w", err)
		}
		aoi.Geometry = json.RawMessage(geom)
		aois = append(aois, aoi)
	}
	return aois, rows.Err()
}
