package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexLayerColumns() []string {
	return []string{"id", "title", "storage_link", "index_name", "date", "satellite_name", "st_asgeojson", "created_at"}
}

func TestListIndexLayers_AllFilters(t *testing.T) {
	geoDB, mock := newMockDB(t)

	date := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(indexLayerColumns()).
		AddRow(int64(1), "NDVI 2025-07-14", "s3://layers/ndvi.tif", "ndvi", date, "sentinel2", testPolygon, time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM index_layers WHERE date = \$1::date AND index_name = \$2 AND satellite_name = \$3 AND geometry IS NOT NULL AND ST_Intersects`).
		WithArgs(date, "ndvi", "sentinel2", testPolygon).
		WillReturnRows(rows)

	filter := models.CatalogFilter{Date: &date, IndexName: "ndvi", SatelliteName: "sentinel2"}
	layers, err := geoDB.ListIndexLayers(filter, json.RawMessage(testPolygon))
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, "ndvi", layers[0].IndexName)
	assert.JSONEq(t, testPolygon, string(layers[0].Geometry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListIndexLayers_NoFilters(t *testing.T) {
	geoDB, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM index_layers ORDER BY date DESC, id DESC`).
		WillReturnRows(sqlmock.NewRows(indexLayerColumns()))

	layers, err := geoDB.ListIndexLayers(models.CatalogFilter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, layers)
}

func TestListIndexLayers_NullGeometry(t *testing.T) {
	geoDB, mock := newMockDB(t)

	rows := sqlmock.NewRows(indexLayerColumns()).
		AddRow(int64(1), "NBR", "s3://layers/nbr.tif", "nbr", time.Now(), "landsat8", nil, time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM index_layers`).
		WillReturnRows(rows)

	layers, err := geoDB.ListIndexLayers(models.CatalogFilter{}, nil)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Nil(t, layers[0].Geometry)
}

func TestListSatelliteImages_DateRange(t *testing.T) {
	geoDB, mock := newMockDB(t)

	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "satellite_name", "date_time", "image_name", "storage_link", "st_asgeojson", "created_at",
	}).AddRow(int64(4), "sentinel2", time.Date(2025, 7, 20, 10, 30, 0, 0, time.UTC),
		"S2A_20250720", "s3://images/S2A_20250720.tif", testPolygon, time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM satellite_images WHERE date_time::date >= \$1::date AND date_time::date <= \$2::date ORDER BY date_time DESC, id DESC`).
		WithArgs(from, to).
		WillReturnRows(rows)

	images, err := geoDB.ListSatelliteImages(models.CatalogFilter{DateFrom: &from, DateTo: &to}, nil)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "S2A_20250720", images[0].ImageName)
}

func TestListVectorLayer(t *testing.T) {
	geoDB, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "st_asgeojson"}).
		AddRow(int64(1), "Gilan", testPolygon).
		AddRow(int64(2), "Mazandaran", testPolygon)

	mock.ExpectQuery(`SELECT (.+) FROM iran_provinces ORDER BY name ASC`).
		WillReturnRows(rows)

	features, err := geoDB.ListVectorLayer(models.VectorProvinces)
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "Gilan", features[0].Name)
}

func TestListVectorLayer_UnknownKind(t *testing.T) {
	geoDB, _ := newMockDB(t)

	_, err := geoDB.ListVectorLayer(models.VectorKind("rivers"))
	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindNotFound, apiErr.Kind)
}

func TestListFireRiskAreas(t *testing.T) {
	geoDB, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "level", "st_asgeojson"}).
		AddRow(int64(1), "Golestan belt", "high", testPolygon)

	mock.ExpectQuery(`SELECT (.+) FROM fire_risk_areas ORDER BY name ASC`).
		WillReturnRows(rows)

	areas, err := geoDB.ListFireRiskAreas()
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "high", areas[0].Level)
}

func TestGetAdminStats(t *testing.T) {
	geoDB, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT role, COUNT\(\*\) FROM users GROUP BY role`).
		WillReturnRows(sqlmock.NewRows([]string{"role", "count"}).
			AddRow("admin", 1).
			AddRow("manager", 2).
			AddRow("expert", 5))

	for _, n := range []int{3, 12, 4, 20, 40, 6} {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
	}

	stats, err := geoDB.GetAdminStats()
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Users)
	assert.Equal(t, 5, stats.UsersByRole[models.RoleExpert])
	assert.Equal(t, 3, stats.Groups)
	assert.Equal(t, 12, stats.Memberships)
	assert.Equal(t, 4, stats.AOIs)
	assert.Equal(t, 20, stats.IndexLayers)
	assert.Equal(t, 40, stats.SatelliteImages)
	assert.Equal(t, 6, stats.FireRiskAreas)
	assert.NoError(t, mock.ExpectationsWereMet())
}
