package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPolygon = `{"type":"Polygon","coordinates":[[[51.2,35.6],[51.5,35.6],[51.5,35.9],[51.2,35.9],[51.2,35.6]]]}`

func aoiRows() []string {
	return []string{"id", "uuid", "name", "source", "st_asgeojson", "created_at"}
}

func TestCreateAOIService(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	mock.ExpectQuery("INSERT INTO aoi").
		WillReturnRows(sqlmock.NewRows(aoiRows()).
			AddRow(int64(1), uuid.New().String(), "burn scar", "draw", testPolygon, time.Now()))

	body := `{"name":"burn scar","geometry":` + testPolygon + `}`
	req := asPrincipal(httptest.NewRequest(http.MethodPost, "/api/fire/aoi", strings.NewReader(body)),
		testUser(7, "ranger", models.RoleExpert))
	w := httptest.NewRecorder()
	svc.CreateAOIService(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var aoi models.AOI
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aoi))
	assert.Equal(t, "burn scar", aoi.Name)
	assert.Equal(t, models.AOISourceDraw, aoi.Source)

	require.Len(t, notifier.Published, 1)
	assert.Equal(t, "aoi", notifier.Published[0].Entity)
}

func TestCreateAOIService_MissingGeometry(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := asPrincipal(httptest.NewRequest(http.MethodPost, "/api/fire/aoi", strings.NewReader(`{"name":"x"}`)),
		testUser(7, "ranger", models.RoleExpert))
	w := httptest.NewRecorder()
	svc.CreateAOIService(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.ErrorDetails, "geometry is required")
}

func TestCreateAOIService_NonPolygonGeometry(t *testing.T) {
	svc, _, _ := newTestService(t)

	body := `{"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}`
	req := asPrincipal(httptest.NewRequest(http.MethodPost, "/api/fire/aoi", strings.NewReader(body)),
		testUser(7, "ranger", models.RoleExpert))
	w := httptest.NewRecorder()
	svc.CreateAOIService(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.ErrorDetails, "only Polygon is supported")
}

func TestCreateAOIService_InvalidSource(t *testing.T) {
	svc, _, _ := newTestService(t)

	body := `{"source":"upload","geometry":` + testPolygon + `}`
	req := asPrincipal(httptest.NewRequest(http.MethodPost, "/api/fire/aoi", strings.NewReader(body)),
		testUser(7, "ranger", models.RoleExpert))
	w := httptest.NewRecorder()
	svc.CreateAOIService(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAOIService_RequiresAuth(t *testing.T) {
	svc, _, _ := newTestService(t)

	body := `{"geometry":` + testPolygon + `}`
	req := httptest.NewRequest(http.MethodPost, "/api/fire/aoi", strings.NewReader(body))
	w := httptest.NewRecorder()
	svc.CreateAOIService(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetAOIService_NotFound(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM aoi WHERE id =").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(aoiRows()))

	req := asPrincipal(httptest.NewRequest(http.MethodGet, "/api/fire/aoi/99", nil),
		testUser(7, "ranger", models.RoleExpert))
	req = mux.SetURLVars(req, map[string]string{"aoi-id": "99"})
	w := httptest.NewRecorder()
	svc.GetAOIService(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAOIsService(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM aoi ORDER BY id DESC").
		WillReturnRows(sqlmock.NewRows(aoiRows()).
			AddRow(int64(2), uuid.New().String(), "b", "kml", testPolygon, time.Now()).
			AddRow(int64(1), uuid.New().String(), "a", "draw", testPolygon, time.Now()))

	req := asPrincipal(httptest.NewRequest(http.MethodGet, "/api/fire/aoi", nil),
		testUser(7, "ranger", models.RoleExpert))
	w := httptest.NewRecorder()
	svc.ListAOIsService(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var aois []models.AOI
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aois))
	require.Len(t, aois, 2)
	assert.Equal(t, int64(2), aois[0].ID)
}
