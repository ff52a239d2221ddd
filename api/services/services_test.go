package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/firewatch-geo/firewatch-services/api/middleware"
	"github.com/firewatch-geo/firewatch-services/db"
	"github.com/firewatch-geo/firewatch-services/internal/appconfig"
	"github.com/firewatch-geo/firewatch-services/internal/authn"
	"github.com/firewatch-geo/firewatch-services/internal/events"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// MockNotifier records published audit events for assertion.
type MockNotifier struct {
	Published []events.AuditEvent
	Err       error
}

func (m *MockNotifier) Publish(event events.AuditEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, event)
	return nil
}

func (m *MockNotifier) Close() {}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *MockNotifier) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	logger := zerolog.Nop()
	geoDB := &db.GeoportalDB{DB: conn, Log: &logger}

	codec, err := authn.NewTokenCodec(appconfig.JWTConfig{
		Secret: "test-secret", Algorithm: "HS256", AccessTTLMinutes: 60,
	})
	require.NoError(t, err)

	notifier := &MockNotifier{}
	svc := &Service{
		Config:    &appconfig.Config{BasePath: "/api"},
		DB:        geoDB,
		Codec:     codec,
		Publisher: notifier,
	}
	return svc, mock, notifier
}

// asPrincipal attaches an authenticated principal to the request, the way
// the authentication middleware would.
func asPrincipal(r *http.Request, user models.User) *http.Request {
	principal := models.Principal{User: user, Caps: models.ResolveCapabilities(user)}
	ctx := context.WithValue(r.Context(), middleware.PrincipalKey, principal)
	return r.WithContext(ctx)
}

func testUser(id int64, username string, role models.Role) models.User {
	return models.User{
		ID:         id,
		Username:   username,
		Role:       role,
		DateJoined: time.Now().Add(-24 * time.Hour),
	}
}

func mockUserRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "role", "is_superuser",
		"date_joined", "last_login",
	})
}
