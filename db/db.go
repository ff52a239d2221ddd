package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// GeoportalDB wraps the relational+spatial datastore. All geometry columns
// are geography(Polygon,4326); intersection predicates run in PostGIS.
type GeoportalDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewGeoportalDB opens the database connection using the DATABASE_URL
// environment variable.
func NewGeoportalDB(log *zerolog.Logger) (*GeoportalDB, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Error().Msg("DATABASE_URL environment variable is not set")
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		return nil, err
	}

	return &GeoportalDB{DB: db, Log: log}, nil
}

func (g *GeoportalDB) Close() error {
	if err := g.DB.Close(); err != nil {
		return err
	}
	g.Log.Info().Msg("database connection closed")
	return nil
}

// Migrate runs the embedded goose migrations.
func (g *GeoportalDB) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting goose dialect: %w", err)
	}

	if err := goose.Up(g.DB, "migrations"); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	return nil
}

// whereClause joins conditions into a WHERE clause, or returns "" when
// there are none.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	clause := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		clause += " AND " + c
	}
	return clause
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation. Uniqueness races (username, group name, membership pair) end
// up here when the application-level existence check loses.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
