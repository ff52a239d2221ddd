package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AOISource tags how an AOI polygon was produced by the client.
type AOISource string

const (
	AOISourceDraw AOISource = "draw"
	AOISourceKML  AOISource = "kml"
)

func (s AOISource) Valid() bool {
	switch s {
	case AOISourceDraw, AOISourceKML:
		return true
	}
	return false
}

// AOI is a stored area of interest: a single lon/lat polygon referenced by
// id from catalog query parameters. AOIs are created on demand and never
// mutated.
type AOI struct {
	ID        int64           `json:"id"`
	UUID      uuid.UUID       `json:"uuid"`
	Name      string          `json:"name"`
	Source    AOISource       `json:"source"`
	Geometry  json.RawMessage `json:"geometry"`
	CreatedAt time.Time       `json:"created_at"`
}

// AOIRequest is the client submission body.
type AOIRequest struct {
	Name     string          `json:"name"`
	Source   AOISource       `json:"source"`
	Geometry json.RawMessage `json:"geometry"`
}
