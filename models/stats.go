package models

// AdminStats aggregates system-wide counts for the admin dashboard.
type AdminStats struct {
	Users           int          `json:"users"`
	UsersByRole     map[Role]int `json:"users_by_role"`
	Groups          int          `json:"groups"`
	Memberships     int          `json:"memberships"`
	AOIs            int          `json:"aois"`
	IndexLayers     int          `json:"index_layers"`
	SatelliteImages int          `json:"satellite_images"`
	FireRiskAreas   int          `json:"fire_risk_areas"`
}
