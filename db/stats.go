package db

import (
	"fmt"

	"github.com/firewatch-geo/firewatch-services/models"
)

// GetAdminStats computes aggregate counts across the system.
func (g *GeoportalDB) GetAdminStats() (*models.AdminStats, error) {
	stats := &models.AdminStats{UsersByRole: make(map[models.Role]int)}

	rows, err := g.DB.Query(`SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role models.Role
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("error scanning user counts: %w", err)
		}
		stats.UsersByRole[role] = count
		stats.Users += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := []struct {
		table string
		dest  *int
	}{
		{"access_groups", &stats.Groups},
		{"group_members", &stats.Memberships},
		{"aoi", &stats.AOIs},
		{"index_layers", &stats.IndexLayers},
		{"satellite_images", &stats.SatelliteImages},
		{"fire_risk_areas", &stats.FireRiskAreas},
	}
	for _, c := range counts {
		if err := g.DB.QueryRow(`SELECT COUNT(*) FROM ` + c.table).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("error counting %s: %w", c.table, err)
		}
	}

	return stats, nil
}
