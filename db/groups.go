package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/firewatch-geo/firewatch-services/models"
)

const groupSummaryQuery = `
	SELECT g.id, g.name, g.access_level, g.created_by, g.created_at,
	       u.username,
	       (SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id)
	FROM access_groups g
	INNER JOIN users u ON u.id = g.created_by`

// CreateGroup inserts a new access group. Name uniqueness is backed by the
// database constraint.
func (g *GeoportalDB) CreateGroup(name string, level models.AccessLevel, createdBy int64) (*models.AccessGroup, error) {
	query := `
		INSERT INTO access_groups (name, access_level, created_by, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, name, access_level, created_by, created_at`

	var group models.AccessGroup
	err := g.DB.QueryRow(query, name, level, createdBy).Scan(
		&group.ID, &group.Name, &group.AccessLevel, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.Conflict("a group with this name already exists")
		}
		return nil, fmt.Errorf("error inserting group: %w", err)
	}
	return &group, nil
}

func (g *GeoportalDB) GetGroup(id int64) (*models.AccessGroup, error) {
	query := `SELECT id, name, access_level, created_by, created_at FROM access_groups WHERE id = $1`

	var group models.AccessGroup
	err := g.DB.QueryRow(query, id).Scan(
		&group.ID, &group.Name, &group.AccessLevel, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("group not found")
		}
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}
	return &group, nil
}

// UpdateGroup applies a partial update. Untouched fields keep their value.
func (g *GeoportalDB) UpdateGroup(id int64, patch models.GroupPatch) (*models.AccessGroup, error) {
	query := `
		UPDATE access_groups
		SET name = COALESCE($2, name), access_level = COALESCE($3, access_level)
		WHERE id = $1
		RETURNING id, name, access_level, created_by, created_at`

	var group models.AccessGroup
	err := g.DB.QueryRow(query, id, patch.Name, patch.AccessLevel).Scan(
		&group.ID, &group.Name, &group.AccessLevel, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("group not found")
		}
		if isUniqueViolation(err) {
			return nil, models.Conflict("a group with this name already exists")
		}
		return nil, fmt.Errorf("error updating group: %w", err)
	}
	return &group, nil
}

// DeleteGroup removes a group; its memberships are cascaded by the foreign
// key.
func (g *GeoportalDB) DeleteGroup(id int64) error {
	res, err := g.DB.Exec(`DELETE FROM access_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFound("group not found")
	}
	return nil
}

// ListGroups retrieves all groups, newest first, annotated with the
// creator's username and the live member count.
func (g *GeoportalDB) ListGroups() ([]models.GroupSummary, error) {
	rows, err := g.DB.Query(groupSummaryQuery + ` ORDER BY g.created_at DESC, g.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving groups: %w", err)
	}
	defer rows.Close()
	return scanGroupSummaries(rows)
}

// ListGroupsForUser retrieves only the groups the user is a member of.
func (g *GeoportalDB) ListGroupsForUser(userID int64) ([]models.GroupSummary, error) {
	query := groupSummaryQuery + `
	WHERE EXISTS (SELECT 1 FROM group_members m WHERE m.group_id = g.id AND m.user_id = $1)
	ORDER BY g.created_at DESC, g.id DESC`

	rows, err := g.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving groups: %w", err)
	}
	defer rows.Close()
	return scanGroupSummaries(rows)
}

func scanGroupSummaries(rows *sql.Rows) ([]models.GroupSummary, error) {
	var groups []models.GroupSummary
	for rows.Next() {
		var gs models.GroupSummary
		if err := rows.Scan(&gs.ID, &gs.Name, &gs.AccessLevel, &gs.CreatedBy, &gs.CreatedAt,
			&gs.CreatedByUsername, &gs.MembersCount); err != nil {
			return nil, fmt.Errorf("error scanning group: %w", err)
		}
		groups = append(groups, gs)
	}
	return groups, rows.Err()
}

// AddMember creates a membership record. The (group, user) unique
// constraint makes duplicate additions fail under concurrency as well.
func (g *GeoportalDB) AddMember(groupID, userID int64) (*models.GroupMember, error) {
	if _, err := g.GetGroup(groupID); err != nil {
		return nil, err
	}
	if _, err := g.GetUserByID(userID); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO group_members (group_id, user_id, joined_at)
		VALUES ($1, $2, NOW())
		RETURNING id, group_id, user_id, joined_at`

	var m models.GroupMember
	err := g.DB.QueryRow(query, groupID, userID).Scan(&m.ID, &m.GroupID, &m.UserID, &m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.Conflict("user is already a member of this group")
		}
		return nil, fmt.Errorf("error inserting membership: %w", err)
	}
	return &m, nil
}

func (g *GeoportalDB) RemoveMember(groupID, userID int64) error {
	res, err := g.DB.Exec(`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("error deleting membership: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFound("user is not a member of this group")
	}
	return nil
}

// ListMembers retrieves a group's roster in join order.
func (g *GeoportalDB) ListMembers(groupID int64) ([]models.Membership, error) {
	query := `
		SELECT m.user_id, u.username, u.role, m.joined_at
		FROM group_members m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at ASC, m.id ASC`

	rows, err := g.DB.Query(query, groupID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving members: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.UserID, &m.Username, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("error scanning membership: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsMember reports whether the user belongs to the group.
func (g *GeoportalDB) IsMember(groupID, userID int64) (bool, error) {
	var exists bool
	err := g.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}
