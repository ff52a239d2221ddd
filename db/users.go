package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/firewatch-geo/firewatch-services/models"
)

const userColumns = `id, username, email, password_hash, role, is_superuser, date_joined, last_login`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Superuser, &u.DateJoined, &u.LastLogin); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. The username unique constraint is the
// race-safe backstop for duplicate registrations.
func (g *GeoportalDB) CreateUser(u models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role, is_superuser, date_joined)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + userColumns
	row := g.DB.QueryRow(query, u.Username, u.Email, u.PasswordHash, u.Role, u.Superuser)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.Conflict("username already taken")
		}
		return nil, fmt.Errorf("error inserting user: %w", err)
	}
	return created, nil
}

func (g *GeoportalDB) GetUserByID(id int64) (*models.User, error) {
	row := g.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("user not found")
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return u, nil
}

func (g *GeoportalDB) GetUserByUsername(username string) (*models.User, error) {
	row := g.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("user not found")
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return u, nil
}

func (g *GeoportalDB) UpdateLastLogin(id int64, t time.Time) error {
	_, err := g.DB.Exec(`UPDATE users SET last_login = $2 WHERE id = $1`, id, t)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

func (g *GeoportalDB) UpdatePassword(id int64, passwordHash string) error {
	res, err := g.DB.Exec(`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFound("user not found")
	}
	return nil
}

// UpdateUsername renames a user, enforcing username uniqueness.
func (g *GeoportalDB) UpdateUsername(id int64, username string) error {
	res, err := g.DB.Exec(`UPDATE users SET username = $2 WHERE id = $1`, id, username)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Conflict("username already taken")
		}
		return fmt.Errorf("error updating username: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFound("user not found")
	}
	return nil
}

// UpdateEmail sets or clears a user's email address.
func (g *GeoportalDB) UpdateEmail(id int64, email *string) error {
	res, err := g.DB.Exec(`UPDATE users SET email = $2 WHERE id = $1`, id, email)
	if err != nil {
		return fmt.Errorf("error updating email: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFound("user not found")
	}
	return nil
}

// ListUsers retrieves users ordered by username, optionally restricted to a
// role and/or a case-insensitive username substring.
func (g *GeoportalDB) ListUsers(role models.Role, q string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var conds []string
	var args []interface{}

	if role != "" {
		args = append(args, role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, fmt.Sprintf("username ILIKE $%d", len(args)))
	}
	query += whereClause(conds) + ` ORDER BY username ASC`

	rows, err := g.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (g *GeoportalDB) DeleteUser(id int64) error {
	res, err := g.DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFound("user not found")
	}
	return nil
}

// CountAdmins returns the number of accounts holding the admin role
// system-wide. Input to the last-admin deletion guard.
func (g *GeoportalDB) CountAdmins() (int, error) {
	var count int
	err := g.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleAdmin).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return count, nil
}
