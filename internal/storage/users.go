// ABOUTME: User CRUD operations for SQLite storage.
// ABOUTME: Enforces username uniqueness and cascades deletes to dependent rows.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/fittrack/internal/models"
)

const userColumns = `id, username, password, role, height_cm, weight_kg, health_notes`

// CreateUser stores a new account and returns its id.
func (d *DB) CreateUser(username, password string, role models.Role) (int64, error) {
	if strings.TrimSpace(username) == "" {
		return 0, fmt.Errorf("create user: %w", ErrEmptyUsername)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	if exists > 0 {
		return 0, fmt.Errorf("create user %s: %w", username, ErrDuplicateUsername)
	}

	result, err := tx.Exec(`INSERT INTO users (username, password, role) VALUES (?, ?, ?)`,
		username, password, string(role))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("create user %s: %w", username, ErrDuplicateUsername)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// GetUserByUsername retrieves an account by its exact username.
func (d *DB) GetUserByUsername(username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	u, err := scanUser(d.db.QueryRow(query, username))
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return u, nil
}

// GetUserByID retrieves an account by id.
func (d *DB) GetUserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	u, err := scanUser(d.db.QueryRow(query, id))
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// ListUsers returns all accounts, most recently created first.
func (d *DB) ListUsers() ([]*models.User, error) {
	rows, err := d.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile replaces height, weight and notes for a user.
// Nil numeric values and empty notes clear the stored field.
func (d *DB) UpdateProfile(userID int64, heightCm, weightKg *float64, notes string) error {
	if !validMeasure(heightCm) || !validMeasure(weightKg) {
		return fmt.Errorf("update profile %d: %w", userID, ErrInvalidProfile)
	}

	var notesArg interface{}
	if notes != "" {
		notesArg = notes
	}

	result, err := d.db.Exec(`
		UPDATE users SET height_cm = ?, weight_kg = ?, health_notes = ?
		WHERE id = ?
	`, nullFloat(heightCm), nullFloat(weightKg), notesArg, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update profile %d: %w", userID, ErrNotFound)
	}
	return nil
}

// DeleteUser removes an account together with its workouts and every
// instruction naming it as recipient or author. Either everything is
// removed or nothing is.
func (d *DB) DeleteUser(userID int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// CASCADE would handle these, but explicit deletes keep the guarantee
	// independent of the connection's foreign_keys setting
	if _, err := tx.Exec(`DELETE FROM instructions WHERE user_id = ? OR admin_id = ?`, userID, userID); err != nil {
		return fmt.Errorf("delete user instructions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM workouts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete user workouts: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete user %d: %w", userID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// userExists reports whether a user row with the id exists.
func userExists(q queryer, id int64) (bool, error) {
	var n int
	if err := q.QueryRow(`SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUser scans a single row into a User struct.
func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var role string
	var height, weight sql.NullFloat64
	var notes sql.NullString

	err := row.Scan(&u.ID, &u.Username, &u.Password, &role, &height, &weight, &notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	u.Role = models.Role(role)
	if height.Valid {
		u.HeightCm = &height.Float64
	}
	if weight.Valid {
		u.WeightKg = &weight.Float64
	}
	if notes.Valid {
		u.HealthNotes = &notes.String
	}
	return &u, nil
}

// validMeasure reports whether an optional height or weight is absent or positive.
func validMeasure(f *float64) bool {
	return f == nil || *f > 0
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
