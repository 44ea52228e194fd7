// ABOUTME: SQLite schema definition, initialization and admin bootstrap.
// ABOUTME: Defines tables for users, workouts, and instructions with cascade deletes.
package storage

import (
	"github.com/harperreed/fittrack/internal/models"
)

const (
	// DefaultAdminUsername is the bootstrapped admin account.
	DefaultAdminUsername = "admin"
	// DefaultAdminPassword is the documented default credential for the bootstrapped admin.
	DefaultAdminPassword = "admin123"
)

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		height_cm REAL,
		weight_kg REAL,
		health_notes TEXT
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		calories REAL NOT NULL,
		note TEXT,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS instructions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		admin_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		text TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (admin_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, date DESC);
	CREATE INDEX IF NOT EXISTS idx_instructions_user_date ON instructions(user_id, date DESC);
	CREATE INDEX IF NOT EXISTS idx_instructions_admin ON instructions(admin_id);
	`

	_, err := d.db.Exec(schema)
	return err
}

// seedAdmin inserts the default admin when no user named admin exists.
func (d *DB) seedAdmin() error {
	_, err := d.db.Exec(`
		INSERT INTO users (username, password, role)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM users WHERE username = ?)
	`, DefaultAdminUsername, DefaultAdminPassword, string(models.RoleAdmin), DefaultAdminUsername)
	return err
}
