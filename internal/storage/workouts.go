// ABOUTME: Workout CRUD operations for SQLite storage.
// ABOUTME: Workouts are append-only; they disappear only with their owner.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/fittrack/internal/models"
)

const dateLayout = models.DateLayout

// AddWorkout stores a completed workout stamped with the current time and returns its id.
func (d *DB) AddWorkout(userID int64, durationSeconds int64, calories float64, note string) (int64, error) {
	if durationSeconds < 0 || calories < 0 {
		return 0, fmt.Errorf("add workout: %w", ErrInvalidWorkout)
	}

	var noteArg interface{}
	if note != "" {
		noteArg = note
	}

	query := `
		INSERT INTO workouts (user_id, date, duration_seconds, calories, note)
		SELECT ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM users WHERE id = ?)
	`
	result, err := d.db.Exec(query, userID, d.timestamp(), durationSeconds, calories, noteArg, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("add workout for user %d: %w", userID, ErrNotFound)
		}
		return 0, fmt.Errorf("add workout: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("add workout: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("add workout for user %d: %w", userID, ErrNotFound)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add workout: %w", err)
	}
	return id, nil
}

// GetWorkoutsForUser retrieves a user's workouts.
// Results are sorted by Date descending (most recent first).
func (d *DB) GetWorkoutsForUser(userID int64) ([]*models.Workout, error) {
	query := `
		SELECT id, user_id, date, duration_seconds, calories, note
		FROM workouts
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
	`
	rows, err := d.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// scanWorkouts scans multiple rows into a slice of Workouts.
func scanWorkouts(rows *sql.Rows) ([]*models.Workout, error) {
	var workouts []*models.Workout

	for rows.Next() {
		var w models.Workout
		var date string
		var note sql.NullString

		err := rows.Scan(&w.ID, &w.UserID, &date, &w.DurationSeconds, &w.Calories, &note)
		if err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}

		w.Date = parseDate(date)
		if note.Valid {
			w.Note = &note.String
		}

		workouts = append(workouts, &w)
	}

	return workouts, rows.Err()
}

// parseDate parses a persisted date, accepting RFC3339 from older imports.
func parseDate(s string) time.Time {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
