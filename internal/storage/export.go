// ABOUTME: Export and import functionality for tracker data.
// ABOUTME: CSV workout history per user, plus JSON/YAML full backups and Markdown tables.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fittrack/internal/models"
	"gopkg.in/yaml.v3"
)

// CSVHeader is the first line of every workout CSV export.
const CSVHeader = "date,duration_seconds,calories,note"

// ExportCSV formats workouts as CSV in the order given. Date and note are
// always quoted; embedded quotes are doubled.
func ExportCSV(workouts []*models.Workout) string {
	var sb strings.Builder
	sb.WriteString(CSVHeader)
	sb.WriteString("\n")
	for _, w := range workouts {
		sb.WriteString(fmt.Sprintf("%s,%d,%.2f,%s\n",
			csvQuote(w.Date.Format(dateLayout)),
			w.DurationSeconds,
			w.Calories,
			csvQuote(w.NoteText())))
	}
	return sb.String()
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportMarkdown formats a user's workouts as a Markdown table.
func ExportMarkdown(username string, workouts []*models.Workout) string {
	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Workouts - %s\n\n", username))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))
	sb.WriteString("| Date | Duration | Calories | Note |\n")
	sb.WriteString("|------|----------|----------|------|\n")
	for _, w := range workouts {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.1f kcal | %s |\n",
			w.Date.Format("2006-01-02 15:04"),
			formatClock(w.DurationSeconds),
			w.Calories,
			w.NoteText()))
	}
	return sb.String()
}

func formatClock(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// ExportData represents the full backup format for tracker data.
type ExportData struct {
	Version      string              `json:"version" yaml:"version"`
	ExportedAt   time.Time           `json:"exported_at" yaml:"exported_at"`
	Tool         string              `json:"tool" yaml:"tool"`
	Users        []ExportUser        `json:"users" yaml:"users"`
	Workouts     []ExportWorkout     `json:"workouts" yaml:"workouts"`
	Instructions []ExportInstruction `json:"instructions" yaml:"instructions"`
}

// ExportUser is a user row in a backup, including the credential.
type ExportUser struct {
	ID          int64    `json:"id" yaml:"id"`
	Username    string   `json:"username" yaml:"username"`
	Password    string   `json:"password" yaml:"password"`
	Role        string   `json:"role" yaml:"role"`
	HeightCm    *float64 `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	WeightKg    *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	HealthNotes *string  `json:"health_notes,omitempty" yaml:"health_notes,omitempty"`
}

// ExportWorkout is a workout row in a backup.
type ExportWorkout struct {
	ID              int64   `json:"id" yaml:"id"`
	UserID          int64   `json:"user_id" yaml:"user_id"`
	Date            string  `json:"date" yaml:"date"`
	DurationSeconds int64   `json:"duration_seconds" yaml:"duration_seconds"`
	Calories        float64 `json:"calories" yaml:"calories"`
	Note            *string `json:"note,omitempty" yaml:"note,omitempty"`
}

// ExportInstruction is an instruction row in a backup.
type ExportInstruction struct {
	ID      int64  `json:"id" yaml:"id"`
	UserID  int64  `json:"user_id" yaml:"user_id"`
	AdminID int64  `json:"admin_id" yaml:"admin_id"`
	Date    string `json:"date" yaml:"date"`
	Text    string `json:"text" yaml:"text"`
}

// ImportSummary holds counts of imported entities.
type ImportSummary struct {
	Users        int
	SkippedUsers int
	Workouts     int
	Instructions int
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	users, err := d.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "fittrack",
	}

	// Oldest first so a restore recreates users in their original order
	for i := len(users) - 1; i >= 0; i-- {
		u := users[i]
		data.Users = append(data.Users, ExportUser{
			ID:          u.ID,
			Username:    u.Username,
			Password:    u.Password,
			Role:        string(u.Role),
			HeightCm:    u.HeightCm,
			WeightKg:    u.WeightKg,
			HealthNotes: u.HealthNotes,
		})

		workouts, err := d.GetWorkoutsForUser(u.ID)
		if err != nil {
			return nil, fmt.Errorf("list workouts: %w", err)
		}
		for _, w := range workouts {
			data.Workouts = append(data.Workouts, ExportWorkout{
				ID:              w.ID,
				UserID:          w.UserID,
				Date:            w.Date.Format(dateLayout),
				DurationSeconds: w.DurationSeconds,
				Calories:        w.Calories,
				Note:            w.Note,
			})
		}

		instructions, err := d.GetInstructionsForUser(u.ID)
		if err != nil {
			return nil, fmt.Errorf("list instructions: %w", err)
		}
		for _, in := range instructions {
			data.Instructions = append(data.Instructions, ExportInstruction{
				ID:      in.ID,
				UserID:  in.UserID,
				AdminID: in.AdminID,
				Date:    in.Date.Format(dateLayout),
				Text:    in.Text,
			})
		}
	}

	return data, nil
}

// ImportData restores a backup in one transaction. Users whose username
// already exists are kept as-is and their backup rows are attached to the
// existing account. Record ids are reassigned; dates are preserved.
func (d *DB) ImportData(data *ExportData) (*ImportSummary, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	summary := &ImportSummary{}
	idMap := make(map[int64]int64, len(data.Users))

	for _, u := range data.Users {
		if !models.IsValidRole(u.Role) {
			return nil, fmt.Errorf("import user %s: unknown role %q", u.Username, u.Role)
		}
		if strings.TrimSpace(u.Username) == "" {
			return nil, fmt.Errorf("import user %d: %w", u.ID, ErrEmptyUsername)
		}
		if !validMeasure(u.HeightCm) || !validMeasure(u.WeightKg) {
			return nil, fmt.Errorf("import user %s: %w", u.Username, ErrInvalidProfile)
		}

		var existing int64
		err := tx.QueryRow(`SELECT id FROM users WHERE username = ?`, u.Username).Scan(&existing)
		switch {
		case err == nil:
			idMap[u.ID] = existing
			summary.SkippedUsers++
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("import user %s: %w", u.Username, err)
		}

		result, err := tx.Exec(`
			INSERT INTO users (username, password, role, height_cm, weight_kg, health_notes)
			VALUES (?, ?, ?, ?, ?, ?)
		`, u.Username, u.Password, u.Role, nullFloat(u.HeightCm), nullFloat(u.WeightKg), u.HealthNotes)
		if err != nil {
			return nil, fmt.Errorf("import user %s: %w", u.Username, err)
		}
		newID, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("import user %s: %w", u.Username, err)
		}
		idMap[u.ID] = newID
		summary.Users++
	}

	for _, w := range data.Workouts {
		userID, ok := idMap[w.UserID]
		if !ok {
			return nil, fmt.Errorf("import workout %d: user %d: %w", w.ID, w.UserID, ErrNotFound)
		}
		if w.DurationSeconds < 0 || w.Calories < 0 {
			return nil, fmt.Errorf("import workout %d: %w", w.ID, ErrInvalidWorkout)
		}
		_, err := tx.Exec(`
			INSERT INTO workouts (user_id, date, duration_seconds, calories, note)
			VALUES (?, ?, ?, ?, ?)
		`, userID, w.Date, w.DurationSeconds, w.Calories, w.Note)
		if err != nil {
			return nil, fmt.Errorf("import workout %d: %w", w.ID, err)
		}
		summary.Workouts++
	}

	for _, in := range data.Instructions {
		userID, ok := idMap[in.UserID]
		if !ok {
			return nil, fmt.Errorf("import instruction %d: user %d: %w", in.ID, in.UserID, ErrNotFound)
		}
		adminID, ok := idMap[in.AdminID]
		if !ok {
			return nil, fmt.Errorf("import instruction %d: admin %d: %w", in.ID, in.AdminID, ErrNotFound)
		}
		_, err := tx.Exec(`
			INSERT INTO instructions (user_id, admin_id, date, text)
			VALUES (?, ?, ?, ?)
		`, userID, adminID, in.Date, in.Text)
		if err != nil {
			return nil, fmt.Errorf("import instruction %d: %w", in.ID, err)
		}
		summary.Instructions++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return summary, nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(data []byte) (*ImportSummary, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(&exportData)
}

// ImportYAML imports data from YAML bytes.
func (d *DB) ImportYAML(data []byte) (*ImportSummary, error) {
	var exportData ExportData
	if err := yaml.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return d.ImportData(&exportData)
}
