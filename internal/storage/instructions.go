// ABOUTME: Instruction CRUD operations for SQLite storage.
// ABOUTME: Instructions are admin-authored messages addressed to one user.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/fittrack/internal/models"
)

// AddInstruction stores a message from adminID to userID and returns its id.
// Both ids must reference existing users.
func (d *DB) AddInstruction(userID, adminID int64, text string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("add instruction: %w", ErrEmptyInstruction)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("add instruction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range []int64{userID, adminID} {
		ok, err := userExists(tx, id)
		if err != nil {
			return 0, fmt.Errorf("add instruction: %w", err)
		}
		if !ok {
			return 0, fmt.Errorf("add instruction: user %d: %w", id, ErrNotFound)
		}
	}

	result, err := tx.Exec(`
		INSERT INTO instructions (user_id, admin_id, date, text)
		VALUES (?, ?, ?, ?)
	`, userID, adminID, d.timestamp(), text)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("add instruction: %w", ErrNotFound)
		}
		return 0, fmt.Errorf("add instruction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add instruction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add instruction: %w", err)
	}
	return id, nil
}

// GetInstructionsForUser retrieves instructions addressed to a user, newest first.
func (d *DB) GetInstructionsForUser(userID int64) ([]*models.Instruction, error) {
	return d.listInstructions(`i.user_id = ?`, userID)
}

// GetInstructionsByAdmin retrieves instructions authored by an admin, newest first.
func (d *DB) GetInstructionsByAdmin(adminID int64) ([]*models.Instruction, error) {
	return d.listInstructions(`i.admin_id = ?`, adminID)
}

func (d *DB) listInstructions(where string, id int64) ([]*models.Instruction, error) {
	query := `
		SELECT i.id, i.user_id, i.admin_id, COALESCE(a.username, 'admin'), i.date, i.text
		FROM instructions i
		LEFT JOIN users a ON a.id = i.admin_id
		WHERE ` + where + `
		ORDER BY i.date DESC, i.id DESC
	`
	rows, err := d.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("list instructions: %w", err)
	}
	defer rows.Close()

	return scanInstructions(rows)
}

// scanInstructions scans multiple rows into a slice of Instructions.
func scanInstructions(rows *sql.Rows) ([]*models.Instruction, error) {
	var out []*models.Instruction

	for rows.Next() {
		var in models.Instruction
		var date string

		if err := rows.Scan(&in.ID, &in.UserID, &in.AdminID, &in.AdminName, &date, &in.Text); err != nil {
			return nil, fmt.Errorf("scan instruction: %w", err)
		}
		in.Date = parseDate(date)
		out = append(out, &in)
	}

	return out, rows.Err()
}
