// ABOUTME: Workout and Instruction models for activity tracking.
// ABOUTME: Workouts are timer sessions with an estimated calorie count.
package models

import (
	"time"
)

// DateLayout is the persisted form of record dates. It sorts lexicographically.
const DateLayout = "2006-01-02T15:04:05"

// Workout represents a completed timer session.
type Workout struct {
	ID              int64
	UserID          int64
	Date            time.Time
	DurationSeconds int64
	Calories        float64
	Note            *string
}

// NewWorkout creates a Workout for the given user. ID and Date are assigned by the store.
func NewWorkout(userID int64, durationSeconds int64, calories float64) *Workout {
	return &Workout{
		UserID:          userID,
		DurationSeconds: durationSeconds,
		Calories:        calories,
	}
}

// WithNote sets a note on the workout. An empty note clears it.
func (w *Workout) WithNote(note string) *Workout {
	if note == "" {
		w.Note = nil
		return w
	}
	w.Note = &note
	return w
}

// NoteText returns the note or an empty string when unset.
func (w *Workout) NoteText() string {
	if w.Note == nil {
		return ""
	}
	return *w.Note
}

// Instruction is a trainer message from an admin to a user.
type Instruction struct {
	ID        int64
	UserID    int64
	AdminID   int64
	AdminName string // Populated when listing
	Date      time.Time
	Text      string
}
