// ABOUTME: Output helpers shared by CLI commands and the interactive shell.
// ABOUTME: Tables for users, workouts and instructions with faint metadata columns.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/timer"
)

var (
	faint = color.New(color.Faint)
	green = color.New(color.FgGreen)
	warn  = color.New(color.FgYellow)
)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}

func printUsers(w io.Writer, users []*models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "%s %s %s\n",
			faint.Sprintf("%4d", u.ID),
			padRight(u.Username, 20),
			string(u.Role))
	}
}

func printWorkouts(w io.Writer, workouts []*models.Workout) {
	if len(workouts) == 0 {
		fmt.Fprintln(w, "No workouts found.")
		return
	}
	for _, wo := range workouts {
		note := ""
		if wo.NoteText() != "" {
			note = faint.Sprintf(" (%s)", truncate(wo.NoteText(), 30))
		}
		fmt.Fprintf(w, "%s %s %s %8.1f kcal%s\n",
			faint.Sprintf("%4d", wo.ID),
			faint.Sprint(wo.Date.Format("2006-01-02 15:04")),
			timer.FormatDuration(wo.DurationSeconds),
			wo.Calories,
			note)
	}
}

func printInstructions(w io.Writer, instructions []*models.Instruction) {
	if len(instructions) == 0 {
		fmt.Fprintln(w, "No instructions yet.")
		return
	}
	for _, in := range instructions {
		fmt.Fprintf(w, "%s %s %s\n",
			faint.Sprint(in.Date.Format("2006-01-02 15:04")),
			padRight("["+in.AdminName+"]", 14),
			in.Text)
	}
}

func printProfile(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "Username: %s\n", u.Username)
	fmt.Fprintf(w, "Role:     %s\n", u.Role)
	fmt.Fprintf(w, "Height:   %s\n", formatOptional(u.HeightCm, "cm"))
	fmt.Fprintf(w, "Weight:   %s\n", formatOptional(u.WeightKg, "kg"))
	if u.Notes() != "" {
		fmt.Fprintf(w, "Notes:    %s\n", u.Notes())
	}
}
