// ABOUTME: Repository interface for fitness tracker storage.
// ABOUTME: Defines contract for users, workouts, and instructions CRUD operations.
package storage

import (
	"github.com/harperreed/fittrack/internal/models"
)

// Repository defines the storage interface for tracker data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// User operations
	CreateUser(username, password string, role models.Role) (int64, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	ListUsers() ([]*models.User, error)
	UpdateProfile(userID int64, heightCm, weightKg *float64, notes string) error
	DeleteUser(userID int64) error

	// Workout operations
	AddWorkout(userID int64, durationSeconds int64, calories float64, note string) (int64, error)
	GetWorkoutsForUser(userID int64) ([]*models.Workout, error)

	// Instruction operations
	AddInstruction(userID, adminID int64, text string) (int64, error)
	GetInstructionsForUser(userID int64) ([]*models.Instruction, error)
	GetInstructionsByAdmin(adminID int64) ([]*models.Instruction, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) (*ImportSummary, error)

	// Lifecycle
	Close() error
}
