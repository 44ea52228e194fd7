// ABOUTME: CSV export of the logged-in user's workout history.
// ABOUTME: Write failures surface as ErrExportWrite.
package tracker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/fittrack/internal/session"
	"github.com/harperreed/fittrack/internal/storage"
	"go.uber.org/zap"
)

// DefaultExportName returns the default CSV filename for a user.
func DefaultExportName(username string) string {
	return "workouts_" + username + ".csv"
}

// WorkoutsCSV renders the logged-in user's history as CSV text.
func (s *Service) WorkoutsCSV(sess *session.Session) (string, error) {
	workouts, err := s.Workouts(sess)
	if err != nil {
		return "", err
	}
	return storage.ExportCSV(workouts), nil
}

// ExportCSV writes the history to path, or to the default filename in the
// working directory when path is empty. It returns the absolute path written.
func (s *Service) ExportCSV(sess *session.Session, path string) (string, error) {
	user, err := sess.User()
	if err != nil {
		return "", err
	}
	if path == "" {
		path = DefaultExportName(user.Username)
	}

	csv, err := s.WorkoutsCSV(sess)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportWrite, err)
	}
	if err := os.WriteFile(abs, []byte(csv), 0600); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportWrite, err)
	}

	s.log.Info("workouts exported",
		zap.String("session", sess.ID.String()),
		zap.Int64("user_id", user.ID),
		zap.String("path", abs))
	return abs, nil
}
