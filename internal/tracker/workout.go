// ABOUTME: Workout timer operations for the tracker service.
// ABOUTME: Stopping a timer estimates calories and persists the session.
package tracker

import (
	"fmt"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/session"
	"github.com/harperreed/fittrack/internal/timer"
	"go.uber.org/zap"
)

// Status describes the session's timer.
type Status struct {
	Running        bool
	ElapsedSeconds int64
}

// Elapsed renders the elapsed time as HH:MM:SS.
func (st Status) Elapsed() string {
	return timer.FormatDuration(st.ElapsedSeconds)
}

// SavedWorkout is the outcome of a stopped and recorded timer session.
type SavedWorkout struct {
	Workout   *models.Workout
	Intensity models.Intensity
	WeightKg  float64
}

// Summary is the confirmation line shown after saving.
func (sw *SavedWorkout) Summary() string {
	return fmt.Sprintf("Saved workout: %s (%s) — estimated %.1f kcal",
		timer.FormatDuration(sw.Workout.DurationSeconds), sw.Intensity.Title(), sw.Workout.Calories)
}

// StartWorkout starts the session's timer.
func (s *Service) StartWorkout(sess *session.Session) error {
	if _, err := sess.User(); err != nil {
		return err
	}
	if err := sess.Timer.Start(); err != nil {
		return err
	}
	s.log.Debug("workout started", zap.String("session", sess.ID.String()))
	return nil
}

// WorkoutStatus reports whether a workout is running and for how long.
func (s *Service) WorkoutStatus(sess *session.Session) (Status, error) {
	if _, err := sess.User(); err != nil {
		return Status{}, err
	}
	return Status{Running: sess.Timer.Running(), ElapsedSeconds: sess.Timer.Elapsed()}, nil
}

// StopTimer stops the session's timer and returns elapsed seconds without
// recording anything. Pair with SaveWorkout when input must be gathered
// after the clock stops.
func (s *Service) StopTimer(sess *session.Session) (int64, error) {
	if _, err := sess.User(); err != nil {
		return 0, err
	}
	secs, err := sess.Timer.Stop()
	if err != nil {
		return 0, err
	}
	s.log.Debug("workout stopped", zap.String("session", sess.ID.String()), zap.Int64("seconds", secs))
	return secs, nil
}

// NeedsWeight reports whether saving a workout would need a fallback weight.
func (s *Service) NeedsWeight(sess *session.Session) (bool, error) {
	user, err := s.Profile(sess)
	if err != nil {
		return false, err
	}
	return (user.WeightKg == nil || *user.WeightKg <= 0) && s.defaultWeight <= 0, nil
}

// SaveWorkout records a stopped session. The profile weight wins over
// fallbackWeight, which wins over the configured default.
func (s *Service) SaveWorkout(sess *session.Session, seconds int64, intensity models.Intensity, fallbackWeight float64, note string) (*SavedWorkout, error) {
	if intensity == models.IntensityNone {
		s.log.Debug("workout discarded", zap.String("session", sess.ID.String()))
		return nil, ErrCancelled
	}
	met := intensity.MET()
	if met <= 0 {
		return nil, fmt.Errorf("%w: unknown intensity %q", ErrInvalidInput, intensity)
	}

	user, err := s.Profile(sess)
	if err != nil {
		return nil, err
	}

	weight := fallbackWeight
	if user.WeightKg != nil && *user.WeightKg > 0 {
		weight = *user.WeightKg
	} else if weight <= 0 {
		weight = s.defaultWeight
	}
	if weight <= 0 {
		return nil, ErrNoWeightAvailable
	}

	calories := timer.EstimateCalories(met, weight, seconds)
	id, err := s.repo.AddWorkout(user.ID, seconds, calories, note)
	if err != nil {
		return nil, err
	}

	workouts, err := s.repo.GetWorkoutsForUser(user.ID)
	if err != nil {
		return nil, err
	}
	saved := &SavedWorkout{Intensity: intensity, WeightKg: weight}
	for _, w := range workouts {
		if w.ID == id {
			saved.Workout = w
			break
		}
	}
	if saved.Workout == nil {
		saved.Workout = models.NewWorkout(user.ID, seconds, calories).WithNote(note)
		saved.Workout.ID = id
	}

	s.log.Info("workout saved",
		zap.String("session", sess.ID.String()),
		zap.Int64("user_id", user.ID),
		zap.Int64("workout_id", id),
		zap.Int64("seconds", seconds),
		zap.String("intensity", string(intensity)),
		zap.Float64("calories", calories))
	return saved, nil
}

// StopWorkout stops the timer, then estimates and records the workout.
// The timer is stopped even when the intensity is cancelled or no weight
// is available; in those cases nothing is recorded.
func (s *Service) StopWorkout(sess *session.Session, intensity models.Intensity, fallbackWeight float64, note string) (*SavedWorkout, error) {
	secs, err := s.StopTimer(sess)
	if err != nil {
		return nil, err
	}
	return s.SaveWorkout(sess, secs, intensity, fallbackWeight, note)
}

// Workouts lists the logged-in user's history, newest first.
func (s *Service) Workouts(sess *session.Session) ([]*models.Workout, error) {
	user, err := sess.User()
	if err != nil {
		return nil, err
	}
	return s.repo.GetWorkoutsForUser(user.ID)
}
