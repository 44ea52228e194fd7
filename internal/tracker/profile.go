// ABOUTME: Profile editing and recommendations for the tracker service.
// ABOUTME: Numeric fields arrive as text and are parsed before the store is touched.
package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/recommend"
	"github.com/harperreed/fittrack/internal/session"
	"go.uber.org/zap"
)

type profileInput struct {
	HeightCm *float64 `validate:"omitempty,gt=0"`
	WeightKg *float64 `validate:"omitempty,gt=0"`
}

// ParseProfile converts height and weight text into optional values.
// Blank text means unset.
func (s *Service) ParseProfile(height, weight string) (*float64, *float64, error) {
	h, err := parseOptionalFloat(height)
	if err != nil {
		return nil, nil, err
	}
	w, err := parseOptionalFloat(weight)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validate.Struct(profileInput{HeightCm: h, WeightKg: w}); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return h, w, nil
}

func parseOptionalFloat(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, text)
	}
	return &v, nil
}

// Profile returns the logged-in user's current record.
func (s *Service) Profile(sess *session.Session) (*models.User, error) {
	if err := sess.Refresh(s.repo); err != nil {
		return nil, err
	}
	return sess.User()
}

// SaveProfile replaces the logged-in user's height, weight and notes.
func (s *Service) SaveProfile(sess *session.Session, height, weight, notes string) (*models.User, error) {
	user, err := sess.User()
	if err != nil {
		return nil, err
	}
	if err := s.updateProfile(user.ID, height, weight, notes); err != nil {
		return nil, err
	}
	s.log.Info("profile saved", zap.String("session", sess.ID.String()), zap.Int64("user_id", user.ID))
	return s.Profile(sess)
}

// EditUserProfile lets an admin replace another user's profile.
func (s *Service) EditUserProfile(sess *session.Session, userID int64, height, weight, notes string) (*models.User, error) {
	admin, err := requireAdmin(sess)
	if err != nil {
		return nil, err
	}
	if err := s.updateProfile(userID, height, weight, notes); err != nil {
		return nil, err
	}
	s.log.Info("profile edited by admin",
		zap.String("session", sess.ID.String()),
		zap.Int64("admin_id", admin.ID),
		zap.Int64("user_id", userID))
	if admin.ID == userID {
		if err := sess.Refresh(s.repo); err != nil {
			return nil, err
		}
	}
	return s.repo.GetUserByID(userID)
}

func (s *Service) updateProfile(userID int64, height, weight, notes string) error {
	h, w, err := s.ParseProfile(height, weight)
	if err != nil {
		return err
	}
	return s.repo.UpdateProfile(userID, h, w, strings.TrimSpace(notes))
}

// Recommendations returns BMI-based advice for the logged-in user.
func (s *Service) Recommendations(sess *session.Session) (string, error) {
	user, err := s.Profile(sess)
	if err != nil {
		return "", err
	}
	return recommend.Recommend(user.HeightCm, user.WeightKg, user.Notes()), nil
}
