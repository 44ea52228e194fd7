// ABOUTME: Tracker service, the operation surface driven by the CLI, shell and MCP adapters.
// ABOUTME: Applies role checks and input validation before touching the store.
package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/session"
	"github.com/harperreed/fittrack/internal/storage"
	"github.com/harperreed/fittrack/internal/timer"
	"go.uber.org/zap"
)

var (
	ErrNoWeightAvailable = errors.New("no valid weight available to estimate calories")
	ErrMalformedNumber   = errors.New("enter valid numbers for height and weight")
	ErrExportWrite       = errors.New("export failed")
	ErrCancelled         = errors.New("cancelled")
	ErrForbidden         = errors.New("admin role required")
	ErrInvalidInput      = errors.New("invalid input")
)

// Service coordinates sessions, the workout timer and the store.
type Service struct {
	repo          storage.Repository
	log           *zap.Logger
	validate      *validator.Validate
	clock         timer.Clock
	defaultWeight float64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock sets the clock used by session timers.
func WithClock(clock timer.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithDefaultWeight sets the fallback weight used when neither the profile
// nor the caller supplies one. Zero disables it.
func WithDefaultWeight(kg float64) Option {
	return func(s *Service) { s.defaultWeight = kg }
}

// New creates a Service over a repository.
func New(repo storage.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		log:      zap.NewNop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type credentials struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required,max=128"`
}

// Register creates a regular user account. Username and password are trimmed.
func (s *Service) Register(username, password string) (*models.User, error) {
	return s.createUser(username, password, models.RoleUser)
}

// CreateUser lets an admin create an account with any role.
func (s *Service) CreateUser(sess *session.Session, username, password string, role models.Role) (*models.User, error) {
	admin, err := requireAdmin(sess)
	if err != nil {
		return nil, err
	}
	if !models.IsValidRole(string(role)) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	user, err := s.createUser(username, password, role)
	if err != nil {
		return nil, err
	}
	s.log.Info("user created by admin",
		zap.String("session", sess.ID.String()),
		zap.Int64("admin_id", admin.ID),
		zap.Int64("user_id", user.ID),
		zap.String("role", string(role)))
	return user, nil
}

func (s *Service) createUser(username, password string, role models.Role) (*models.User, error) {
	in := credentials{Username: strings.TrimSpace(username), Password: strings.TrimSpace(password)}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	id, err := s.repo.CreateUser(in.Username, in.Password, role)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Int64("user_id", id), zap.String("username", in.Username))
	return s.repo.GetUserByID(id)
}

// Login authenticates and returns a fresh session.
func (s *Service) Login(username, password string) (*session.Session, error) {
	sess, err := session.Authenticate(s.repo, strings.TrimSpace(username), strings.TrimSpace(password), s.clock)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			s.log.Warn("login failed", zap.String("username", username))
		}
		return nil, err
	}
	user, _ := sess.User()
	s.log.Info("login",
		zap.String("session", sess.ID.String()),
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return sess, nil
}

// Logout ends the session. A running workout is discarded.
func (s *Service) Logout(sess *session.Session) {
	if sess.State() == session.LoggedOut {
		return
	}
	if sess.Timer.Running() {
		s.log.Info("discarding running workout on logout", zap.String("session", sess.ID.String()))
	}
	sess.Logout()
	s.log.Info("logout", zap.String("session", sess.ID.String()))
}

// ListUsers returns every account, newest first.
func (s *Service) ListUsers(sess *session.Session) ([]*models.User, error) {
	if _, err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.repo.ListUsers()
}

// FindUser looks an account up by username.
func (s *Service) FindUser(sess *session.Session, username string) (*models.User, error) {
	if _, err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.repo.GetUserByUsername(strings.TrimSpace(username))
}

// DeleteUser removes an account and everything attached to it.
// Admins cannot delete themselves.
func (s *Service) DeleteUser(sess *session.Session, userID int64) error {
	admin, err := requireAdmin(sess)
	if err != nil {
		return err
	}
	if admin.ID == userID {
		return fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
	}
	if err := s.repo.DeleteUser(userID); err != nil {
		return err
	}
	s.log.Info("user deleted",
		zap.String("session", sess.ID.String()),
		zap.Int64("admin_id", admin.ID),
		zap.Int64("user_id", userID))
	return nil
}

// SendInstruction stores a trainer message for a user.
func (s *Service) SendInstruction(sess *session.Session, userID int64, text string) (int64, error) {
	admin, err := requireAdmin(sess)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.AddInstruction(userID, admin.ID, strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	s.log.Info("instruction sent",
		zap.String("session", sess.ID.String()),
		zap.Int64("admin_id", admin.ID),
		zap.Int64("user_id", userID),
		zap.Int64("instruction_id", id))
	return id, nil
}

// SentInstructions lists messages written by the logged-in admin.
func (s *Service) SentInstructions(sess *session.Session) ([]*models.Instruction, error) {
	admin, err := requireAdmin(sess)
	if err != nil {
		return nil, err
	}
	return s.repo.GetInstructionsByAdmin(admin.ID)
}

// Instructions lists messages addressed to the logged-in user.
func (s *Service) Instructions(sess *session.Session) ([]*models.Instruction, error) {
	user, err := sess.User()
	if err != nil {
		return nil, err
	}
	return s.repo.GetInstructionsForUser(user.ID)
}

func requireAdmin(sess *session.Session) (*models.User, error) {
	user, err := sess.User()
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrForbidden
	}
	return user, nil
}
