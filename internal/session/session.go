// ABOUTME: Login sessions binding an authenticated user to a workout timer.
// ABOUTME: A Session is passed explicitly to every identity-requiring operation.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/storage"
	"github.com/harperreed/fittrack/internal/timer"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// State is the login state of a session.
type State int

const (
	LoggedOut State = iota
	LoggedInAdmin
	LoggedInUser
)

func (s State) String() string {
	switch s {
	case LoggedInAdmin:
		return "admin"
	case LoggedInUser:
		return "user"
	}
	return "logged out"
}

// UserFinder looks users up in the store.
type UserFinder interface {
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
}

// Session is one logged-in user and their workout timer.
type Session struct {
	ID    uuid.UUID
	Timer *timer.Timer

	mu   sync.RWMutex
	user *models.User
}

// Authenticate checks credentials and returns a new session. Unknown users,
// wrong passwords and empty input all yield ErrInvalidCredentials.
func Authenticate(finder UserFinder, username, password string, clock timer.Clock) (*Session, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := finder.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}

	return New(user, clock), nil
}

// New wraps an already authenticated user.
func New(user *models.User, clock timer.Clock) *Session {
	return &Session{
		ID:    uuid.New(),
		Timer: timer.New(clock),
		user:  user,
	}
}

// State reports whether the session is logged out, admin or user.
func (s *Session) State() State {
	if s == nil {
		return LoggedOut
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.user == nil:
		return LoggedOut
	case s.user.IsAdmin():
		return LoggedInAdmin
	default:
		return LoggedInUser
	}
}

// User returns the current user snapshot or ErrNotLoggedIn.
func (s *Session) User() (*models.User, error) {
	if s == nil {
		return nil, ErrNotLoggedIn
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, ErrNotLoggedIn
	}
	return s.user, nil
}

// Refresh reloads the user snapshot from the store.
func (s *Session) Refresh(finder UserFinder) error {
	current, err := s.User()
	if err != nil {
		return err
	}
	fresh, err := finder.GetUserByID(current.ID)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	s.mu.Lock()
	s.user = fresh
	s.mu.Unlock()
	return nil
}

// Logout ends the session and discards any running workout.
func (s *Session) Logout() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.Timer.Reset()
}
