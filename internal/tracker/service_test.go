// ABOUTME: Tests for the tracker service against a real SQLite store.
// ABOUTME: A manual clock drives the workout timer.
package tracker

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/session"
	"github.com/harperreed/fittrack/internal/storage"
	"github.com/harperreed/fittrack/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupService(t *testing.T, opts ...Option) (*Service, *storage.DB, *manualClock) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &manualClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(db, opts...), db, clock
}

func loginAdmin(t *testing.T, svc *Service) *session.Session {
	t.Helper()
	sess, err := svc.Login("admin", "admin123")
	require.NoError(t, err)
	return sess
}

func registerAndLogin(t *testing.T, svc *Service, username string) *session.Session {
	t.Helper()
	_, err := svc.Register(username, "pw")
	require.NoError(t, err)
	sess, err := svc.Login(username, "pw")
	require.NoError(t, err)
	return sess
}

func TestRegister(t *testing.T) {
	svc, _, _ := setupService(t)

	u, err := svc.Register("  sam ", " pw ")
	require.NoError(t, err)
	assert.Equal(t, "sam", u.Username)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = svc.Register("sam", "other")
	assert.ErrorIs(t, err, storage.ErrDuplicateUsername)

	_, err = svc.Register("", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register("kim", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginStates(t *testing.T) {
	svc, _, _ := setupService(t)

	admin := loginAdmin(t, svc)
	assert.Equal(t, session.LoggedInAdmin, admin.State())

	user := registerAndLogin(t, svc, "sam")
	assert.Equal(t, session.LoggedInUser, user.State())

	_, err := svc.Login("sam", "wrong")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	_, err = svc.Login("", "")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
}

func TestLogoutDiscardsTimer(t *testing.T) {
	svc, db, clock := setupService(t, WithDefaultWeight(70))
	sess := registerAndLogin(t, svc, "sam")

	require.NoError(t, svc.StartWorkout(sess))
	clock.Advance(10 * time.Minute)
	svc.Logout(sess)

	assert.Equal(t, session.LoggedOut, sess.State())
	_, err := svc.StopWorkout(sess, models.IntensityLow, 0, "")
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)

	u, _ := db.GetUserByUsername("sam")
	workouts, _ := db.GetWorkoutsForUser(u.ID)
	assert.Empty(t, workouts)
}

func TestAdminOnlyOperations(t *testing.T) {
	svc, _, _ := setupService(t)
	user := registerAndLogin(t, svc, "sam")

	_, err := svc.ListUsers(user)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteUser(user, 1), ErrForbidden)
	_, err = svc.SendInstruction(user, 1, "hi")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.EditUserProfile(user, 1, "180", "80", "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateUser(user, "kim", "pw", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	var nobody *session.Session
	_, err = svc.ListUsers(nobody)
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestAdminCreateListDelete(t *testing.T) {
	svc, db, _ := setupService(t)
	admin := loginAdmin(t, svc)

	coach, err := svc.CreateUser(admin, "coach", "pw", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, coach.IsAdmin())

	_, err = svc.CreateUser(admin, "x", "pw", models.Role("owner"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	sam := registerAndLogin(t, svc, "sam")
	samUser, _ := sam.User()

	users, err := svc.ListUsers(admin)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "sam", users[0].Username)

	found, err := svc.FindUser(admin, "sam")
	require.NoError(t, err)
	assert.Equal(t, samUser.ID, found.ID)

	_, err = svc.SendInstruction(admin, samUser.ID, "  warm up first  ")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(admin, samUser.ID))
	_, err = db.GetUserByID(samUser.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteUser(admin, samUser.ID), storage.ErrNotFound)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	svc, db, _ := setupService(t)
	admin := loginAdmin(t, svc)
	me, _ := admin.User()

	assert.ErrorIs(t, svc.DeleteUser(admin, me.ID), ErrForbidden)
	_, err := db.GetUserByID(me.ID)
	assert.NoError(t, err)
}

func TestInstructions(t *testing.T) {
	svc, _, _ := setupService(t)
	admin := loginAdmin(t, svc)
	sam := registerAndLogin(t, svc, "sam")
	samUser, _ := sam.User()

	_, err := svc.SendInstruction(admin, samUser.ID, "  warm up first  ")
	require.NoError(t, err)
	_, err = svc.SendInstruction(admin, samUser.ID, "   ")
	assert.ErrorIs(t, err, storage.ErrEmptyInstruction)
	_, err = svc.SendInstruction(admin, 9999, "hi")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err := svc.Instructions(sam)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "warm up first", list[0].Text)
	assert.Equal(t, "admin", list[0].AdminName)

	sent, err := svc.SentInstructions(admin)
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}

func TestSaveProfile(t *testing.T) {
	svc, _, _ := setupService(t)
	sess := registerAndLogin(t, svc, "sam")

	u, err := svc.SaveProfile(sess, "170", " 70.5 ", " asthma ")
	require.NoError(t, err)
	require.NotNil(t, u.HeightCm)
	require.NotNil(t, u.WeightKg)
	assert.Equal(t, 170.0, *u.HeightCm)
	assert.Equal(t, 70.5, *u.WeightKg)
	assert.Equal(t, "asthma", u.Notes())

	// Session snapshot follows the store
	snap, _ := sess.User()
	assert.Equal(t, 70.5, *snap.WeightKg)

	u, err = svc.SaveProfile(sess, "", "", "")
	require.NoError(t, err)
	assert.Nil(t, u.HeightCm)
	assert.Nil(t, u.WeightKg)
	assert.Nil(t, u.HealthNotes)
}

func TestSaveProfileMalformed(t *testing.T) {
	svc, db, _ := setupService(t)
	sess := registerAndLogin(t, svc, "sam")
	_, err := svc.SaveProfile(sess, "170", "70", "ok")
	require.NoError(t, err)

	tests := []struct {
		name    string
		height  string
		weight  string
		wantErr error
	}{
		{"text height", "tall", "70", ErrMalformedNumber},
		{"text weight", "170", "7o", ErrMalformedNumber},
		{"zero weight", "170", "0", ErrInvalidInput},
		{"negative height", "-1", "70", ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveProfile(sess, tt.height, tt.weight, "changed")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Failed saves never reach the store
	u, _ := db.GetUserByUsername("sam")
	assert.Equal(t, "ok", u.Notes())
	assert.Equal(t, 70.0, *u.WeightKg)
}

func TestEditUserProfile(t *testing.T) {
	svc, _, _ := setupService(t)
	admin := loginAdmin(t, svc)
	sam := registerAndLogin(t, svc, "sam")
	samUser, _ := sam.User()

	u, err := svc.EditUserProfile(admin, samUser.ID, "180", "90", "coach note")
	require.NoError(t, err)
	assert.Equal(t, 90.0, *u.WeightKg)

	_, err = svc.EditUserProfile(admin, 9999, "180", "90", "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecommendations(t *testing.T) {
	svc, _, _ := setupService(t)
	sess := registerAndLogin(t, svc, "sam")

	text, err := svc.Recommendations(sess)
	require.NoError(t, err)
	assert.Equal(t, "Set your height and weight to get personalized recommendations.\n", text)

	_, err = svc.SaveProfile(sess, "170", "70", "")
	require.NoError(t, err)
	text, err = svc.Recommendations(sess)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Your BMI: 24.2\nNormal weight"))
}

func TestWorkoutLifecycle(t *testing.T) {
	svc, _, clock := setupService(t)
	sess := registerAndLogin(t, svc, "sam")
	_, err := svc.SaveProfile(sess, "180", "80", "")
	require.NoError(t, err)

	require.NoError(t, svc.StartWorkout(sess))
	assert.ErrorIs(t, svc.StartWorkout(sess), timer.ErrAlreadyRunning)

	clock.Advance(15 * time.Minute)
	st, err := svc.WorkoutStatus(sess)
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, "00:15:00", st.Elapsed())

	clock.Advance(15 * time.Minute)
	saved, err := svc.StopWorkout(sess, models.IntensityModerate, 0, "tempo")
	require.NoError(t, err)
	assert.Equal(t, int64(1800), saved.Workout.DurationSeconds)
	assert.InDelta(t, 240.0, saved.Workout.Calories, 1e-9)
	assert.Equal(t, "tempo", saved.Workout.NoteText())
	assert.Equal(t, "Saved workout: 00:30:00 (Moderate) — estimated 240.0 kcal", saved.Summary())

	st, _ = svc.WorkoutStatus(sess)
	assert.False(t, st.Running)

	workouts, err := svc.Workouts(sess)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, saved.Workout.ID, workouts[0].ID)
}

func TestStopWhileIdle(t *testing.T) {
	svc, _, _ := setupService(t)
	sess := registerAndLogin(t, svc, "sam")

	_, err := svc.StopWorkout(sess, models.IntensityHigh, 80, "")
	assert.ErrorIs(t, err, timer.ErrNotRunning)
}

func TestStopCancelled(t *testing.T) {
	svc, _, clock := setupService(t)
	sess := registerAndLogin(t, svc, "sam")

	require.NoError(t, svc.StartWorkout(sess))
	clock.Advance(time.Minute)
	_, err := svc.StopWorkout(sess, models.IntensityNone, 80, "")
	assert.ErrorIs(t, err, ErrCancelled)
	assert.False(t, sess.Timer.Running())

	workouts, _ := svc.Workouts(sess)
	assert.Empty(t, workouts)
}

func TestStopWeightResolution(t *testing.T) {
	t.Run("no weight anywhere", func(t *testing.T) {
		svc, _, clock := setupService(t)
		sess := registerAndLogin(t, svc, "sam")
		need, err := svc.NeedsWeight(sess)
		require.NoError(t, err)
		assert.True(t, need)

		require.NoError(t, svc.StartWorkout(sess))
		clock.Advance(time.Hour)
		_, err = svc.StopWorkout(sess, models.IntensityLow, -3, "")
		assert.ErrorIs(t, err, ErrNoWeightAvailable)
		assert.False(t, sess.Timer.Running())

		workouts, _ := svc.Workouts(sess)
		assert.Empty(t, workouts)
	})

	t.Run("fallback used without profile weight", func(t *testing.T) {
		svc, _, clock := setupService(t)
		sess := registerAndLogin(t, svc, "sam")
		require.NoError(t, svc.StartWorkout(sess))
		clock.Advance(time.Hour)
		saved, err := svc.StopWorkout(sess, models.IntensityLow, 60, "")
		require.NoError(t, err)
		assert.InDelta(t, 210.0, saved.Workout.Calories, 1e-9)
	})

	t.Run("profile weight wins over fallback", func(t *testing.T) {
		svc, _, clock := setupService(t)
		sess := registerAndLogin(t, svc, "sam")
		_, err := svc.SaveProfile(sess, "", "100", "")
		require.NoError(t, err)
		require.NoError(t, svc.StartWorkout(sess))
		clock.Advance(time.Hour)
		saved, err := svc.StopWorkout(sess, models.IntensityHigh, 50, "")
		require.NoError(t, err)
		assert.InDelta(t, 800.0, saved.Workout.Calories, 1e-9)
		assert.Equal(t, 100.0, saved.WeightKg)
	})

	t.Run("non-positive stored weight falls back", func(t *testing.T) {
		svc, db, clock := setupService(t)
		svc.repo = zeroWeightRepo{db}
		sess := registerAndLogin(t, svc, "sam")
		need, err := svc.NeedsWeight(sess)
		require.NoError(t, err)
		assert.True(t, need)

		require.NoError(t, svc.StartWorkout(sess))
		clock.Advance(time.Hour)
		saved, err := svc.StopWorkout(sess, models.IntensityLow, 80, "")
		require.NoError(t, err)
		assert.Equal(t, 80.0, saved.WeightKg)
		assert.InDelta(t, 280.0, saved.Workout.Calories, 1e-9)
	})

	t.Run("configured default", func(t *testing.T) {
		svc, _, clock := setupService(t, WithDefaultWeight(70))
		sess := registerAndLogin(t, svc, "sam")
		need, _ := svc.NeedsWeight(sess)
		assert.False(t, need)
		require.NoError(t, svc.StartWorkout(sess))
		clock.Advance(30 * time.Minute)
		saved, err := svc.StopWorkout(sess, models.IntensityModerate, 0, "")
		require.NoError(t, err)
		assert.InDelta(t, 210.0, saved.Workout.Calories, 1e-9)
	})
}

// zeroWeightRepo reports a stored weight of 0 for every user.
type zeroWeightRepo struct {
	*storage.DB
}

func (r zeroWeightRepo) GetUserByID(id int64) (*models.User, error) {
	u, err := r.DB.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	zero := 0.0
	u.WeightKg = &zero
	return u, nil
}

func TestSplitStopAndSave(t *testing.T) {
	svc, _, clock := setupService(t)
	sess := registerAndLogin(t, svc, "sam")

	require.NoError(t, svc.StartWorkout(sess))
	clock.Advance(20 * time.Minute)
	secs, err := svc.StopTimer(sess)
	require.NoError(t, err)

	// Time spent answering prompts is not counted
	clock.Advance(5 * time.Minute)
	saved, err := svc.SaveWorkout(sess, secs, models.IntensityHigh, 75, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), saved.Workout.DurationSeconds)
	assert.InDelta(t, 200.0, saved.Workout.Calories, 1e-9)
}

func TestExportCSV(t *testing.T) {
	svc, _, clock := setupService(t, WithDefaultWeight(80))
	sess := registerAndLogin(t, svc, "sam")
	require.NoError(t, svc.StartWorkout(sess))
	clock.Advance(30 * time.Minute)
	_, err := svc.StopWorkout(sess, models.IntensityModerate, 0, `the "long" one`)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	written, err := svc.ExportCSV(sess, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, storage.CSVHeader, lines[0])
	assert.True(t, strings.HasSuffix(lines[1], `,1800,240.00,"the ""long"" one"`), lines[1])
}

func TestExportCSVDefaultName(t *testing.T) {
	svc, _, _ := setupService(t)
	sess := registerAndLogin(t, svc, "sam")

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	written, err := svc.ExportCSV(sess, "")
	require.NoError(t, err)
	assert.Equal(t, "workouts_sam.csv", filepath.Base(written))

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, storage.CSVHeader+"\n", string(data))
}

func TestExportCSVWriteFailure(t *testing.T) {
	svc, _, _ := setupService(t)
	sess := registerAndLogin(t, svc, "sam")

	_, err := svc.ExportCSV(sess, filepath.Join(t.TempDir(), "missing", "dir", "out.csv"))
	assert.ErrorIs(t, err, ErrExportWrite)
}
