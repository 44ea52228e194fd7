// ABOUTME: Interactive shell holding one login session and its workout timer.
// ABOUTME: Reads line commands from stdin so start/stop can span real time.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/session"
	"github.com/harperreed/fittrack/internal/timer"
	"github.com/harperreed/fittrack/internal/tracker"
	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  login <username> <password>   Log in
  register <username> <password> Create an account
  logout                        Log out (a running timer is discarded)
  whoami                        Show the current account
  start                         Start the workout timer
  status                        Show elapsed time
  stop                          Stop the timer and record the workout
  workouts                      List your workouts
  profile                       Show your profile
  profile set                   Edit height, weight and notes
  recommend                     BMI and advice
  instructions                  Instructions from your trainer
  export [path]                 Write your workouts as CSV
  help                          Show this help
  quit                          Leave the shell

Admin:
  users                         List accounts
  adduser <username> <password> [admin]
  edit <username>               Edit a user's profile
  delete <username>             Delete a user and their data
  instruct <username> <text>    Send an instruction
  sent                          Instructions you sent`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session with a workout timer",
	Long: `Start an interactive session. Log in, start a workout, and stop it when
you are done; the elapsed time, your intensity and your weight give the
calorie estimate.

If --username/--password are given the shell logs in right away.

` + shellHelp,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := newShell(svc, cmd.InOrStdin(), cmd.OutOrStdout())
		if user, pass := credentials(); user != "" && pass != "" {
			sh.login([]string{user, pass})
		}
		return sh.run()
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

type shell struct {
	svc  *tracker.Service
	in   *bufio.Scanner
	out  io.Writer
	sess *session.Session
	done bool
}

func newShell(svc *tracker.Service, in io.Reader, out io.Writer) *shell {
	return &shell{svc: svc, in: bufio.NewScanner(in), out: out}
}

func (sh *shell) prompt() string {
	user, err := sh.sess.User()
	if err != nil {
		return "fittrack> "
	}
	if sh.sess.Timer.Running() {
		return fmt.Sprintf("fittrack(%s %s)> ", user.Username, timer.FormatDuration(sh.sess.Timer.Elapsed()))
	}
	return fmt.Sprintf("fittrack(%s)> ", user.Username)
}

func (sh *shell) run() error {
	fmt.Fprintln(sh.out, "Fitness Tracker. Type 'help' for commands.")
	for !sh.done {
		fmt.Fprint(sh.out, sh.prompt())
		if !sh.in.Scan() {
			break
		}
		line := strings.TrimSpace(sh.in.Text())
		if line == "" {
			continue
		}
		sh.dispatch(line)
	}
	sh.svc.Logout(sh.sess)
	return sh.in.Err()
}

// ask prints a question and reads one line. ok is false at end of input.
func (sh *shell) ask(question string) (string, bool) {
	fmt.Fprint(sh.out, question)
	if !sh.in.Scan() {
		fmt.Fprintln(sh.out)
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *shell) fail(err error) {
	warn.Fprintf(sh.out, "%v\n", err)
}

// splitArgs splits off up to n-1 leading words; the last element is the
// rest of the line with its inner whitespace intact.
func splitArgs(line string, n int) []string {
	var args []string
	rest := strings.TrimSpace(line)
	for len(args) < n-1 && rest != "" {
		i := strings.IndexFunc(rest, unicode.IsSpace)
		if i < 0 {
			break
		}
		args = append(args, rest[:i])
		rest = strings.TrimLeftFunc(rest[i:], unicode.IsSpace)
	}
	if rest != "" {
		args = append(args, rest)
	}
	return args
}

func (sh *shell) dispatch(line string) {
	head := splitArgs(line, 2)
	if len(head) == 0 {
		return
	}
	name, rest := strings.ToLower(head[0]), ""
	if len(head) > 1 {
		rest = head[1]
	}
	args := strings.Fields(rest)
	// Passwords and instruction text keep their inner whitespace
	switch name {
	case "login", "register", "instruct":
		args = splitArgs(rest, 2)
	}

	switch name {
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return
	case "quit", "exit":
		sh.done = true
		return
	case "login":
		sh.login(args)
		return
	case "register":
		sh.register(args)
		return
	}

	if sh.sess.State() == session.LoggedOut {
		sh.fail(session.ErrNotLoggedIn)
		return
	}

	switch name {
	case "logout":
		sh.svc.Logout(sh.sess)
		sh.sess = nil
		fmt.Fprintln(sh.out, "Logged out.")
	case "whoami":
		user, _ := sh.sess.User()
		fmt.Fprintf(sh.out, "%s (%s)\n", user.Username, sh.sess.State())
	case "start":
		sh.start()
	case "status":
		sh.status()
	case "stop":
		sh.stop()
	case "workouts", "history":
		sh.workouts()
	case "profile":
		if len(args) > 0 && args[0] == "set" {
			sh.profileSet()
		} else {
			sh.profileShow()
		}
	case "recommend":
		sh.recommend()
	case "instructions":
		sh.instructions()
	case "export":
		sh.export(args)
	case "users":
		sh.users()
	case "adduser":
		sh.addUser(args)
	case "edit":
		sh.editUser(args)
	case "delete":
		sh.deleteUser(args)
	case "instruct":
		sh.instruct(args)
	case "sent":
		sh.sent()
	default:
		sh.fail(fmt.Errorf("unknown command: %s (type 'help')", name))
	}
}

func (sh *shell) login(args []string) {
	if len(args) != 2 {
		sh.fail(errors.New("enter username and password"))
		return
	}
	if sh.sess.State() != session.LoggedOut {
		sh.svc.Logout(sh.sess)
	}
	sess, err := sh.svc.Login(args[0], args[1])
	if err != nil {
		sh.sess = nil
		sh.fail(err)
		return
	}
	sh.sess = sess
	user, _ := sess.User()
	if sess.State() == session.LoggedInAdmin {
		green.Fprintf(sh.out, "Logged in as admin: %s\n", user.Username)
	} else {
		green.Fprintf(sh.out, "Logged in as user: %s\n", user.Username)
	}
}

func (sh *shell) register(args []string) {
	if len(args) != 2 {
		sh.fail(errors.New("enter username & password"))
		return
	}
	user, err := sh.svc.Register(args[0], args[1])
	if err != nil {
		sh.fail(fmt.Errorf("unable to create user: %w", err))
		return
	}
	green.Fprintf(sh.out, "User created: %s (id=%d)\n", user.Username, user.ID)
}

func (sh *shell) start() {
	if err := sh.svc.StartWorkout(sh.sess); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, "Timer started. Type 'stop' when you finish.")
}

func (sh *shell) status() {
	st, err := sh.svc.WorkoutStatus(sh.sess)
	if err != nil {
		sh.fail(err)
		return
	}
	if !st.Running {
		fmt.Fprintln(sh.out, "Timer: stopped")
		return
	}
	fmt.Fprintf(sh.out, "Timer: %s\n", st.Elapsed())
}

// stop freezes the clock first so time spent answering prompts is not counted.
func (sh *shell) stop() {
	secs, err := sh.svc.StopTimer(sh.sess)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Stopped at %s\n", timer.FormatDuration(secs))

	fmt.Fprintln(sh.out, "Choose intensity to estimate calories burned:")
	for i, level := range models.AllIntensities {
		fmt.Fprintf(sh.out, "  %d) %s\n", i+1, models.IntensityLabels[level])
	}
	answer, ok := sh.ask("Intensity [1-3, cancel] (2): ")
	if !ok {
		sh.fail(tracker.ErrCancelled)
		return
	}
	intensity := models.IntensityModerate
	if answer != "" {
		intensity, err = models.ParseIntensity(answer)
		if err != nil {
			sh.fail(err)
			return
		}
		if intensity == models.IntensityNone {
			fmt.Fprintln(sh.out, "Workout discarded.")
			return
		}
	}

	fallback := 0.0
	needsWeight, err := sh.svc.NeedsWeight(sh.sess)
	if err != nil {
		sh.fail(err)
		return
	}
	if needsWeight {
		answer, _ := sh.ask("Enter your weight in kg for calorie estimate: ")
		fallback, err = strconv.ParseFloat(answer, 64)
		if err != nil {
			fallback = -1
		}
	}

	note, _ := sh.ask("Optional note for this workout (e.g., 'morning run'): ")

	saved, err := sh.svc.SaveWorkout(sh.sess, secs, intensity, fallback, note)
	if err != nil {
		sh.fail(err)
		return
	}
	green.Fprintln(sh.out, saved.Summary())
}

func (sh *shell) workouts() {
	list, err := sh.svc.Workouts(sh.sess)
	if err != nil {
		sh.fail(err)
		return
	}
	printWorkouts(sh.out, list)
}

func (sh *shell) profileShow() {
	user, err := sh.svc.Profile(sh.sess)
	if err != nil {
		sh.fail(errors.New("couldn't load your profile"))
		return
	}
	printProfile(sh.out, user)
}

// askProfile prompts for each field showing the current value. Enter keeps
// it and "-" clears it.
func (sh *shell) askProfile(current *models.User) (string, string, string) {
	field := func(label, value string) string {
		answer, ok := sh.ask(fmt.Sprintf("%s [%s]: ", label, value))
		switch {
		case !ok || answer == "":
			return value
		case answer == "-":
			return ""
		}
		return answer
	}
	h := field("Height (cm)", formatNumber(current.HeightCm))
	w := field("Weight (kg)", formatNumber(current.WeightKg))
	notes := field("Health notes", current.Notes())
	return h, w, notes
}

func (sh *shell) profileSet() {
	current, err := sh.svc.Profile(sh.sess)
	if err != nil {
		sh.fail(errors.New("couldn't load your profile"))
		return
	}
	h, w, notes := sh.askProfile(current)
	if _, err := sh.svc.SaveProfile(sh.sess, h, w, notes); err != nil {
		sh.fail(err)
		return
	}
	green.Fprintln(sh.out, "Profile saved.")
}

func (sh *shell) recommend() {
	text, err := sh.svc.Recommendations(sh.sess)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprint(sh.out, text)
}

func (sh *shell) instructions() {
	list, err := sh.svc.Instructions(sh.sess)
	if err != nil {
		sh.fail(err)
		return
	}
	printInstructions(sh.out, list)
}

func (sh *shell) export(args []string) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := sh.svc.ExportCSV(sh.sess, path)
	if err != nil {
		sh.fail(err)
		return
	}
	green.Fprintf(sh.out, "Exported to %s\n", abs)
}

func (sh *shell) users() {
	list, err := sh.svc.ListUsers(sh.sess)
	if err != nil {
		sh.fail(err)
		return
	}
	printUsers(sh.out, list)
}

func (sh *shell) addUser(args []string) {
	if len(args) < 2 {
		sh.fail(errors.New("enter username & password"))
		return
	}
	role := models.RoleUser
	if len(args) > 2 && strings.EqualFold(args[2], "admin") {
		role = models.RoleAdmin
	}
	user, err := sh.svc.CreateUser(sh.sess, args[0], args[1], role)
	if err != nil {
		sh.fail(fmt.Errorf("unable to create user: %w", err))
		return
	}
	green.Fprintf(sh.out, "User created: %s (id=%d)\n", user.Username, user.ID)
}

func (sh *shell) target(args []string) (*models.User, bool) {
	if len(args) == 0 {
		sh.fail(errors.New("select a user first"))
		return nil, false
	}
	user, err := sh.svc.FindUser(sh.sess, args[0])
	if err != nil {
		if errors.Is(err, tracker.ErrForbidden) {
			sh.fail(err)
		} else {
			sh.fail(errors.New("user not found"))
		}
		return nil, false
	}
	return user, true
}

func (sh *shell) editUser(args []string) {
	user, ok := sh.target(args)
	if !ok {
		return
	}
	fmt.Fprintf(sh.out, "Edit Profile for %s\n", user.Username)
	h, w, notes := sh.askProfile(user)
	if _, err := sh.svc.EditUserProfile(sh.sess, user.ID, h, w, notes); err != nil {
		sh.fail(err)
		return
	}
	green.Fprintln(sh.out, "Profile updated.")
}

func (sh *shell) deleteUser(args []string) {
	user, ok := sh.target(args)
	if !ok {
		return
	}
	answer, _ := sh.ask(fmt.Sprintf("Delete user id=%d ? This will remove their data. [y/N] ", user.ID))
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		fmt.Fprintln(sh.out, "Aborted.")
		return
	}
	if err := sh.svc.DeleteUser(sh.sess, user.ID); err != nil {
		sh.fail(fmt.Errorf("delete failed: %w", err))
		return
	}
	green.Fprintln(sh.out, "User deleted.")
}

func (sh *shell) instruct(args []string) {
	user, ok := sh.target(args)
	if !ok {
		return
	}
	text := ""
	if len(args) > 1 {
		text = args[1]
	}
	if strings.TrimSpace(text) == "" {
		sh.fail(errors.New("enter instruction text"))
		return
	}
	if _, err := sh.svc.SendInstruction(sh.sess, user.ID, text); err != nil {
		sh.fail(err)
		return
	}
	green.Fprintln(sh.out, "Instruction sent.")
}

func (sh *shell) sent() {
	list, err := sh.svc.SentInstructions(sh.sess)
	if err != nil {
		sh.fail(err)
		return
	}
	printInstructions(sh.out, list)
}
