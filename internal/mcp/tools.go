// ABOUTME: MCP tool implementations for the fitness tracker.
// ABOUTME: Timer, profile, history and admin operations for the bound session.
package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/timer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// whoami
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "whoami",
		Description: "Show the logged-in user, role and profile",
	}, s.handleWhoami)

	// start_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start the workout timer",
	}, s.handleStartWorkout)

	// stop_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "stop_workout",
		Description: "Stop the workout timer and save it with an intensity-based calorie estimate",
	}, s.handleStopWorkout)

	// workout_status
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "workout_status",
		Description: "Report whether the workout timer is running and the elapsed time",
	}, s.handleWorkoutStatus)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recorded workouts, newest first",
	}, s.handleListWorkouts)

	// update_profile
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_profile",
		Description: "Replace height, weight and health notes; omitted fields are cleared",
	}, s.handleUpdateProfile)

	// get_recommendations
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Get BMI-based workout recommendations",
	}, s.handleGetRecommendations)

	// list_instructions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_instructions",
		Description: "List trainer instructions sent to you",
	}, s.handleListInstructions)

	// export_csv
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_csv",
		Description: "Export workout history as CSV, to a file when a path is given",
	}, s.handleExportCSV)
}

func (s *Server) registerAdminTools() {
	// list_users
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_users",
		Description: "List all accounts (admin only)",
	}, s.handleListUsers)

	// send_instruction
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_instruction",
		Description: "Send a trainer instruction to a user (admin only)",
	}, s.handleSendInstruction)

	// delete_user
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_user",
		Description: "Delete a user with all their workouts and instructions (admin only)",
	}, s.handleDeleteUser)
}

// Tool input/output types

type emptyInput struct{}

type simpleOutput struct {
	Message string `json:"message"`
}

type profileOutput struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	HeightCm    *float64 `json:"height_cm,omitempty"`
	WeightKg    *float64 `json:"weight_kg,omitempty"`
	HealthNotes string   `json:"health_notes,omitempty"`
	Session     string   `json:"session,omitempty"`
}

type statusOutput struct {
	Running        bool   `json:"running"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Elapsed        string `json:"elapsed"`
}

type stopWorkoutInput struct {
	Intensity string  `json:"intensity" jsonschema:"Workout intensity: low, moderate or high; empty or cancel discards the session"`
	WeightKg  float64 `json:"weight_kg,omitempty" jsonschema:"Weight in kg, used only when the profile has none"`
	Note      string  `json:"note,omitempty" jsonschema:"Optional note such as morning run"`
}

type workoutItem struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	DurationSeconds int64   `json:"duration_seconds"`
	Duration        string  `json:"duration"`
	Calories        float64 `json:"calories"`
	Note            string  `json:"note,omitempty"`
}

type savedWorkoutOutput struct {
	Workout   workoutItem `json:"workout"`
	Intensity string      `json:"intensity"`
	Message   string      `json:"message"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type listWorkoutsOutput struct {
	Workouts []workoutItem `json:"workouts"`
	Count    int           `json:"count"`
}

type updateProfileInput struct {
	HeightCm *float64 `json:"height_cm,omitempty" jsonschema:"Height in centimetres"`
	WeightKg *float64 `json:"weight_kg,omitempty" jsonschema:"Weight in kilograms"`
	Notes    string   `json:"notes,omitempty" jsonschema:"Health notes such as injuries or conditions"`
}

type recommendationsOutput struct {
	Text string `json:"text"`
}

type instructionItem struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	From string `json:"from"`
	Text string `json:"text"`
}

type listInstructionsOutput struct {
	Instructions []instructionItem `json:"instructions"`
	Count        int               `json:"count"`
}

type exportCSVInput struct {
	Path string `json:"path,omitempty" jsonschema:"File to write; omit to return the CSV text"`
}

type exportCSVOutput struct {
	Path string `json:"path,omitempty"`
	CSV  string `json:"csv,omitempty"`
}

type userItem struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type listUsersOutput struct {
	Users []userItem `json:"users"`
	Count int        `json:"count"`
}

type sendInstructionInput struct {
	Username string `json:"username" jsonschema:"Recipient username"`
	Text     string `json:"text" jsonschema:"Instruction text"`
}

type deleteUserInput struct {
	Username string `json:"username" jsonschema:"Username of the account to delete"`
}

// Tool handlers

func (s *Server) handleWhoami(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, profileOutput, error) {
	user, err := s.svc.Profile(s.sess)
	if err != nil {
		return nil, profileOutput{}, err
	}
	out := toProfileOutput(user)
	out.Session = s.sess.ID.String()
	return nil, out, nil
}

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.svc.StartWorkout(s.sess); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: "Timer started."}, nil
}

func (s *Server) handleStopWorkout(ctx context.Context, req *mcp.CallToolRequest, input stopWorkoutInput) (*mcp.CallToolResult, savedWorkoutOutput, error) {
	intensity, err := models.ParseIntensity(input.Intensity)
	if err != nil {
		return nil, savedWorkoutOutput{}, err
	}

	saved, err := s.svc.StopWorkout(s.sess, intensity, input.WeightKg, input.Note)
	if err != nil {
		return nil, savedWorkoutOutput{}, err
	}

	return nil, savedWorkoutOutput{
		Workout:   toWorkoutItem(saved.Workout),
		Intensity: string(saved.Intensity),
		Message:   saved.Summary(),
	}, nil
}

func (s *Server) handleWorkoutStatus(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statusOutput, error) {
	st, err := s.svc.WorkoutStatus(s.sess)
	if err != nil {
		return nil, statusOutput{}, err
	}
	return nil, statusOutput{
		Running:        st.Running,
		ElapsedSeconds: st.ElapsedSeconds,
		Elapsed:        st.Elapsed(),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	workouts, err := s.svc.Workouts(s.sess)
	if err != nil {
		return nil, listWorkoutsOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(workouts) > input.Limit {
		workouts = workouts[:input.Limit]
	}

	out := listWorkoutsOutput{Workouts: make([]workoutItem, 0, len(workouts))}
	for _, w := range workouts {
		out.Workouts = append(out.Workouts, toWorkoutItem(w))
	}
	out.Count = len(out.Workouts)
	return nil, out, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, req *mcp.CallToolRequest, input updateProfileInput) (*mcp.CallToolResult, profileOutput, error) {
	user, err := s.svc.SaveProfile(s.sess, formatOptional(input.HeightCm), formatOptional(input.WeightKg), input.Notes)
	if err != nil {
		return nil, profileOutput{}, err
	}
	return nil, toProfileOutput(user), nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, recommendationsOutput, error) {
	text, err := s.svc.Recommendations(s.sess)
	if err != nil {
		return nil, recommendationsOutput{}, err
	}
	return nil, recommendationsOutput{Text: text}, nil
}

func (s *Server) handleListInstructions(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, listInstructionsOutput, error) {
	instructions, err := s.svc.Instructions(s.sess)
	if err != nil {
		return nil, listInstructionsOutput{}, fmt.Errorf("failed to list instructions: %w", err)
	}

	out := listInstructionsOutput{Instructions: make([]instructionItem, 0, len(instructions))}
	for _, in := range instructions {
		out.Instructions = append(out.Instructions, instructionItem{
			ID:   in.ID,
			Date: in.Date.Format(models.DateLayout),
			From: in.AdminName,
			Text: in.Text,
		})
	}
	out.Count = len(out.Instructions)
	return nil, out, nil
}

func (s *Server) handleExportCSV(ctx context.Context, req *mcp.CallToolRequest, input exportCSVInput) (*mcp.CallToolResult, exportCSVOutput, error) {
	if input.Path == "" {
		csv, err := s.svc.WorkoutsCSV(s.sess)
		if err != nil {
			return nil, exportCSVOutput{}, err
		}
		return nil, exportCSVOutput{CSV: csv}, nil
	}

	path, err := s.svc.ExportCSV(s.sess, input.Path)
	if err != nil {
		return nil, exportCSVOutput{}, err
	}
	return nil, exportCSVOutput{Path: path}, nil
}

func (s *Server) handleListUsers(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, listUsersOutput, error) {
	users, err := s.svc.ListUsers(s.sess)
	if err != nil {
		return nil, listUsersOutput{}, err
	}

	out := listUsersOutput{Users: make([]userItem, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, userItem{ID: u.ID, Username: u.Username, Role: string(u.Role)})
	}
	out.Count = len(out.Users)
	return nil, out, nil
}

func (s *Server) handleSendInstruction(ctx context.Context, req *mcp.CallToolRequest, input sendInstructionInput) (*mcp.CallToolResult, simpleOutput, error) {
	user, err := s.svc.FindUser(s.sess, input.Username)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("user %s: %w", input.Username, err)
	}
	if _, err := s.svc.SendInstruction(s.sess, user.ID, input.Text); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: "Instruction sent."}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, req *mcp.CallToolRequest, input deleteUserInput) (*mcp.CallToolResult, simpleOutput, error) {
	user, err := s.svc.FindUser(s.sess, input.Username)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("user %s: %w", input.Username, err)
	}
	if err := s.svc.DeleteUser(s.sess, user.ID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted user: %s", user.Username)}, nil
}

func toProfileOutput(u *models.User) profileOutput {
	return profileOutput{
		ID:          u.ID,
		Username:    u.Username,
		Role:        string(u.Role),
		HeightCm:    u.HeightCm,
		WeightKg:    u.WeightKg,
		HealthNotes: u.Notes(),
	}
}

func toWorkoutItem(w *models.Workout) workoutItem {
	return workoutItem{
		ID:              w.ID,
		Date:            w.Date.Format(models.DateLayout),
		DurationSeconds: w.DurationSeconds,
		Duration:        timer.FormatDuration(w.DurationSeconds),
		Calories:        w.Calories,
		Note:            w.NoteText(),
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
