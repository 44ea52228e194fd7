// ABOUTME: MCP resource implementations for the fitness tracker.
// ABOUTME: Provides fittrack://workouts/recent and fittrack://profile resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/fittrack/internal/recommend"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentWorkoutsURI = "fittrack://workouts/recent"
	profileURI        = "fittrack://profile"
	recentLimit       = 10
)

func (s *Server) registerResources() {
	// fittrack://workouts/recent - Last 10 workouts
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentWorkoutsURI,
		Name:        "Recent Workouts",
		Description: "Last 10 recorded workouts",
		MIMEType:    "application/json",
	}, s.handleRecentWorkoutsResource)

	// fittrack://profile - Profile with BMI and recommendations
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         profileURI,
		Name:        "Profile",
		Description: "Height, weight, notes, BMI band and recommendations",
		MIMEType:    "application/json",
	}, s.handleProfileResource)
}

// Resource handlers

func (s *Server) handleRecentWorkoutsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts, err := s.svc.Workouts(s.sess)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(workouts) > recentLimit {
		workouts = workouts[:recentLimit]
	}

	items := make([]workoutItem, 0, len(workouts))
	var totalSeconds int64
	var totalCalories float64
	for _, w := range workouts {
		items = append(items, toWorkoutItem(w))
		totalSeconds += w.DurationSeconds
		totalCalories += w.Calories
	}

	result := map[string]interface{}{
		"workouts": items,
		"totals": map[string]interface{}{
			"count":            len(items),
			"duration_seconds": totalSeconds,
			"calories":         totalCalories,
		},
	}

	return jsonResource(recentWorkoutsURI, result)
}

func (s *Server) handleProfileResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	user, err := s.svc.Profile(s.sess)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	result := map[string]interface{}{
		"profile":         toProfileOutput(user),
		"recommendations": recommend.Recommend(user.HeightCm, user.WeightKg, user.Notes()),
	}
	if user.HeightCm != nil && user.WeightKg != nil && *user.HeightCm > 0 {
		bmi := recommend.BMI(*user.HeightCm, *user.WeightKg)
		result["bmi"] = bmi
		result["band"] = recommend.Classify(bmi).String()
	}

	return jsonResource(profileURI, result)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
