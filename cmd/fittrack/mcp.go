// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server acting as the logged-in user.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fittrack/internal/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server logs in once with --username/--password (or FITTRACK_USERNAME and
FITTRACK_PASSWORD) and acts as that user. It communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "fittrack": {
        "command": "fittrack",
        "args": ["mcp"],
        "env": {
          "FITTRACK_USERNAME": "sam",
          "FITTRACK_PASSWORD": "s3cret"
        }
      }
    }
  }

AVAILABLE TOOLS:

  whoami               Show the logged-in account
  start_workout        Start the workout timer
  workout_status       Elapsed time of the running workout
  stop_workout         Stop the timer and record the workout
  list_workouts        Workout history
  update_profile       Set height, weight and health notes
  get_recommendations  BMI and advice
  list_instructions    Instructions from your trainer
  export_csv           Write your history to a CSV file

ADMIN TOOLS:

  list_users           List accounts
  send_instruction     Send an instruction to a user
  delete_user          Delete an account and its data

AVAILABLE RESOURCES:

  fittrack://workouts/recent   Recent workouts with totals
  fittrack://profile           Profile and recommendations`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		server, err := mcp.NewServer(svc, sess)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		logger.Info("mcp server starting", zap.String("session", sess.ID.String()))
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
