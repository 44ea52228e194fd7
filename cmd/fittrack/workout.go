// ABOUTME: CLI command for reviewing recorded workouts.
// ABOUTME: Timed workouts are recorded from the shell or the MCP server.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workoutLimit int

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w", "workouts"},
	Short:   "Review workouts",
	Long: `Workouts are recorded with the start/stop timer in 'fittrack shell'
or through the MCP tools start_workout and stop_workout. Calories are
estimated from intensity (MET), your weight and the elapsed time:

  Low       MET 3.5  walking
  Moderate  MET 6    jogging
  High      MET 8    running`,
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your workouts, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		workouts, err := svc.Workouts(sess)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		if workoutLimit > 0 && len(workouts) > workoutLimit {
			workouts = workouts[:workoutLimit]
		}
		printWorkouts(cmd.OutOrStdout(), workouts)
		return nil
	},
}

func init() {
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results (0 for all)")
	workoutCmd.AddCommand(workoutListCmd)
	rootCmd.AddCommand(workoutCmd)
}
