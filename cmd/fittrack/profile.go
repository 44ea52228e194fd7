// ABOUTME: CLI commands for the logged-in user's profile and recommendations.
// ABOUTME: 'profile set' keeps fields whose flags are not given.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	profileHeight string
	profileWeight string
	profileNotes  string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
	Long: `Height, weight and health notes drive calorie estimates and
recommendations.

EXAMPLES:

  fittrack profile show
  fittrack profile set --height 178 --weight 74.5
  fittrack profile set --notes "recovering from knee surgery"
  fittrack profile set --weight ""       # clear weight`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		user, err := svc.Profile(sess)
		if err != nil {
			return err
		}
		printProfile(cmd.OutOrStdout(), user)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		current, err := svc.Profile(sess)
		if err != nil {
			return err
		}

		h, w, notes := mergeProfileFlags(cmd, current, profileHeight, profileWeight, profileNotes)
		updated, err := svc.SaveProfile(sess, h, w, notes)
		if err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		green.Fprintln(cmd.OutOrStdout(), "✓ Profile saved.")
		printProfile(cmd.OutOrStdout(), updated)
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Aliases: []string{"rec"},
	Short:   "Show BMI-based recommendations",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		text, err := svc.Recommendations(sess)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileHeight, "height", "", "height in cm")
	profileSetCmd.Flags().StringVar(&profileWeight, "weight", "", "weight in kg")
	profileSetCmd.Flags().StringVar(&profileNotes, "notes", "", "health notes")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	rootCmd.AddCommand(profileCmd, recommendCmd)
}
