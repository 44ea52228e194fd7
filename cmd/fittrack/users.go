// ABOUTME: CLI commands for accounts: self-registration and admin user management.
// ABOUTME: Admin commands require --username/--password of an admin account.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fittrack/internal/models"
	"github.com/spf13/cobra"
)

var (
	usersAddAdmin  bool
	usersDeleteYes bool
	usersEditH     string
	usersEditW     string
	usersEditNotes string
)

var registerCmd = &cobra.Command{
	Use:   "register <username> <password>",
	Short: "Create a user account",
	Long: `Create a regular (non-admin) account.

Usernames are case-sensitive and must be unique.

EXAMPLES:

  fittrack register sam s3cret`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := svc.Register(args[0], args[1])
		if err != nil {
			return fmt.Errorf("unable to create user: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ User created: %s (id=%d)\n", user.Username, user.ID)
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage user accounts (admin)",
	Long: `List, create, edit and delete accounts. Requires an admin login.

COMMANDS:

  list     List all accounts, newest first
  add      Create an account (use --admin for a trainer account)
  edit     Replace another user's height, weight and notes
  delete   Delete an account with all its workouts and instructions`,
}

var usersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		users, err := svc.ListUsers(sess)
		if err != nil {
			return err
		}
		printUsers(cmd.OutOrStdout(), users)
		return nil
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username> <password>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		role := models.RoleUser
		if usersAddAdmin {
			role = models.RoleAdmin
		}
		user, err := svc.CreateUser(sess, args[0], args[1], role)
		if err != nil {
			return fmt.Errorf("unable to create user: %w", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ User created: %s (id=%d)\n", user.Username, user.ID)
		return nil
	},
}

var usersEditCmd = &cobra.Command{
	Use:   "edit <username>",
	Short: "Edit a user's profile",
	Long: `Replace a user's profile. Flags that are not given keep their current
value; pass an empty string to clear a field.

EXAMPLES:

  fittrack users edit sam --height 178 --weight 74
  fittrack users edit sam --notes ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		target, err := svc.FindUser(sess, args[0])
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}

		h, w, notes := mergeProfileFlags(cmd, target, usersEditH, usersEditW, usersEditNotes)
		updated, err := svc.EditUserProfile(sess, target.ID, h, w, notes)
		if err != nil {
			return err
		}
		green.Fprintln(cmd.OutOrStdout(), "✓ Profile updated.")
		printProfile(cmd.OutOrStdout(), updated)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:     "delete <username>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a user and their data",
	Long: `Delete an account. All of the user's workouts and every instruction
sent to or by them are removed too. There is no undo.

You are asked to confirm unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		target, err := svc.FindUser(sess, args[0])
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}

		if !usersDeleteYes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete user id=%d ? This will remove their data. [y/N] ", target.ID)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := svc.DeleteUser(sess, target.ID); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted %s\n", target.Username)
		return nil
	},
}

// mergeProfileFlags keeps the current value for any profile flag not given.
func mergeProfileFlags(cmd *cobra.Command, current *models.User, height, weight, notes string) (string, string, string) {
	if !cmd.Flags().Changed("height") {
		height = formatNumber(current.HeightCm)
	}
	if !cmd.Flags().Changed("weight") {
		weight = formatNumber(current.WeightKg)
	}
	if !cmd.Flags().Changed("notes") {
		notes = current.Notes()
	}
	return height, weight, notes
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

func init() {
	usersAddCmd.Flags().BoolVar(&usersAddAdmin, "admin", false, "create an admin (trainer) account")
	usersDeleteCmd.Flags().BoolVarP(&usersDeleteYes, "yes", "y", false, "skip confirmation")
	usersEditCmd.Flags().StringVar(&usersEditH, "height", "", "height in cm")
	usersEditCmd.Flags().StringVar(&usersEditW, "weight", "", "weight in kg")
	usersEditCmd.Flags().StringVar(&usersEditNotes, "notes", "", "health notes")

	usersCmd.AddCommand(usersListCmd, usersAddCmd, usersEditCmd, usersDeleteCmd)
	rootCmd.AddCommand(registerCmd, usersCmd)
}
