// ABOUTME: CLI commands for trainer instructions.
// ABOUTME: Admins send with 'instruct'; users read with 'instructions'.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var instructionsSent bool

var instructCmd = &cobra.Command{
	Use:   "instruct <username> <text...>",
	Short: "Send an instruction to a user (admin)",
	Long: `Send a trainer instruction to a user. The user sees it with
'fittrack instructions'.

EXAMPLES:

  fittrack -u admin -p admin123 instruct sam "Stretch before every run"
  fittrack -u admin -p admin123 instruct sam Rest day tomorrow`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		target, err := svc.FindUser(sess, args[0])
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		text := strings.Join(args[1:], " ")
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("enter instruction text")
		}
		if _, err := svc.SendInstruction(sess, target.ID, text); err != nil {
			return err
		}
		green.Fprintln(cmd.OutOrStdout(), "✓ Instruction sent.")
		return nil
	},
}

var instructionsCmd = &cobra.Command{
	Use:     "instructions",
	Aliases: []string{"inbox"},
	Short:   "Show instructions from your trainer",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := login()
		if err != nil {
			return err
		}
		if instructionsSent {
			sent, err := svc.SentInstructions(sess)
			if err != nil {
				return err
			}
			printInstructions(cmd.OutOrStdout(), sent)
			return nil
		}
		list, err := svc.Instructions(sess)
		if err != nil {
			return err
		}
		printInstructions(cmd.OutOrStdout(), list)
		return nil
	},
}

func init() {
	instructionsCmd.Flags().BoolVar(&instructionsSent, "sent", false, "show instructions you sent (admin)")
	rootCmd.AddCommand(instructCmd, instructionsCmd)
}
