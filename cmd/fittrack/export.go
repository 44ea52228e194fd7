// ABOUTME: CLI commands for exporting and importing tracker data.
// ABOUTME: CSV and Markdown cover your own workouts; JSON and YAML are full admin backups.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/fittrack/internal/storage"
	"github.com/harperreed/fittrack/internal/tracker"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export tracker data",
	Long: `Export tracker data in various formats.

FORMATS:

  csv        Your workout history (date,duration_seconds,calories,note)
  markdown   Your workout history as a Markdown table
  json       Full backup of every account (admin)
  yaml       Full backup of every account, human-readable (admin)

Backups contain passwords; keep them private.

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  fittrack -u sam -p s3cret export csv -o workouts_sam.csv
  fittrack -u sam -p s3cret export markdown
  fittrack -u admin -p admin123 export json -o backup.json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"csv", "markdown", "json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		sess, err := login()
		if err != nil {
			return err
		}
		user, err := sess.User()
		if err != nil {
			return err
		}

		if format == "csv" && exportOutput != "" {
			path, err := svc.ExportCSV(sess, exportOutput)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			green.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", path)
			return nil
		}

		var data []byte
		switch format {
		case "csv":
			csv, err := svc.WorkoutsCSV(sess)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			data = []byte(csv)
		case "markdown":
			workouts, err := svc.Workouts(sess)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			data = []byte(storage.ExportMarkdown(user.Username, workouts))
		case "json", "yaml":
			if !user.IsAdmin() {
				return fmt.Errorf("%s export: %w", format, tracker.ErrForbidden)
			}
			if format == "json" {
				data, err = db.ExportJSON()
			} else {
				data, err = db.ExportYAML()
			}
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s (use csv, markdown, json, or yaml)", format)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			green.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore a JSON or YAML backup (admin)",
	Long: `Import accounts, workouts and instructions from a backup made with
'fittrack export json' or 'fittrack export yaml'. The format is picked
from the file extension.

Accounts whose username already exists are kept unchanged and the
backup's workouts and instructions are attached to them. The import is
all-or-nothing.

EXAMPLES:

  fittrack -u admin -p admin123 import backup.json
  fittrack -u admin -p admin123 import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		sess, err := login()
		if err != nil {
			return err
		}
		user, err := sess.User()
		if err != nil {
			return err
		}
		if !user.IsAdmin() {
			return fmt.Errorf("import: %w", tracker.ErrForbidden)
		}

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var summary *storage.ImportSummary
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			summary, err = db.ImportYAML(data)
		default:
			summary, err = db.ImportJSON(data)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Imported from %s\n", filename)
		fmt.Fprintf(cmd.OutOrStdout(), "  %d users (%d existing), %d workouts, %d instructions\n",
			summary.Users, summary.SkippedUsers, summary.Workouts, summary.Instructions)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
