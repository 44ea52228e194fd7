// ABOUTME: Root Cobra command for fittrack CLI.
// ABOUTME: Loads config, opens the store and builds the logger via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/fittrack/internal/config"
	"github.com/harperreed/fittrack/internal/logging"
	"github.com/harperreed/fittrack/internal/session"
	"github.com/harperreed/fittrack/internal/storage"
	"github.com/harperreed/fittrack/internal/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dbPath     string
	configPath string
	loginUser  string
	loginPass  string

	db     *storage.DB
	svc    *tracker.Service
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fittrack",
	Short: "Personal fitness tracker",
	Long: `Fittrack is a CLI tool for logging workouts, tracking your profile and
getting BMI-based recommendations. Trainers (admins) manage users and send
them instructions.

QUICK START:

  $ fittrack register sam s3cret              # Create an account
  $ fittrack -u sam -p s3cret profile set --height 178 --weight 74
  $ fittrack -u sam -p s3cret recommend       # BMI and advice
  $ fittrack shell                            # Interactive session with a workout timer

CREDENTIALS:

  Pass --username/--password, or set FITTRACK_USERNAME and FITTRACK_PASSWORD
  (a .env file in the working directory is read too). The first start
  creates an admin account: admin / admin123.

ADMIN:

  $ fittrack -u admin -p admin123 users list
  $ fittrack -u admin -p admin123 instruct sam "Stretch before every run"
  $ fittrack -u admin -p admin123 users delete sam

MCP INTEGRATION:

  Run 'fittrack mcp' to start the Model Context Protocol server, acting as
  the logged-in user.

DATA STORAGE:

  The database lives at ~/.local/share/fittrack/fittrack.db unless --db or
  the config file (~/.config/fittrack/config.yaml) says otherwise.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
			return nil
		}
		return openApp()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: from config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/fittrack/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&loginUser, "username", "u", "", "login username (env FITTRACK_USERNAME)")
	rootCmd.PersistentFlags().StringVarP(&loginPass, "password", "p", "", "login password (env FITTRACK_PASSWORD)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func openApp() error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	if dbPath != "" {
		abs, err := filepath.Abs(config.ExpandPath(dbPath))
		if err != nil {
			return err
		}
		cfg.DBFile = abs
		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(filepath.Dir(abs), "fittrack.log")
		}
	}

	logger, err = logging.New(logging.Options{File: cfg.GetLogFile(), Level: cfg.GetLogLevel()})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	db, err = cfg.OpenStorage()
	if err != nil {
		logger.Error("storage unavailable", zap.String("path", cfg.GetDBPath()), zap.Error(err))
		return err
	}
	logger.Debug("storage opened", zap.String("path", db.Path()))

	svc = tracker.New(db,
		tracker.WithLogger(logger),
		tracker.WithDefaultWeight(cfg.DefaultWeightKg))
	return nil
}

func closeApp() error {
	var err error
	if db != nil {
		err = db.Close()
		db = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

// credentials returns the login pair from flags, falling back to the environment.
func credentials() (string, string) {
	user, pass := loginUser, loginPass
	if user == "" {
		user = os.Getenv("FITTRACK_USERNAME")
	}
	if pass == "" {
		pass = os.Getenv("FITTRACK_PASSWORD")
	}
	return strings.TrimSpace(user), strings.TrimSpace(pass)
}

// login authenticates with the configured credentials.
func login() (*session.Session, error) {
	user, pass := credentials()
	if user == "" || pass == "" {
		return nil, errors.New("login required: pass --username and --password or set FITTRACK_USERNAME and FITTRACK_PASSWORD")
	}
	return svc.Login(user, pass)
}
