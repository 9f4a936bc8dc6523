// Package cli implements the pkgscore command-line interface.
//
// # Commands
//
//   - score: Evaluate package URLs and print their reports
//   - serve: Run the HTTP scoring service
//   - cache: Manage the HTTP response cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. LOG_LEVEL
// (0 silent, 1 info, 2 debug, or a level name) and LOG_FILE are honoured
// when the flag is not given. Loggers are passed through context.Context.
//
// # Configuration
//
// Settings come from flags, PKGSCORE_* environment variables, an optional
// pkgscore.yaml/pkgscore.toml file and a .env file in the working directory.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/pkgscore/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pkgscore"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	v          *viper.Viper
	configFile string
	verbose    bool
	logFile    io.Closer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		v:      viper.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "pkgscore rates open-source packages for trustworthiness",
		Long:         `pkgscore evaluates GitHub repositories and npm packages on ramp-up, correctness, bus factor, maintainer responsiveness and license compatibility, and combines them into a weighted net score.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.logFile != nil {
				return c.logFile.Close()
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ./pkgscore.yaml)")

	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads .env and the config file, configures logging and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()

	level, w, closer, err := logSettings(c.verbose, c.Logger.GetLevel())
	if err != nil {
		return err
	}
	if w != nil {
		c.Logger = newLogger(w, level)
		c.logFile = closer
	} else {
		c.SetLogLevel(level)
	}

	if err := initConfig(c.v, c.configFile); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// config decodes the current settings.
func (c *CLI) config() (*Config, error) {
	return decodeConfig(c.v)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pkgscore/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/pkgscore/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}
