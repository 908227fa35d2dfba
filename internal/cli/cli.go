// Package cli provides the roster command-line interface: database setup,
// the HTTP server, the table viewer and the SQL injection demos.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/roster-api/internal/config"
	"github.com/aanand-mishra/roster-api/internal/logger"
	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/storage/orm"
	"github.com/aanand-mishra/roster-api/internal/storage/sqlite"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config
	log     zerolog.Logger
	out     io.Writer
	errOut  io.Writer

	// Global flags
	configPath  string
	storagePath string
}

// New creates a CLI writing command output to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	c := &CLI{out: out, errOut: errOut}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the CLI with os.Args and returns the process exit code.
func (c *CLI) Execute() int {
	return c.Run(os.Args[1:])
}

// Run runs the CLI with the given arguments.
func (c *CLI) Run(args []string) int {
	c.rootCmd.SetArgs(args)
	c.rootCmd.SetOut(c.out)
	c.rootCmd.SetErr(c.errOut)

	if err := c.rootCmd.Execute(); err != nil {
		fmt.Fprintln(c.errOut, "Error:", err)
		return ExitFailure
	}
	return ExitSuccess
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Student roster over SQLite, with a SQL injection demo",
		Long: `roster manages a single-table student roster in SQLite.

It provides:
  • init   create the database from the schema script
  • serve  a JSON API for creating and listing students
  • view   dump the Students table
  • demo   parameterized versus concatenated SQL, side by side`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $CONFIG_PATH, else environment only)")
	cmd.PersistentFlags().StringVar(&c.storagePath, "db", "", "SQLite database file (overrides storage_path)")

	cmd.AddCommand(c.newInitCmd())
	cmd.AddCommand(c.newServeCmd())
	cmd.AddCommand(c.newViewCmd())
	cmd.AddCommand(c.newDemoCmd())
	cmd.AddCommand(c.newVersionCmd())

	return cmd
}

func (c *CLI) initConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.storagePath != "" {
		cfg.StoragePath = c.storagePath
	}

	c.cfg = cfg
	c.log = logger.New(cfg.Env, c.errOut)
	return nil
}

// openStorage returns the data access implementation named by the config.
func (c *CLI) openStorage(ctx context.Context) (storage.Storage, error) {
	switch c.cfg.Backend {
	case config.BackendSQL:
		return sqlite.New(c.sqliteOptions()), nil
	default:
		return orm.New(ctx, orm.Options{StoragePath: c.cfg.StoragePath, Logger: c.log})
	}
}

func (c *CLI) sqliteOptions() sqlite.Options {
	return sqlite.Options{StoragePath: c.cfg.StoragePath, Logger: c.log}
}
