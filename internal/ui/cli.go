package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/hydutils/internal/config"
	"github.com/javiermolinar/hydutils/internal/debuglog"
	"github.com/javiermolinar/hydutils/internal/frame"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *config.Config
	configPath string
	root       *cobra.Command
	log        *debuglog.Logger
	debug      bool   // Enable debug logging
	noColor    bool   // Disable color output
	query      string // SQL query; when set, sources are SQLite databases
}

// NewApp creates a new CLI application with the given config.
// A nil config is loaded from the default path when a command runs.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, log: debuglog.Disabled()}

	a.root = &cobra.Command{
		Use:   "hydutils",
		Short: "Validation helpers for hydrological timeseries tables",
		Long: `hydutils checks tabular timeseries data before it is used.

It looks for missing values, verifies that timestamps are evenly spaced,
and cuts tables down to an inclusive datetime range. Tables are read from
CSV files, or from SQLite databases when --query is given.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.log.Close()
		},
	}

	// Add global flags
	a.root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultConfigPath(), "Config file path")
	a.root.PersistentFlags().StringVar(&a.query, "query", "", "Read the source as a SQLite database using this query")
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+debuglog.DefaultPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.nullsCmd())
	a.root.AddCommand(a.intervalCmd())
	a.root.AddCommand(a.filterCmd())
	a.root.AddCommand(a.checkCmd())
	a.root.AddCommand(a.showCmd())

	return a
}

// setup loads the config and opens the debug log before any command runs.
func (a *App) setup(cmd *cobra.Command, args []string) error {
	if a.config == nil || cmd.Flags().Changed("config") {
		cfg, err := config.LoadFrom(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.config = cfg
	}

	if a.noColor || !a.config.Output.Color {
		DisableColor()
	}

	log, err := debuglog.Open(a.debug, debuglog.DefaultPath)
	if err != nil {
		return err
	}
	a.log = log
	a.log.Command(cmd.Name(), args)
	return nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hydutils %s (commit: %s)\n", Version, Commit)
		},
	}
}

// loadTable reads the table at source using the configured load options.
func (a *App) loadTable(ctx context.Context, source string) (*frame.Frame, error) {
	start := time.Now()
	opts := a.config.LoadOptions()

	var (
		f   *frame.Frame
		err error
	)
	if a.query != "" {
		f, err = frame.LoadSQLite(ctx, source, a.query, opts)
	} else {
		f, err = frame.LoadCSV(source, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("loading table %s: %w", source, err)
	}

	a.log.Loaded(source, f.Nrow(), f.Ncol(), time.Since(start))
	return f, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases any resources held by the application.
func (a *App) Close() error {
	return a.log.Close()
}
