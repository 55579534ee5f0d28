package ui

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/hydutils/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	var (
		initFile bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or create the configuration file",
		Long: `Print the effective configuration (file, environment and defaults merged).

With --init, write the defaults merged with the current file to the config
path so it can be edited. HYDUTILS_* environment overrides are left out. An
existing file is only replaced with --force.

Example:
  hydutils config
  hydutils config --init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			if initFile {
				if _, err := os.Stat(a.configPath); err == nil && !force {
					return fmt.Errorf("config file already exists: %s (use --force to replace it)", a.configPath)
				}
				// Environment overrides are not saved.
				cfg, err := config.LoadFile(a.configPath)
				if err != nil {
					return err
				}
				if err := cfg.SaveTo(a.configPath); err != nil {
					return fmt.Errorf("saving config: %w", err)
				}
				fmt.Fprintf(w, "Created %s\n", a.configPath)
				return nil
			}

			data, err := toml.Marshal(a.config)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Fprintf(w, "%s\n\n%s", formatMuted("# "+a.configPath), data)
			return nil
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "Write the configuration file")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing configuration file")
	return cmd
}
