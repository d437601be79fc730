package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"aegissim/internal/config"
)

const (
	appConfigName = "config.toml"
	simConfigName = "simulation.toml"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	var (
		dir   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write config.toml and simulation.toml into a directory",
		Long: `init writes a default config.toml for the aegissim service and the active
simulation config (--sim, or the built-in preset) as simulation.toml next to it.
config.toml refers to simulation.toml by absolute path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := root.loadSimulation()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}

			appPath := filepath.Join(dir, appConfigName)
			simPath := filepath.Join(dir, simConfigName)
			if !force {
				for _, p := range []string{appPath, simPath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists, use --force to overwrite", p)
					} else if !errors.Is(err, os.ErrNotExist) {
						return err
					}
				}
			}

			if err := config.WriteSimulation(sim, simPath); err != nil {
				return fmt.Errorf("write %s: %w", simPath, err)
			}
			absSim, err := filepath.Abs(simPath)
			if err != nil {
				return err
			}
			app := config.DefaultConfig()
			app.Simulation.Path = absSim
			if err := config.SaveConfig(app, appPath); err != nil {
				return fmt.Errorf("write %s: %w", appPath, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, appPath)
			fmt.Fprintln(out, simPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}
