package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spokeops/spokeops/config/spokeopscfg"
)

// newCmdInit returns a command that scaffolds a spokeops.yml.
func newCmdInit() *cobra.Command {
	var forceFlag bool
	var fleetName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a spokeops.yml",
		Long: `Scaffold a spokeops.yml in the current directory (or at --config).

The generated file describes one hub, two example spokes, the GitOps
repository driving the fleet, and the demo verification workload. Edit the
names, resource groups, and repository URL before running other commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := getConfigPath(cmd)

			if !forceFlag {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			data := spokeopscfg.ExampleYAML(fleetName)
			// The scaffold must satisfy its own validation.
			if _, err := spokeopscfg.LoadBytes([]byte(data)); err != nil {
				return fmt.Errorf("generate config: %w", err)
			}
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing spokeops.yml")
	cmd.Flags().StringVar(&fleetName, "name", "aks-fleet", "Fleet name recorded in the configuration")
	return cmd
}
