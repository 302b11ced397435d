package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spokeops/spokeops/config/spokeopscfg"
)

func newCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "config",
		Short:              "Read and validate the configuration",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdConfigShow(), newCmdConfigValidate())
	return cmd
}

func newCmdConfigShow() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a configuration summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := getConfigPath(cmd)
			cfg, err := spokeopscfg.Load(path)
			if err != nil {
				return err
			}

			if asJSON {
				out := map[string]any{
					"version": cfg.Version,
					"name":    cfg.Name,
					"provider": map[string]any{
						"name":   cfg.Provider.Name,
						"driver": cfg.Provider.Driver,
					},
					"hub": map[string]any{
						"name":          cfg.Hub.Name,
						"resourceGroup": cfg.Hub.ResourceGroup,
						"namespace":     cfg.Hub.Namespace,
						"identity":      cfg.Hub.Identity.Name,
					},
					"spokes": cfg.Spokes,
					"repo": map[string]any{
						"url":           cfg.Repo.URL,
						"revision":      cfg.Repo.Revision,
						"bootstrapPath": cfg.Repo.BootstrapPath,
					},
					"app": map[string]any{
						"name":      cfg.App.Name,
						"namespace": cfg.App.Namespace,
						"image":     cfg.App.Image,
						"replicas":  cfg.App.Replicas,
					},
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			// Text output (key=value), multi-line for readability
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "version=%s\n", cfg.Version)
			fmt.Fprintf(w, "name=%s\n", cfg.Name)
			fmt.Fprintf(w, "provider.driver=%s\n", cfg.Provider.Driver)
			fmt.Fprintf(w, "hub.name=%s\n", cfg.Hub.Name)
			fmt.Fprintf(w, "hub.resourceGroup=%s\n", cfg.Hub.ResourceGroup)
			fmt.Fprintf(w, "hub.namespace=%s\n", cfg.Hub.Namespace)
			fmt.Fprintf(w, "hub.identity=%s\n", cfg.Hub.Identity.Name)
			for _, s := range cfg.Spokes {
				fmt.Fprintf(w, "spoke.%s.environment=%s\n", s.Name, s.Environment)
				if s.ResourceGroup != "" {
					fmt.Fprintf(w, "spoke.%s.resourceGroup=%s\n", s.Name, s.ResourceGroup)
				}
			}
			fmt.Fprintf(w, "repo.url=%s\n", cfg.Repo.URL)
			fmt.Fprintf(w, "repo.revision=%s\n", cfg.Repo.Revision)
			fmt.Fprintf(w, "repo.bootstrapPath=%s\n", cfg.Repo.BootstrapPath)
			fmt.Fprintf(w, "app.name=%s\n", cfg.App.Name)
			fmt.Fprintf(w, "app.image=%s replicas=%d\n", cfg.App.Image, cfg.App.Replicas)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	return cmd
}

func newCmdConfigValidate() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := getConfigPath(cmd)
			// Load applies defaults and runs the semantic checks.
			if _, err := spokeopscfg.Load(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
			return nil
		},
	}
}
