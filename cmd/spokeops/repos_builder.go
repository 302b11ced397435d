package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spokeops/spokeops/adapters/store"
	"github.com/spokeops/spokeops/config/spokeopscfg"
	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/usecase/app"
	"github.com/spokeops/spokeops/usecase/bootstrap"
	"github.com/spokeops/spokeops/usecase/hub"
	"github.com/spokeops/spokeops/usecase/spoke"
)

// configRoot holds the loaded configuration for flag fallbacks.
var configRoot *spokeopscfg.Root

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

// getConfigPath extracts the config flag value from the command hierarchy.
func getConfigPath(cmd *cobra.Command) string {
	if f := findFlag(cmd, "config"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return "spokeops.yml"
}

// getDBURL resolves the state store URL: the --db-url flag (its default
// carries SPOKEOPS_DB_URL), then dbURL from the configuration, then the
// configuration file itself.
func getDBURL(cmd *cobra.Command, cfg *spokeopscfg.Root, configPath string) string {
	if f := findFlag(cmd, "db-url"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	if cfg != nil && cfg.DBURL != "" {
		return cfg.DBURL
	}
	return "file:" + configPath
}

// buildRepos loads the configuration and creates repositories based on
// db-url. With the default "file:" URL the configuration itself is the
// store; "sqlite:" opens a database seeded from it on first use.
func buildRepos(cmd *cobra.Command) (*domain.Repositories, error) {
	configPath := getConfigPath(cmd)

	var cfg *spokeopscfg.Root
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = spokeopscfg.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", configPath, err)
		}
		configRoot = cfg
	}

	dbURL := getDBURL(cmd, cfg, configPath)
	if cfg == nil && strings.HasPrefix(dbURL, "file:") {
		return nil, fmt.Errorf("config file %s not found (run spokeops init, or pass --config)", configPath)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	return store.New(ctx, dbURL, cfg)
}

// buildHubRepos creates repositories needed for hub use cases.
func buildHubRepos(cmd *cobra.Command) (*hub.Repos, error) {
	repos, err := buildRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &hub.Repos{
		Provider: repos.Provider,
		Hub:      repos.Hub,
		Spoke:    repos.Spoke,
	}, nil
}

// buildSpokeRepos creates repositories needed for spoke use cases.
func buildSpokeRepos(cmd *cobra.Command) (*spoke.Repos, error) {
	repos, err := buildRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &spoke.Repos{
		Provider: repos.Provider,
		Hub:      repos.Hub,
		Spoke:    repos.Spoke,
	}, nil
}

// buildAppRepos creates repositories needed for app use cases.
func buildAppRepos(cmd *cobra.Command) (*app.Repos, error) {
	repos, err := buildRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &app.Repos{
		Provider: repos.Provider,
		Hub:      repos.Hub,
		Spoke:    repos.Spoke,
		App:      repos.App,
	}, nil
}

// buildBootstrapRepos creates repositories needed for bootstrap use cases.
func buildBootstrapRepos(cmd *cobra.Command) (*bootstrap.Repos, error) {
	repos, err := buildRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &bootstrap.Repos{
		Provider: repos.Provider,
		Hub:      repos.Hub,
		Spoke:    repos.Spoke,
	}, nil
}
