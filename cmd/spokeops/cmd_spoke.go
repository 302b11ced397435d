package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spokeops/spokeops/internal/kubeconfig"
	"github.com/spokeops/spokeops/internal/logging"
	"github.com/spokeops/spokeops/usecase/spoke"
)

// flagSpokeName targets one spoke; empty falls back to config ordering.
var flagSpokeName string

func newCmdSpoke() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "spoke",
		Short:              "Register and manage spoke clusters",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	// Persistent flag shared across the single-spoke subcommands.
	cmd.PersistentFlags().StringVarP(&flagSpokeName, "spoke", "s", "", "Spoke name (default: first configured spoke)")
	cmd.AddCommand(newCmdSpokeAdd(), newCmdSpokeRemove(), newCmdSpokeList(), newCmdSpokeCredentials(), newCmdSpokeStatus(), newCmdSpokeHarden(), newCmdSpokeDiscover())
	return cmd
}

// getSpokeName resolves the target spoke: the --spoke flag, then the first
// configured spoke.
func getSpokeName(_ *cobra.Command) (string, error) {
	if flagSpokeName != "" {
		return flagSpokeName, nil
	}
	if configRoot != nil && len(configRoot.Spokes) > 0 {
		return configRoot.Spokes[0].Name, nil
	}
	return "", fmt.Errorf("spoke not specified; use --spoke or add spokes to spokeops.yml")
}

func newCmdSpokeAdd() *cobra.Command {
	var name string
	var resourceGroup string
	var environment string
	var identityClientID string
	var login string
	var hubLogin string
	var hubClientID string

	cmd := &cobra.Command{
		Use:                "add",
		Short:              "Register a spoke with the hub (writes its cluster secret)",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildSpokeUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "spoke.add", name)
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Add(ctx, &spoke.AddInput{
				Name:             name,
				ResourceGroup:    resourceGroup,
				Environment:      environment,
				IdentityClientID: identityClientID,
				Login:            login,
				HubLogin:         hubLogin,
				HubClientID:      hubClientID,
			})
			if err != nil {
				return fmt.Errorf("failed to add spoke: %w", err)
			}

			logger.Info(ctx, "spoke registered",
				"spoke", out.SpokeName,
				"environment", out.Environment,
				"secret", out.SecretName,
				"namespace", out.SecretNamespace,
				"server", out.Server,
				"created", out.Created)
			fmt.Fprintf(cmd.OutOrStdout(), "secret=%s/%s server=%s\n", out.SecretNamespace, out.SecretName, out.Server)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Spoke cluster name (required)")
	cmd.Flags().StringVarP(&resourceGroup, "resource-group", "g", "", "Resource group (required for clusters absent from spokeops.yml)")
	cmd.Flags().StringVarP(&environment, "environment", "e", "", "GitOps overlay environment (dev|stg|prd|...)")
	cmd.Flags().StringVarP(&identityClientID, "identity", "i", "", "Hub identity client ID for exec credentials (implies workloadidentity)")
	cmd.Flags().StringVar(&login, "login", "", "Exec login mode embedded in the cluster secret (default admin certificates)")
	cmd.Flags().StringVar(&hubLogin, "hub-login", "", "Credential mode for the hub API (default admin)")
	cmd.Flags().StringVar(&hubClientID, "hub-client-id", "", "Client ID for the hub login mode")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCmdSpokeRemove() *cobra.Command {
	var forget bool
	var hubLogin string
	var hubClientID string

	cmd := &cobra.Command{
		Use:                "remove",
		Short:              "Deregister a spoke (deletes its cluster secret)",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildSpokeUseCase(cmd)
			if err != nil {
				return err
			}

			name, err := getSpokeName(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "spoke.remove", name)
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Remove(ctx, &spoke.RemoveInput{
				Name:        name,
				Forget:      forget,
				HubLogin:    hubLogin,
				HubClientID: hubClientID,
			})
			if err != nil {
				return fmt.Errorf("failed to remove spoke: %w", err)
			}

			if !out.Removed {
				logger.Info(ctx, "no cluster secret found", "spoke", out.SpokeName)
			} else {
				logger.Info(ctx, "spoke deregistered", "spoke", out.SpokeName, "secret", out.SecretName)
			}
			if out.Forgotten {
				logger.Info(ctx, "spoke dropped from store", "spoke", out.SpokeName)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "Also remove the spoke from the store")
	cmd.Flags().StringVar(&hubLogin, "hub-login", "", "Credential mode for the hub API (default admin)")
	cmd.Flags().StringVar(&hubClientID, "hub-client-id", "", "Client ID for the hub login mode")
	return cmd
}

func newCmdSpokeList() *cobra.Command {
	var hubLogin string
	var hubClientID string

	cmd := &cobra.Command{
		Use:                "list",
		Short:              "List registered and configured spokes",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := buildSpokeUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			out, err := u.List(ctx, &spoke.ListInput{HubLogin: hubLogin, HubClientID: hubClientID})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Spokes)
		},
	}

	cmd.Flags().StringVar(&hubLogin, "hub-login", "", "Credential mode for the hub API (default admin)")
	cmd.Flags().StringVar(&hubClientID, "hub-client-id", "", "Client ID for the hub login mode")
	return cmd
}

func newCmdSpokeCredentials() *cobra.Command {
	var login string
	var clientID string
	var tenantID string
	var contextName string
	var namespace string
	var mergePath string
	var force bool
	var setCurrent bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:                "credentials",
		Short:              "Fetch a kubeconfig for a spoke cluster",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildSpokeUseCase(cmd)
			if err != nil {
				return err
			}

			name, err := getSpokeName(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			logger := logging.FromContext(ctx)

			out, err := u.Credentials(ctx, &spoke.CredentialsInput{
				Name:        name,
				Login:       login,
				ClientID:    clientID,
				TenantID:    tenantID,
				ContextName: contextName,
				Namespace:   namespace,
				MergePath:   mergePath,
				Force:       force,
				SetCurrent:  setCurrent,
			})
			if err != nil {
				return fmt.Errorf("failed to get credentials: %w", err)
			}

			if out.MergedPath != "" {
				logger.Info(ctx, "kubeconfig merged",
					"path", out.MergedPath,
					"context", out.ContextName,
					"action", out.Change.Action,
					"current", out.Change.Current)
				fmt.Fprintf(cmd.OutOrStdout(), "context=%s path=%s\n", out.ContextName, out.MergedPath)
				return nil
			}

			format := "yaml"
			if jsonOutput {
				format = "json"
			}
			return kubeconfig.Print(cmd.OutOrStdout(), out.Kubeconfig, format)
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "Credential mode (azurecli|workloadidentity|...; default admin)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Client ID for the login mode")
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant ID for the login mode")
	cmd.Flags().StringVar(&contextName, "context", "", "Kubeconfig context name (default: spoke name)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Context default namespace")
	cmd.Flags().StringVar(&mergePath, "merge", "", "Merge into this kubeconfig file instead of printing")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite same-named entries when merging")
	cmd.Flags().BoolVar(&setCurrent, "set-current", false, "Make the merged context current")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Print kubeconfig as JSON")
	return cmd
}

func newCmdSpokeStatus() *cobra.Command {
	var hubLogin string
	var hubClientID string

	cmd := &cobra.Command{
		Use:                "status",
		Short:              "Show a spoke's cluster state and hub registration",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildSpokeUseCase(cmd)
			if err != nil {
				return err
			}

			name, err := getSpokeName(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			out, err := u.Status(ctx, &spoke.StatusInput{
				Name:        name,
				HubLogin:    hubLogin,
				HubClientID: hubClientID,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&hubLogin, "hub-login", "", "Credential mode for the hub API (default admin)")
	cmd.Flags().StringVar(&hubClientID, "hub-client-id", "", "Client ID for the hub login mode")
	return cmd
}

func newCmdSpokeHarden() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "harden",
		Short:              "Disable local accounts on a spoke cluster",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildSpokeUseCase(cmd)
			if err != nil {
				return err
			}

			name, err := getSpokeName(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "spoke.harden", name)
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Harden(ctx, &spoke.HardenInput{Name: name})
			if err != nil {
				return fmt.Errorf("failed to harden spoke: %w", err)
			}

			logger.Info(ctx, "spoke hardened",
				"spoke", out.SpokeName,
				"localAccounts", out.Cluster.LocalAccounts,
				"aadEnabled", out.Cluster.AADEnabled)
			return nil
		},
	}
	return cmd
}

func newCmdSpokeDiscover() *cobra.Command {
	var tagKey string
	var tagValue string
	var register bool
	var environment string

	cmd := &cobra.Command{
		Use:                "discover",
		Short:              "Find AKS clusters in the subscription",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildSpokeUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			logger := logging.FromContext(ctx)

			out, err := u.Discover(ctx, &spoke.DiscoverInput{
				TagKey:      tagKey,
				TagValue:    tagValue,
				Register:    register,
				Environment: environment,
			})
			if err != nil {
				return err
			}

			for _, name := range out.Registered {
				logger.Info(ctx, "spoke registered from discovery", "spoke", name)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Clusters)
		},
	}

	cmd.Flags().StringVar(&tagKey, "tag-key", "", "Filter clusters by resource tag key")
	cmd.Flags().StringVar(&tagValue, "tag-value", "", "Tag value to match (with --tag-key)")
	cmd.Flags().BoolVar(&register, "register", false, "Register unknown clusters as spokes")
	cmd.Flags().StringVarP(&environment, "environment", "e", "", "Environment stamped on registered spokes (default dev)")
	return cmd
}
