package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"helm.sh/helm/v3/pkg/strvals"

	"github.com/spokeops/spokeops/internal/kubeconfig"
	"github.com/spokeops/spokeops/internal/logging"
	"github.com/spokeops/spokeops/usecase/hub"
)

// Hub API credential selection, shared across hub subcommands. Empty login
// means admin (certificate) credentials.
var (
	flagHubLogin    string
	flagHubClientID string
	flagHubTenantID string
)

func newCmdHub() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "hub",
		Short:              "Manage the hub cluster and its identity",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.PersistentFlags().StringVar(&flagHubLogin, "login", "", "Credential mode for the hub API (azurecli|workloadidentity|...; default admin)")
	cmd.PersistentFlags().StringVar(&flagHubClientID, "client-id", "", "Client ID for the login mode")
	cmd.PersistentFlags().StringVar(&flagHubTenantID, "tenant-id", "", "Tenant ID for the login mode")
	cmd.AddCommand(newCmdHubGrant(), newCmdHubRevoke(), newCmdHubInstall(), newCmdHubUninstall(), newCmdHubStatus(), newCmdHubCredentials())
	return cmd
}

func newCmdHubGrant() *cobra.Command {
	var spokeNames []string
	var roles []string

	cmd := &cobra.Command{
		Use:                "grant",
		Short:              "Ensure the hub identity, federation, and spoke role grants",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildHubUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "hub.grant", "")
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Grant(ctx, &hub.GrantInput{SpokeNames: spokeNames, Roles: roles})
			if err != nil {
				return fmt.Errorf("failed to grant: %w", err)
			}

			logger.Info(ctx, "hub identity ready",
				"identity", out.Identity.Name,
				"clientId", out.Identity.ClientID,
				"principalId", out.Identity.PrincipalID)
			for _, subject := range out.Subjects {
				logger.Info(ctx, "federated credential ensured", "subject", subject)
			}
			for _, s := range out.Spokes {
				logger.Info(ctx, "spoke roles granted", "spoke", s.SpokeName, "scope", s.Scope, "roles", len(s.Grants))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "identity.clientId=%s\n", out.Identity.ClientID)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&spokeNames, "spoke", "s", nil, "Limit to a spoke (repeatable; default all)")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role to grant at each spoke scope (repeatable; default the AKS user and RBAC admin roles)")
	return cmd
}

func newCmdHubRevoke() *cobra.Command {
	var spokeNames []string

	cmd := &cobra.Command{
		Use:                "revoke",
		Short:              "Remove the hub identity's role assignments on spokes",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildHubUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "hub.revoke", "")
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Revoke(ctx, &hub.RevokeInput{SpokeNames: spokeNames})
			if err != nil {
				return fmt.Errorf("failed to revoke: %w", err)
			}

			if out.Identity == nil {
				logger.Info(ctx, "hub identity not found; nothing to revoke")
				return nil
			}
			for _, s := range out.Spokes {
				logger.Info(ctx, "spoke roles revoked", "spoke", s.SpokeName, "scope", s.Scope, "removed", s.Removed)
			}
			logger.Info(ctx, "revoke complete", "removed", out.Removed)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&spokeNames, "spoke", "s", nil, "Limit to a spoke (repeatable; default all)")
	return cmd
}

func newCmdHubInstall() *cobra.Command {
	var chartVersion string
	var setValues []string

	cmd := &cobra.Command{
		Use:                "install",
		Short:              "Install or upgrade Argo CD on the hub",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildHubUseCase(cmd)
			if err != nil {
				return err
			}

			var values map[string]any
			if len(setValues) > 0 {
				values = map[string]any{}
				for _, kv := range setValues {
					if err := strvals.ParseInto(kv, values); err != nil {
						return fmt.Errorf("parse --set %q: %w", kv, err)
					}
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "hub.install", "")
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Install(ctx, &hub.InstallInput{
				Login:        flagHubLogin,
				ClientID:     flagHubClientID,
				TenantID:     flagHubTenantID,
				ChartVersion: chartVersion,
				Values:       values,
			})
			if err != nil {
				return fmt.Errorf("failed to install: %w", err)
			}

			logger.Info(ctx, "argo cd installed", "hub", out.HubName, "namespace", out.Namespace, "release", out.Release)
			return nil
		},
	}

	cmd.Flags().StringVar(&chartVersion, "chart-version", "", "Pin the argo-cd chart version (default latest)")
	cmd.Flags().StringArrayVar(&setValues, "set", nil, "Override chart values (key=val, repeatable)")
	return cmd
}

func newCmdHubUninstall() *cobra.Command {
	var deleteNamespace bool

	cmd := &cobra.Command{
		Use:                "uninstall",
		Short:              "Remove the Argo CD release from the hub",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildHubUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "hub.uninstall", "")
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Uninstall(ctx, &hub.UninstallInput{
				Login:           flagHubLogin,
				ClientID:        flagHubClientID,
				TenantID:        flagHubTenantID,
				DeleteNamespace: deleteNamespace,
			})
			if err != nil {
				return fmt.Errorf("failed to uninstall: %w", err)
			}

			logger.Info(ctx, "argo cd uninstalled", "hub", out.HubName, "namespace", out.Namespace, "namespaceDeleted", out.NamespaceDeleted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteNamespace, "delete-namespace", false, "Also delete the control plane namespace (removes spoke registrations)")
	return cmd
}

func newCmdHubStatus() *cobra.Command {
	return &cobra.Command{
		Use:                "status",
		Short:              "Show hub cluster, identity, and Argo CD rollout state",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildHubUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			out, err := u.Status(ctx, &hub.StatusInput{
				Login:    flagHubLogin,
				ClientID: flagHubClientID,
				TenantID: flagHubTenantID,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func newCmdHubCredentials() *cobra.Command {
	var contextName string
	var namespace string
	var mergePath string
	var force bool
	var setCurrent bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:                "credentials",
		Short:              "Fetch a kubeconfig for the hub cluster",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildHubUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			logger := logging.FromContext(ctx)

			out, err := u.Credentials(ctx, &hub.CredentialsInput{
				Login:       flagHubLogin,
				ClientID:    flagHubClientID,
				TenantID:    flagHubTenantID,
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

	cmd.Flags().StringVar(&contextName, "context", "", "Kubeconfig context name (default: hub name)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Context default namespace")
	cmd.Flags().StringVar(&mergePath, "merge", "", "Merge into this kubeconfig file instead of printing")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite same-named entries when merging")
	cmd.Flags().BoolVar(&setCurrent, "set-current", false, "Make the merged context current")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Print kubeconfig as JSON")
	return cmd
}
