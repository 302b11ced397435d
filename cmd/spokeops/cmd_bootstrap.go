package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spokeops/spokeops/internal/logging"
	"github.com/spokeops/spokeops/usecase/bootstrap"
)

// Source flags shared by the bootstrap subcommands; empty fields fall back
// to the repo section of spokeops.yml.
var (
	flagBootstrapRepoURL  string
	flagBootstrapRevision string
	flagBootstrapPath     string
)

func newCmdBootstrap() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "bootstrap",
		Short:              "Manage the spoke-bootstrap ApplicationSet on the hub",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.PersistentFlags().StringVar(&flagBootstrapRepoURL, "repo-url", "", "GitOps repository URL (default: repo.url from spokeops.yml)")
	cmd.PersistentFlags().StringVar(&flagBootstrapRevision, "revision", "", "Target revision (default: repo.revision, then main)")
	cmd.PersistentFlags().StringVar(&flagBootstrapPath, "path", "", "Overlay parent directory (default: repo.bootstrapPath)")
	cmd.AddCommand(newCmdBootstrapApply(), newCmdBootstrapRender(), newCmdBootstrapPreview(), newCmdBootstrapDestroy())
	return cmd
}

// bootstrapSource merges the source flags over the configured repo section.
func bootstrapSource(_ *cobra.Command) bootstrap.Source {
	src := bootstrap.Source{
		RepoURL:       flagBootstrapRepoURL,
		Revision:      flagBootstrapRevision,
		BootstrapPath: flagBootstrapPath,
	}
	if configRoot == nil {
		return src
	}
	if src.RepoURL == "" {
		src.RepoURL = configRoot.Repo.URL
	}
	if src.Revision == "" {
		src.Revision = configRoot.Repo.Revision
	}
	if src.BootstrapPath == "" {
		src.BootstrapPath = configRoot.Repo.BootstrapPath
	}
	return src
}

func newCmdBootstrapApply() *cobra.Command {
	var manifestFile string
	var withRBAC bool
	var spokeNames []string
	var identityClientID string
	var spokeLogin string
	var hubLogin string
	var hubClientID string

	cmd := &cobra.Command{
		Use:                "apply",
		Short:              "Install the ApplicationSet (and optionally spoke RBAC)",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildBootstrapUseCase(cmd)
			if err != nil {
				return err
			}

			var manifest []byte
			if manifestFile != "" {
				manifest, err = os.ReadFile(manifestFile)
				if err != nil {
					return fmt.Errorf("read manifest %s: %w", manifestFile, err)
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "bootstrap.apply", "")
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Apply(ctx, &bootstrap.ApplyInput{
				Source:           bootstrapSource(cmd),
				Manifest:         manifest,
				WithRBAC:         withRBAC,
				SpokeNames:       spokeNames,
				IdentityClientID: identityClientID,
				SpokeLogin:       spokeLogin,
				HubLogin:         hubLogin,
				HubClientID:      hubClientID,
			})
			if err != nil {
				return fmt.Errorf("failed to apply bootstrap: %w", err)
			}

			if out.AppSetName == "" {
				logger.Info(ctx, "manifest applied", "namespace", out.Namespace)
				return nil
			}
			logger.Info(ctx, "applicationset applied",
				"name", out.AppSetName,
				"namespace", out.Namespace)
			for _, name := range out.RBACSpokes {
				logger.Info(ctx, "spoke rbac applied", "spoke", name, "clientId", out.IdentityClientID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "file", "f", "", "Apply this rendered manifest to the hub instead of building the ApplicationSet")
	cmd.Flags().BoolVar(&withRBAC, "with-rbac", false, "Also apply the workload identity RBAC bundle to spokes")
	cmd.Flags().StringArrayVarP(&spokeNames, "spoke", "s", nil, "Limit the RBAC bundle to this spoke (repeatable; default all)")
	cmd.Flags().StringVarP(&identityClientID, "identity", "i", "", "Hub identity client ID for the RBAC bundle")
	cmd.Flags().StringVar(&spokeLogin, "spoke-login", "", "Credential mode for spoke APIs (default admin)")
	cmd.Flags().StringVar(&hubLogin, "hub-login", "", "Credential mode for the hub API (default admin)")
	cmd.Flags().StringVar(&hubClientID, "hub-client-id", "", "Client ID for the hub login mode")
	cmd.MarkFlagsMutuallyExclusive("file", "with-rbac")
	return cmd
}

func newCmdBootstrapRender() *cobra.Command {
	var withRBAC bool
	var identityClientID string

	cmd := &cobra.Command{
		Use:                "render",
		Short:              "Print the manifests apply would install",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildBootstrapUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			out, err := u.Render(ctx, &bootstrap.RenderInput{
				Source:           bootstrapSource(cmd),
				WithRBAC:         withRBAC,
				IdentityClientID: identityClientID,
			})
			if err != nil {
				return fmt.Errorf("failed to render bootstrap: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), out.Manifest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withRBAC, "with-rbac", false, "Include the workload identity RBAC bundle")
	cmd.Flags().StringVarP(&identityClientID, "identity", "i", "", "Hub identity client ID for the RBAC bundle")
	return cmd
}

func newCmdBootstrapPreview() *cobra.Command {
	var asJSON bool
	var hubLogin string
	var hubClientID string

	cmd := &cobra.Command{
		Use:                "preview",
		Short:              "Show the Applications the cluster generator would stamp",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildBootstrapUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			out, err := u.Preview(ctx, &bootstrap.PreviewInput{
				Source:      bootstrapSource(cmd),
				HubLogin:    hubLogin,
				HubClientID: hubClientID,
			})
			if err != nil {
				return fmt.Errorf("failed to preview bootstrap: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, item := range out.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "cluster=%s environment=%s app=%s path=%s server=%s\n",
					item.ClusterName, item.Environment, item.AppName, item.Path, item.Server)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Emit the full rendered Applications as JSON")
	cmd.Flags().StringVar(&hubLogin, "hub-login", "", "Credential mode for the hub API (default admin)")
	cmd.Flags().StringVar(&hubClientID, "hub-client-id", "", "Client ID for the hub login mode")
	return cmd
}

func newCmdBootstrapDestroy() *cobra.Command {
	var hubLogin string
	var hubClientID string

	cmd := &cobra.Command{
		Use:                "destroy",
		Short:              "Delete the ApplicationSet from the hub",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildBootstrapUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "bootstrap.destroy", "")
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Destroy(ctx, &bootstrap.DestroyInput{
				HubLogin:    hubLogin,
				HubClientID: hubClientID,
			})
			if err != nil {
				return fmt.Errorf("failed to destroy bootstrap: %w", err)
			}

			if !out.Deleted {
				logger.Info(ctx, "applicationset not found", "name", out.AppSetName, "namespace", out.Namespace)
				return nil
			}
			logger.Info(ctx, "applicationset deleted", "name", out.AppSetName, "namespace", out.Namespace)
			return nil
		},
	}

	cmd.Flags().StringVar(&hubLogin, "hub-login", "", "Credential mode for the hub API (default admin)")
	cmd.Flags().StringVar(&hubClientID, "hub-client-id", "", "Client ID for the hub login mode")
	return cmd
}
