package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spokeops/spokeops/internal/logging"
	"github.com/spokeops/spokeops/usecase/app"
)

func newCmdApp() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "app",
		Short:              "Deploy and verify the demo workload on a spoke",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdAppDeploy(), newCmdAppStatus(), newCmdAppDestroy())
	return cmd
}

func newCmdAppDeploy() *cobra.Command {
	var appName string
	var spokeName string
	var login string
	var clientID string
	var tenantID string
	var timeout time.Duration
	var skipWait bool

	cmd := &cobra.Command{
		Use:                "deploy",
		Short:              "Apply the demo workload and wait for rollout and endpoint",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildAppUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "app.deploy", spokeName)
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Deploy(ctx, &app.DeployInput{
				AppName:   appName,
				SpokeName: spokeName,
				Login:     login,
				ClientID:  clientID,
				TenantID:  tenantID,
				Timeout:   timeout,
				SkipWait:  skipWait,
			})
			if err != nil {
				return fmt.Errorf("failed to deploy app: %w", err)
			}

			logger.Info(ctx, "app deployed",
				"app", out.AppName,
				"spoke", out.SpokeName,
				"namespace", out.Namespace,
				"applied", out.Applied)
			if out.Deployment != nil {
				logger.Info(ctx, "rollout complete",
					"ready", out.Deployment.Ready,
					"desired", out.Deployment.Desired)
			}
			if out.URL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "url=%s\n", out.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&appName, "app-name", "", "App name (default: configured app)")
	cmd.Flags().StringVarP(&spokeName, "spoke", "s", "", "Target spoke (default: first configured spoke)")
	cmd.Flags().StringVar(&login, "login", "", "Credential mode for the target cluster (default admin)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Client ID for the login mode")
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant ID for the login mode")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Rollout wait budget (default 5m)")
	cmd.Flags().BoolVar(&skipWait, "skip-wait", false, "Apply without waiting for rollout or endpoint")
	return cmd
}

func newCmdAppStatus() *cobra.Command {
	var appName string
	var spokeName string
	var login string
	var clientID string
	var tenantID string

	cmd := &cobra.Command{
		Use:                "status",
		Short:              "Show demo workload readiness and endpoint",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildAppUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			out, err := u.Status(ctx, &app.StatusInput{
				AppName:   appName,
				SpokeName: spokeName,
				Login:     login,
				ClientID:  clientID,
				TenantID:  tenantID,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&appName, "app-name", "", "App name (default: configured app)")
	cmd.Flags().StringVarP(&spokeName, "spoke", "s", "", "Target spoke (default: first configured spoke)")
	cmd.Flags().StringVar(&login, "login", "", "Credential mode for the target cluster (default admin)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Client ID for the login mode")
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant ID for the login mode")
	return cmd
}

func newCmdAppDestroy() *cobra.Command {
	var appName string
	var spokeName string
	var login string
	var clientID string
	var tenantID string
	var force bool
	var noWait bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:                "destroy",
		Short:              "Delete the demo workload namespace",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildAppUseCase(cmd)
			if err != nil {
				return err
			}

			if !force {
				ok, err := confirm(cmd, "Delete the app namespace and everything in it?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "app.destroy", spokeName)
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			out, err := u.Destroy(ctx, &app.DestroyInput{
				AppName:   appName,
				SpokeName: spokeName,
				Login:     login,
				ClientID:  clientID,
				TenantID:  tenantID,
				NoWait:    noWait,
				Timeout:   timeout,
			})
			if err != nil {
				return fmt.Errorf("failed to destroy app: %w", err)
			}

			logger.Info(ctx, "app destroyed",
				"app", out.AppName,
				"spoke", out.SpokeName,
				"namespace", out.Namespace,
				"waited", out.Waited)
			return nil
		},
	}

	cmd.Flags().StringVar(&appName, "app-name", "", "App name (default: configured app)")
	cmd.Flags().StringVarP(&spokeName, "spoke", "s", "", "Target spoke (default: first configured spoke)")
	cmd.Flags().StringVar(&login, "login", "", "Credential mode for the target cluster (default admin)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Client ID for the login mode")
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "Tenant ID for the login mode")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return without waiting for namespace termination")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Termination wait budget (default 5m)")
	return cmd
}

// confirm asks a y/N question on the command's input stream. Anything but
// y/Y declines.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	input = strings.TrimSpace(input)
	return input == "y" || input == "Y", nil
}
