package kube

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/cli"
	helmdriver "helm.sh/helm/v3/pkg/storage/driver"
)

const (
	// ArgoCDReleaseName is the Helm release name and also the resource name prefix.
	ArgoCDReleaseName = "argocd"
	// ArgoCDChartRepo is the official Argo Helm chart repository.
	ArgoCDChartRepo = "https://argoproj.github.io/argo-helm"
	// ArgoCDChartName is the chart containing the full Argo CD install.
	ArgoCDChartName = "argo-cd"
)

// Installer provides in-cluster install/uninstall operations backed by the Helm SDK.
// It is intended to be called from hub use cases after credentials are resolved.
type Installer struct {
	Client *Client
	// Kubeconfig holds raw kubeconfig bytes used for Helm operations.
	// When empty, Helm-based operations will fail with an error.
	Kubeconfig []byte
}

// NewInstaller constructs an Installer with kube client and kubeconfig bytes.
func NewInstaller(c *Client, kubeconfig []byte) *Installer {
	return &Installer{Client: c, Kubeconfig: kubeconfig}
}

// writeTempKubeconfig writes kubeconfig bytes to a temporary file and returns its path
// and a cleanup function to remove it.
func writeTempKubeconfig(kubeconfig []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "spokeops-kubeconfig-*.yaml")
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp kubeconfig: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(kubeconfig); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", func() {}, fmt.Errorf("write temp kubeconfig: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", func() {}, fmt.Errorf("close temp kubeconfig: %w", err)
	}
	cleanup := func() { _ = os.Remove(path) }
	return path, cleanup, nil
}

// helmConfig initializes a Helm action configuration bound to the namespace.
func (i *Installer) helmConfig(namespace string) (*action.Configuration, *cli.EnvSettings, func(), error) {
	if i == nil || i.Client == nil || i.Client.RESTConfig == nil {
		return nil, nil, func() {}, fmt.Errorf("kube installer is not initialized")
	}
	if len(i.Kubeconfig) == 0 {
		return nil, nil, func() {}, fmt.Errorf("kubeconfig is required for Helm operations")
	}

	kubeconfigPath, cleanup, err := writeTempKubeconfig(i.Kubeconfig)
	if err != nil {
		return nil, nil, func() {}, err
	}

	settings := cli.New()
	settings.KubeConfig = kubeconfigPath

	cfg := new(action.Configuration)
	if err := cfg.Init(settings.RESTClientGetter(), namespace, "secret", func(format string, v ...any) {}); err != nil {
		cleanup()
		return nil, nil, func() {}, fmt.Errorf("init helm configuration: %w", err)
	}
	return cfg, settings, cleanup, nil
}

// InstallArgoCDOptions tunes the Argo CD chart installation.
type InstallArgoCDOptions struct {
	// Namespace receives the Argo CD control plane. Defaults to "argocd".
	Namespace string
	// ChartVersion pins the argo-cd chart version; empty installs the latest.
	ChartVersion string
	// Values are merged over the built-in defaults.
	Values map[string]any
}

// InstallArgoCD installs or upgrades the Argo CD control plane on the hub
// cluster via the official argo-cd Helm chart, then waits for argocd-server
// to become ready.
func (i *Installer) InstallArgoCD(ctx context.Context, opts *InstallArgoCDOptions) error {
	if opts == nil {
		opts = &InstallArgoCDOptions{}
	}
	ns := opts.Namespace
	if ns == "" {
		ns = ArgoCDReleaseName
	}
	if err := i.Client.EnsureNamespace(ctx, ns); err != nil {
		return err
	}

	cfg, settings, cleanup, err := i.helmConfig(ns)
	if err != nil {
		return err
	}
	defer cleanup()

	// Try upgrade first; if the release doesn't exist, fallback to install
	// (CLI-compatible behavior).
	up := action.NewUpgrade(cfg)
	up.Namespace = ns
	up.Atomic = true
	up.Wait = true
	up.Timeout = 5 * time.Minute
	up.ChartPathOptions.RepoURL = ArgoCDChartRepo
	up.ChartPathOptions.Version = opts.ChartVersion

	chartPath, err := up.ChartPathOptions.LocateChart(ArgoCDChartName, settings)
	if err != nil {
		return fmt.Errorf("locate argo-cd chart: %w", err)
	}
	ch, err := loader.Load(chartPath)
	if err != nil {
		return fmt.Errorf("load argo-cd chart: %w", err)
	}

	// The ApplicationSet controller and the cluster secrets this tool manages
	// both live in the install namespace, so no extra values are needed for a
	// functional hub. Keep the server HA-free for the demo fleet.
	values := map[string]any{
		"fullnameOverride": ArgoCDReleaseName,
		"dex": map[string]any{
			"enabled": false,
		},
		"configs": map[string]any{
			"params": map[string]any{
				"server.insecure": true,
			},
		},
	}
	if len(opts.Values) > 0 {
		values = chartutil.CoalesceTables(opts.Values, values)
	}

	if _, err := up.Run(ArgoCDReleaseName, ch, values); err != nil {
		if stdErrors.Is(err, helmdriver.ErrNoDeployedReleases) {
			in := action.NewInstall(cfg)
			in.Namespace = ns
			in.ReleaseName = ArgoCDReleaseName
			in.Atomic = true
			in.Wait = true
			in.Timeout = 5 * time.Minute
			if _, ierr := in.Run(ch, values); ierr != nil {
				return fmt.Errorf("helm install argo-cd: %w", ierr)
			}
			return i.waitForDeploymentReady(ctx, ns, ArgoCDReleaseName+"-server")
		}
		return fmt.Errorf("helm upgrade argo-cd: %w", err)
	}
	return i.waitForDeploymentReady(ctx, ns, ArgoCDReleaseName+"-server")
}

// UninstallArgoCD removes the Argo CD release. It's best-effort and idempotent.
func (i *Installer) UninstallArgoCD(ctx context.Context, namespace string) error {
	ns := namespace
	if ns == "" {
		ns = ArgoCDReleaseName
	}

	cfg, _, cleanup, err := i.helmConfig(ns)
	if err != nil {
		return err
	}
	defer cleanup()

	un := action.NewUninstall(cfg)
	if _, err := un.Run(ArgoCDReleaseName); err != nil {
		// When the release doesn't exist, treat as success
		if stdErrors.Is(err, helmdriver.ErrReleaseNotFound) {
			return nil
		}
		return fmt.Errorf("helm uninstall argo-cd: %w", err)
	}
	return nil
}

// waitForDeploymentReady polls the deployment until at least one replica is ready or context timeout.
func (i *Installer) waitForDeploymentReady(ctx context.Context, namespace, name string) error {
	if i == nil || i.Client == nil || i.Client.Clientset == nil {
		return fmt.Errorf("kube installer is not initialized")
	}
	// Lightweight poll loop without extra dependencies
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()
	timeout := time.NewTimer(5 * time.Minute)
	defer timeout.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return fmt.Errorf("timeout waiting for deployment %s/%s ready", namespace, name)
		case <-ticker.C:
			dep, err := i.Client.Clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
			if err != nil {
				if apierrors.IsNotFound(err) {
					continue
				}
				// transient error, keep polling
				continue
			}
			if dep.Status.ReadyReplicas >= 1 {
				return nil
			}
		}
	}
}
