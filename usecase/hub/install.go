package hub

import (
	"context"
	"fmt"

	"github.com/spokeops/spokeops/adapters/kube"
)

// InstallInput represents a command to install Argo CD on the hub.
type InstallInput struct {
	// Login selects hub credentials; empty uses admin credentials.
	Login    string `json:"login,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	// ChartVersion pins the argo-cd chart version; empty installs the latest.
	ChartVersion string `json:"chart_version,omitempty"`
	// Values are merged over the chart value defaults.
	Values map[string]any `json:"values,omitempty"`
}

// InstallOutput represents the response of an Argo CD install.
type InstallOutput struct {
	HubName   string `json:"hub_name"`
	Namespace string `json:"namespace"`
	Release   string `json:"release"`
}

// Install installs or upgrades the Argo CD control plane on the hub cluster
// and waits for the API server component to become ready.
func (u *UseCase) Install(ctx context.Context, in *InstallInput) (*InstallOutput, error) {
	if in == nil {
		in = &InstallInput{}
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}
	kubeconfig, err := u.ClusterPort.Kubeconfig(ctx, h.Target(), credentialOptions(in.Login, in.ClientID, in.TenantID)...)
	if err != nil {
		return nil, fmt.Errorf("get hub credentials: %w", err)
	}
	client, err := u.kubeClient(ctx, kubeconfig)
	if err != nil {
		return nil, err
	}

	ns := hubNamespace(h)
	if err := u.installer(client, kubeconfig).InstallArgoCD(ctx, &kube.InstallArgoCDOptions{
		Namespace:    ns,
		ChartVersion: in.ChartVersion,
		Values:       in.Values,
	}); err != nil {
		return nil, err
	}
	return &InstallOutput{
		HubName:   h.Name,
		Namespace: ns,
		Release:   kube.ArgoCDReleaseName,
	}, nil
}
