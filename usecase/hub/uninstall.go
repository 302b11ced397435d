package hub

import (
	"context"
	"fmt"
	"time"
)

// UninstallInput represents a command to remove Argo CD from the hub.
type UninstallInput struct {
	// Login selects hub credentials; empty uses admin credentials.
	Login    string `json:"login,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	// DeleteNamespace removes the control plane namespace after the release,
	// taking the spoke cluster secrets with it.
	DeleteNamespace bool `json:"delete_namespace,omitempty"`
}

// UninstallOutput represents the response of an Argo CD uninstall.
type UninstallOutput struct {
	HubName          string `json:"hub_name"`
	Namespace        string `json:"namespace"`
	NamespaceDeleted bool   `json:"namespace_deleted"`
}

// Uninstall removes the Argo CD release from the hub cluster. A release
// that is already gone is not an error.
func (u *UseCase) Uninstall(ctx context.Context, in *UninstallInput) (*UninstallOutput, error) {
	if in == nil {
		in = &UninstallInput{}
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
	if err := u.installer(client, kubeconfig).UninstallArgoCD(ctx, ns); err != nil {
		return nil, err
	}

	out := &UninstallOutput{HubName: h.Name, Namespace: ns}
	if in.DeleteNamespace {
		if err := client.DeleteNamespaceAndWait(ctx, ns, 5*time.Minute); err != nil {
			return nil, err
		}
		out.NamespaceDeleted = true
	}
	return out, nil
}
