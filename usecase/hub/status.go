package hub

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/domain/model"
)

// argoCDDeployments are the control plane components checked by Status.
// The application controller runs as a StatefulSet and is not listed.
var argoCDDeployments = []string{
	"argocd-server",
	"argocd-repo-server",
	"argocd-applicationset-controller",
}

// StatusInput represents a command to report hub state.
type StatusInput struct {
	// Login selects hub credentials; empty uses admin credentials.
	Login    string `json:"login,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// StatusOutput represents the response of a hub status query.
type StatusOutput struct {
	HubName   string             `json:"hub_name"`
	Cluster   *model.ClusterInfo `json:"cluster"`
	Identity  *model.Identity    `json:"identity,omitempty"`
	Namespace string             `json:"namespace"`
	// Installed reports whether the Argo CD API server Deployment exists.
	Installed   bool                     `json:"installed"`
	Deployments []*kube.DeploymentStatus `json:"deployments,omitempty"`
	// RegisteredSpokes counts the spoke cluster secrets on the hub.
	RegisteredSpokes int `json:"registered_spokes"`
}

// Status reports the hub cluster state, the managed identity, the Argo CD
// component rollout, and how many spokes are registered.
func (u *UseCase) Status(ctx context.Context, in *StatusInput) (*StatusOutput, error) {
	if in == nil {
		in = &StatusInput{}
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}
	info, err := u.ClusterPort.ClusterInfo(ctx, h.Target())
	if err != nil {
		return nil, fmt.Errorf("inspect hub cluster %s: %w", h.Name, err)
	}

	out := &StatusOutput{HubName: h.Name, Cluster: info, Namespace: hubNamespace(h)}

	// Identity state is informational; absence or an unsupported driver is
	// not an error here.
	if spec, err := identitySpec(h); err == nil {
		identity, err := u.IdentityPort.GetIdentity(ctx, spec)
		if err == nil {
			out.Identity = identity
		} else if !errors.Is(err, model.ErrIdentityNotFound) && !errors.Is(err, model.ErrUnsupported) {
			return nil, fmt.Errorf("get identity %s: %w", spec.Name, err)
		}
	}

	kubeconfig, err := u.ClusterPort.Kubeconfig(ctx, h.Target(), credentialOptions(in.Login, in.ClientID, in.TenantID)...)
	if err != nil {
		return nil, fmt.Errorf("get hub credentials: %w", err)
	}
	client, err := u.kubeClient(ctx, kubeconfig)
	if err != nil {
		return nil, err
	}

	for _, name := range argoCDDeployments {
		st, err := client.GetDeploymentStatus(ctx, out.Namespace, name)
		if err != nil {
			if apierrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out.Deployments = append(out.Deployments, st)
		if name == "argocd-server" {
			out.Installed = true
		}
	}

	secrets, err := client.ListSecretsBySelector(ctx, out.Namespace, argocd.ClusterSecretSelector())
	if err != nil {
		return nil, err
	}
	out.RegisteredSpokes = len(secrets)
	return out, nil
}
