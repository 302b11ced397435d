package spoke

import (
	"context"
	"fmt"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/naming"
)

// StatusInput represents a command to report one spoke's state.
type StatusInput struct {
	// Name of the spoke cluster. Required.
	Name string `json:"name"`
	// HubLogin selects hub API credentials; empty uses admin credentials.
	HubLogin    string `json:"hub_login,omitempty"`
	HubClientID string `json:"hub_client_id,omitempty"`
}

// StatusOutput represents the response of a spoke status query.
type StatusOutput struct {
	SpokeName   string             `json:"spoke_name"`
	Environment string             `json:"environment,omitempty"`
	Cluster     *model.ClusterInfo `json:"cluster"`
	// Registered is true when the hub holds a cluster secret for the spoke.
	Registered bool   `json:"registered"`
	SecretName string `json:"secret_name,omitempty"`
	Server     string `json:"server,omitempty"`
	// Nodes reports node readiness when the spoke API was reachable.
	Nodes *kube.NodeSummary `json:"nodes,omitempty"`
}

// Status reports the spoke's provider state and whether it is registered
// with the hub.
func (u *UseCase) Status(ctx context.Context, in *StatusInput) (*StatusOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.ErrSpokeInvalid
	}

	s, err := u.byName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	info, err := u.ClusterPort.ClusterInfo(ctx, s.Target())
	if err != nil {
		return nil, fmt.Errorf("inspect spoke cluster %s: %w", s.Name, err)
	}

	out := &StatusOutput{SpokeName: s.Name, Environment: s.Environment, Cluster: info}

	// Node readiness is a best-effort probe. Hardened spokes reject the
	// admin credentials it uses, leaving Nodes unset.
	if kc, kerr := u.ClusterPort.Kubeconfig(ctx, s.Target(), model.WithKubeconfigAdmin()); kerr == nil {
		if client, cerr := u.kubeClient(ctx, kc); cerr == nil {
			if sum, serr := client.GetNodeSummary(ctx); serr == nil {
				out.Nodes = sum
			}
		}
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}
	client, err := u.hubClient(ctx, h, in.HubLogin, in.HubClientID)
	if err != nil {
		return nil, err
	}
	secrets, err := client.ListSecretsBySelector(ctx, hubNamespace(h), argocd.ClusterSecretSelector())
	if err != nil {
		return nil, err
	}
	secretName := naming.ClusterSecretName(s.Name)
	for i := range secrets {
		if secrets[i].Name != secretName {
			continue
		}
		entry, err := argocd.ClusterFromSecret(&secrets[i])
		if err != nil {
			return nil, err
		}
		out.Registered = true
		out.SecretName = secretName
		out.Server = entry.Server
		if env := entry.Environment(); env != "" {
			out.Environment = env
		}
		break
	}
	return out, nil
}
