// Package spoke implements use cases for workload clusters: registering
// them with the hub as Argo CD cluster secrets, credential acquisition,
// fleet discovery, and hardening.
package spoke

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/domain/model"
)

// Repos holds repositories needed for spoke use cases.
type Repos struct {
	Provider domain.ProviderRepository
	Hub      domain.HubRepository
	Spoke    domain.SpokeRepository
}

// UseCase wires repositories and ports needed for spoke use cases.
type UseCase struct {
	Repos        *Repos
	ClusterPort  model.ClusterPort
	IdentityPort model.IdentityPort
	// NewKubeClient overrides Kubernetes client construction when non-nil.
	NewKubeClient func(ctx context.Context, kubeconfig []byte) (*kube.Client, error)
}

// hub returns the hub registration.
func (u *UseCase) hub(ctx context.Context) (*model.Hub, error) {
	hubs, err := u.Repos.Hub.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(hubs) == 0 {
		return nil, model.ErrHubNotFound
	}
	sort.Slice(hubs, func(i, j int) bool { return hubs[i].Name < hubs[j].Name })
	return hubs[0], nil
}

// byName returns the spoke with the given name.
func (u *UseCase) byName(ctx context.Context, name string) (*model.Spoke, error) {
	spokes, err := u.Repos.Spoke.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range spokes {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("spoke %s: %w", name, model.ErrSpokeNotFound)
}

// all returns every spoke sorted by name.
func (u *UseCase) all(ctx context.Context) ([]*model.Spoke, error) {
	spokes, err := u.Repos.Spoke.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(spokes, func(i, j int) bool { return spokes[i].Name < spokes[j].Name })
	return spokes, nil
}

// hubNamespace returns the Argo CD control plane namespace.
func hubNamespace(h *model.Hub) string {
	if h.Namespace != "" {
		return h.Namespace
	}
	return "argocd"
}

// kubeClient builds a Kubernetes client from kubeconfig bytes.
func (u *UseCase) kubeClient(ctx context.Context, kubeconfig []byte) (*kube.Client, error) {
	if u.NewKubeClient != nil {
		return u.NewKubeClient(ctx, kubeconfig)
	}
	return kube.NewClientFromKubeconfig(ctx, kubeconfig, nil)
}

// hubClient builds a client against the hub API with the given login.
func (u *UseCase) hubClient(ctx context.Context, h *model.Hub, login, clientID string) (*kube.Client, error) {
	kubeconfig, err := u.ClusterPort.Kubeconfig(ctx, h.Target(), credentialOptions(login, clientID, "")...)
	if err != nil {
		return nil, fmt.Errorf("get hub credentials: %w", err)
	}
	return u.kubeClient(ctx, kubeconfig)
}

// identityClientID resolves the hub identity client ID for exec
// credentials. The explicit value wins; otherwise the provider is asked.
// Providers without identity support and missing identities yield "".
func (u *UseCase) identityClientID(ctx context.Context, h *model.Hub, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if h.IdentityName == "" {
		return "", nil
	}
	rg := h.IdentityResourceGroup
	if rg == "" {
		rg = h.ResourceGroup
	}
	identity, err := u.IdentityPort.GetIdentity(ctx, &model.IdentitySpec{
		ProviderID:    h.ProviderID,
		Name:          h.IdentityName,
		ResourceGroup: rg,
	})
	if err != nil {
		if errors.Is(err, model.ErrIdentityNotFound) || errors.Is(err, model.ErrUnsupported) {
			return "", nil
		}
		return "", fmt.Errorf("get identity %s: %w", h.IdentityName, err)
	}
	return identity.ClientID, nil
}

// credentialOptions maps login settings to kubeconfig options. An empty
// login requests admin (certificate) credentials.
func credentialOptions(login, clientID, tenantID string) []model.KubeconfigOption {
	if login == "" {
		return []model.KubeconfigOption{model.WithKubeconfigAdmin()}
	}
	opts := []model.KubeconfigOption{model.WithKubeconfigLogin(login)}
	if clientID != "" {
		opts = append(opts, model.WithKubeconfigClientID(clientID))
	}
	if tenantID != "" {
		opts = append(opts, model.WithKubeconfigTenantID(tenantID))
	}
	return opts
}
