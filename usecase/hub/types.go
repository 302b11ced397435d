// Package hub implements use cases for the management cluster: identity
// bootstrap, role grants over the spoke fleet, Argo CD installation, and
// credential acquisition.
package hub

import (
	"context"
	"fmt"
	"sort"

	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/domain/model"
)

// Repos holds repositories needed for hub use cases.
type Repos struct {
	Provider domain.ProviderRepository
	Hub      domain.HubRepository
	Spoke    domain.SpokeRepository
}

// ArgoInstaller abstracts the Argo CD chart operations of kube.Installer.
type ArgoInstaller interface {
	InstallArgoCD(ctx context.Context, opts *kube.InstallArgoCDOptions) error
	UninstallArgoCD(ctx context.Context, namespace string) error
}

// UseCase wires repositories and ports needed for hub use cases.
type UseCase struct {
	Repos        *Repos
	ClusterPort  model.ClusterPort
	IdentityPort model.IdentityPort
	// NewKubeClient overrides Kubernetes client construction when non-nil.
	NewKubeClient func(ctx context.Context, kubeconfig []byte) (*kube.Client, error)
	// NewInstaller overrides Argo CD installer construction when non-nil.
	NewInstaller func(c *kube.Client, kubeconfig []byte) ArgoInstaller
}

// hub returns the hub registration. The configuration seeds exactly one;
// with a database backend the first by name wins.
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

// spokes returns all spokes sorted by name, or the named subset in the
// given order.
func (u *UseCase) spokes(ctx context.Context, names []string) ([]*model.Spoke, error) {
	all, err := u.Repos.Spoke.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]*model.Spoke, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}
	out := make([]*model.Spoke, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("spoke %s: %w", name, model.ErrSpokeNotFound)
		}
		out = append(out, s)
	}
	return out, nil
}

// identitySpec returns the hub identity coordinates. The identity resource
// group defaults to the hub resource group.
func identitySpec(h *model.Hub) (*model.IdentitySpec, error) {
	if h.IdentityName == "" {
		return nil, fmt.Errorf("hub %s has no identity name: %w", h.Name, model.ErrHubInvalid)
	}
	rg := h.IdentityResourceGroup
	if rg == "" {
		rg = h.ResourceGroup
	}
	return &model.IdentitySpec{
		ProviderID:    h.ProviderID,
		Name:          h.IdentityName,
		ResourceGroup: rg,
	}, nil
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

// installer builds the Argo CD installer bound to the hub credentials.
func (u *UseCase) installer(c *kube.Client, kubeconfig []byte) ArgoInstaller {
	if u.NewInstaller != nil {
		return u.NewInstaller(c, kubeconfig)
	}
	return kube.NewInstaller(c, kubeconfig)
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
