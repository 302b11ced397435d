// Package bootstrap implements use cases for the GitOps wiring of the
// fleet: the spoke-bootstrap ApplicationSet on the hub and the optional
// workload identity RBAC bundle on the spokes.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/domain/model"
)

// Repos holds repositories needed for bootstrap use cases.
type Repos struct {
	Provider domain.ProviderRepository
	Hub      domain.HubRepository
	Spoke    domain.SpokeRepository
}

// UseCase wires repositories and ports needed for bootstrap use cases.
type UseCase struct {
	Repos        *Repos
	ClusterPort  model.ClusterPort
	IdentityPort model.IdentityPort
	// NewKubeClient overrides Kubernetes client construction when non-nil.
	NewKubeClient func(ctx context.Context, kubeconfig []byte) (*kube.Client, error)
}

// Source locates the GitOps repository driving the spoke fleet. The CLI
// fills it from spokeops.yml; flags override individual fields.
type Source struct {
	// RepoURL is the Git repository holding the bootstrap overlays. Required.
	RepoURL string `json:"repo_url"`
	// Revision is the target revision; empty means "main".
	Revision string `json:"revision,omitempty"`
	// BootstrapPath is the overlay parent directory; empty means
	// "argo/spoke-bootstrap/overlays".
	BootstrapPath string `json:"bootstrap_path,omitempty"`
	// Project is the Argo CD project; empty means "default".
	Project string `json:"project,omitempty"`
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

// hubNamespace returns the Argo CD control plane namespace.
func hubNamespace(h *model.Hub) string {
	if h.Namespace != "" {
		return h.Namespace
	}
	return "argocd"
}

// appSetSpec translates a source into the ApplicationSet build spec.
func appSetSpec(src *Source, h *model.Hub) argocd.BootstrapSpec {
	return argocd.BootstrapSpec{
		RepoURL:       src.RepoURL,
		Revision:      src.Revision,
		BootstrapPath: src.BootstrapPath,
		Project:       src.Project,
		Namespace:     hubNamespace(h),
	}
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

// identityClientID resolves the hub identity client ID for the RBAC bundle.
// The explicit value wins; otherwise the provider is asked. An empty result
// is an error because the bundle is meaningless without it.
func (u *UseCase) identityClientID(ctx context.Context, h *model.Hub, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if h.IdentityName == "" {
		return "", fmt.Errorf("hub %s has no identity; pass an identity client ID or run hub grant first", h.Name)
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
			return "", fmt.Errorf("hub identity %s is not provisioned; run hub grant first", h.IdentityName)
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
