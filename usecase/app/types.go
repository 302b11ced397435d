// Package app implements use cases for the demo verification workload: a
// Deployment plus LoadBalancer Service deployed to a spoke cluster to prove
// the fleet wiring end to end.
package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/domain/model"
)

// Repos holds repositories needed for app use cases.
type Repos struct {
	Provider domain.ProviderRepository
	Hub      domain.HubRepository
	Spoke    domain.SpokeRepository
	App      domain.AppRepository
}

// UseCase wires repositories and ports needed for app use cases.
type UseCase struct {
	Repos       *Repos
	ClusterPort model.ClusterPort
	// NewKubeClient overrides Kubernetes client construction when non-nil.
	NewKubeClient func(ctx context.Context, kubeconfig []byte) (*kube.Client, error)
}

// app returns the named app, or the first by name when name is empty. The
// configuration seeds exactly one.
func (u *UseCase) app(ctx context.Context, name string) (*model.App, error) {
	apps, err := u.Repos.App.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	if name == "" {
		if len(apps) == 0 {
			return nil, model.ErrAppNotFound
		}
		return apps[0], nil
	}
	for _, a := range apps {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("app %s: %w", name, model.ErrAppNotFound)
}

// target resolves the cluster the workload runs on: the named spoke, the hub
// when the name matches it, or the first spoke by name when empty.
func (u *UseCase) target(ctx context.Context, spokeName string) (*model.ClusterTarget, error) {
	if spokeName != "" {
		hubs, err := u.Repos.Hub.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, h := range hubs {
			if h.Name == spokeName {
				return h.Target(), nil
			}
		}
	}

	spokes, err := u.Repos.Spoke.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(spokes, func(i, j int) bool { return spokes[i].Name < spokes[j].Name })
	if spokeName == "" {
		if len(spokes) == 0 {
			return nil, model.ErrSpokeNotFound
		}
		return spokes[0].Target(), nil
	}
	for _, s := range spokes {
		if s.Name == spokeName {
			return s.Target(), nil
		}
	}
	return nil, fmt.Errorf("spoke %s: %w", spokeName, model.ErrSpokeNotFound)
}

// kubeClient builds a Kubernetes client from kubeconfig bytes.
func (u *UseCase) kubeClient(ctx context.Context, kubeconfig []byte) (*kube.Client, error) {
	if u.NewKubeClient != nil {
		return u.NewKubeClient(ctx, kubeconfig)
	}
	return kube.NewClientFromKubeconfig(ctx, kubeconfig, nil)
}

// targetClient acquires credentials for the target cluster and builds a client.
func (u *UseCase) targetClient(ctx context.Context, target *model.ClusterTarget, login, clientID, tenantID string) (*kube.Client, error) {
	data, err := u.ClusterPort.Kubeconfig(ctx, target, credentialOptions(login, clientID, tenantID)...)
	if err != nil {
		return nil, fmt.Errorf("get credentials for cluster %s: %w", target.Name, err)
	}
	return u.kubeClient(ctx, data)
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
