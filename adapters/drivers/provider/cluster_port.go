package providerdrv

import (
	"context"
	"fmt"

	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/domain/model"
)

// clusterPortAdapter implements model.ClusterPort backed by provider drivers.
type clusterPortAdapter struct {
	providers domain.ProviderRepository
}

// getDriver builds the driver for the given provider ID.
func (a *clusterPortAdapter) getDriver(ctx context.Context, providerID string) (Driver, error) {
	return driverFor(ctx, a.providers, providerID)
}

func (a *clusterPortAdapter) ClusterInfo(ctx context.Context, target *model.ClusterTarget) (*model.ClusterInfo, error) {
	if target == nil {
		return nil, fmt.Errorf("cluster target is nil")
	}
	drv, err := a.getDriver(ctx, target.ProviderID)
	if err != nil {
		return nil, err
	}
	return drv.ClusterInfo(ctx, target)
}

func (a *clusterPortAdapter) Kubeconfig(ctx context.Context, target *model.ClusterTarget, opts ...model.KubeconfigOption) ([]byte, error) {
	if target == nil {
		return nil, fmt.Errorf("cluster target is nil")
	}
	drv, err := a.getDriver(ctx, target.ProviderID)
	if err != nil {
		return nil, err
	}
	return drv.ClusterKubeconfig(ctx, target, opts...)
}

func (a *clusterPortAdapter) HardenCluster(ctx context.Context, target *model.ClusterTarget) (*model.ClusterInfo, error) {
	if target == nil {
		return nil, fmt.Errorf("cluster target is nil")
	}
	drv, err := a.getDriver(ctx, target.ProviderID)
	if err != nil {
		return nil, err
	}
	return drv.ClusterHarden(ctx, target)
}

func (a *clusterPortAdapter) ListClusters(ctx context.Context, providerID string, opts ...model.ListClustersOption) ([]*model.DiscoveredCluster, error) {
	drv, err := a.getDriver(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return drv.ClusterList(ctx, opts...)
}

// GetClusterPort returns a model.ClusterPort implemented via provider drivers.
func GetClusterPort(providers domain.ProviderRepository) model.ClusterPort {
	return &clusterPortAdapter{providers: providers}
}

// driverFor resolves a provider by ID and instantiates its registered driver.
func driverFor(ctx context.Context, providers domain.ProviderRepository, providerID string) (Driver, error) {
	provider, err := providers.Get(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider %s: %w", providerID, err)
	}
	factory, ok := GetDriverFactory(provider.Driver)
	if !ok {
		return nil, fmt.Errorf("unknown provider driver: %s", provider.Driver)
	}
	drv, err := factory(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver %s: %w", provider.Driver, err)
	}
	return drv, nil
}
