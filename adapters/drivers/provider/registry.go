package providerdrv

import (
	"context"

	"github.com/spokeops/spokeops/domain/model"
)

// Driver abstracts provider-specific behavior. Implementations live under
// adapters/drivers/provider/<name> and register themselves by ID.
type Driver interface {
	// ID returns the provider identifier (e.g., "aks").
	ID() string

	// ProviderName returns the provider name associated with this driver instance.
	ProviderName() string

	// ClusterInfo returns the observed state of the target cluster.
	ClusterInfo(ctx context.Context, target *model.ClusterTarget) (*model.ClusterInfo, error)

	// ClusterKubeconfig returns kubeconfig bytes for the target cluster.
	ClusterKubeconfig(ctx context.Context, target *model.ClusterTarget, opts ...model.KubeconfigOption) ([]byte, error)

	// ClusterHarden disables local accounts on the target cluster.
	ClusterHarden(ctx context.Context, target *model.ClusterTarget) (*model.ClusterInfo, error)

	// ClusterList discovers clusters reachable through the provider.
	ClusterList(ctx context.Context, opts ...model.ListClustersOption) ([]*model.DiscoveredCluster, error)

	// IdentityEnsure creates or updates a user-assigned managed identity.
	IdentityEnsure(ctx context.Context, spec *model.IdentitySpec) (*model.Identity, error)

	// IdentityGet looks up an existing managed identity.
	IdentityGet(ctx context.Context, spec *model.IdentitySpec) (*model.Identity, error)

	// IdentityFederate creates or updates an OIDC federated credential on the identity.
	IdentityFederate(ctx context.Context, spec *model.IdentitySpec, fed *model.FederatedCredentialSpec) error

	// RoleGrant ensures role assignments for the identity at the scope.
	RoleGrant(ctx context.Context, identity *model.Identity, scope string, roleNames []string) ([]*model.RoleGrant, error)

	// RoleRevoke deletes the identity's role assignments at the scope.
	RoleRevoke(ctx context.Context, identity *model.Identity, scope string) (int, error)
}

// DriverFactory is a constructor function for a provider driver.
type DriverFactory func(provider *model.Provider) (Driver, error)

// registry holds registered drivers by name.
var registry = map[string]DriverFactory{}

// Register makes a driver available by the given name. Drivers should call
// this from their init() function.
func Register(name string, factory DriverFactory) {
	registry[name] = factory
}

// GetDriverFactory returns the driver factory function for the given name.
func GetDriverFactory(name string) (DriverFactory, bool) {
	factory, exists := registry[name]
	return factory, exists
}
