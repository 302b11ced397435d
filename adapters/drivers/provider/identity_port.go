package providerdrv

import (
	"context"
	"fmt"

	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/domain/model"
)

// identityPortAdapter implements model.IdentityPort backed by provider drivers.
type identityPortAdapter struct {
	providers domain.ProviderRepository
}

// getDriver builds the driver for the given identity spec.
func (a *identityPortAdapter) getDriver(ctx context.Context, spec *model.IdentitySpec) (Driver, error) {
	if spec == nil {
		return nil, fmt.Errorf("identity spec is nil")
	}
	return driverFor(ctx, a.providers, spec.ProviderID)
}

// roleDriver builds the driver for a materialized identity.
func (a *identityPortAdapter) roleDriver(ctx context.Context, identity *model.Identity) (Driver, error) {
	if identity == nil {
		return nil, fmt.Errorf("identity is nil")
	}
	return driverFor(ctx, a.providers, identity.ProviderID)
}

func (a *identityPortAdapter) EnsureIdentity(ctx context.Context, spec *model.IdentitySpec) (*model.Identity, error) {
	drv, err := a.getDriver(ctx, spec)
	if err != nil {
		return nil, err
	}
	return drv.IdentityEnsure(ctx, spec)
}

func (a *identityPortAdapter) GetIdentity(ctx context.Context, spec *model.IdentitySpec) (*model.Identity, error) {
	drv, err := a.getDriver(ctx, spec)
	if err != nil {
		return nil, err
	}
	return drv.IdentityGet(ctx, spec)
}

func (a *identityPortAdapter) EnsureFederatedCredential(ctx context.Context, spec *model.IdentitySpec, fed *model.FederatedCredentialSpec) error {
	drv, err := a.getDriver(ctx, spec)
	if err != nil {
		return err
	}
	return drv.IdentityFederate(ctx, spec, fed)
}

func (a *identityPortAdapter) GrantRoles(ctx context.Context, identity *model.Identity, scope string, roleNames []string) ([]*model.RoleGrant, error) {
	drv, err := a.roleDriver(ctx, identity)
	if err != nil {
		return nil, err
	}
	return drv.RoleGrant(ctx, identity, scope, roleNames)
}

func (a *identityPortAdapter) RevokeRoles(ctx context.Context, identity *model.Identity, scope string) (int, error) {
	drv, err := a.roleDriver(ctx, identity)
	if err != nil {
		return 0, err
	}
	return drv.RoleRevoke(ctx, identity, scope)
}

// GetIdentityPort returns a model.IdentityPort implemented via provider drivers.
func GetIdentityPort(providers domain.ProviderRepository) model.IdentityPort {
	return &identityPortAdapter{providers: providers}
}
