package aks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/msi/armmsi"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/naming"
)

// defaultFederationAudience is the fixed audience of AKS workload identity
// federation tokens.
const defaultFederationAudience = "api://AzureADTokenExchange"

// isNotFoundError checks if an error is a 404 Not Found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusNotFound
	}
	return false
}

// identityClient creates a user-assigned identities client.
func (d *driver) identityClient() (*armmsi.UserAssignedIdentitiesClient, error) {
	client, err := armmsi.NewUserAssignedIdentitiesClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create identity client: %w", err)
	}
	return client, nil
}

// resolveIdentitySpec validates an identity spec for ARM calls.
func resolveIdentitySpec(spec *model.IdentitySpec) error {
	if spec == nil {
		return fmt.Errorf("identity spec is nil")
	}
	if spec.Name == "" {
		return fmt.Errorf("identity name is required")
	}
	if spec.ResourceGroup == "" {
		return fmt.Errorf("resource group is required for identity %s", spec.Name)
	}
	return nil
}

// resolveLocation returns the location for a new identity, falling back to
// the provider setting and finally the resource group's own location.
func (d *driver) resolveLocation(ctx context.Context, spec *model.IdentitySpec) (string, error) {
	if spec.Location != "" {
		return spec.Location, nil
	}
	if d.AzureLocation != "" {
		return d.AzureLocation, nil
	}
	rgClient, err := armresources.NewResourceGroupsClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return "", fmt.Errorf("create resource groups client: %w", err)
	}
	rg, err := rgClient.Get(ctx, spec.ResourceGroup, nil)
	if err != nil {
		if isNotFoundError(err) {
			return "", fmt.Errorf("resource group %s does not exist", spec.ResourceGroup)
		}
		return "", fmt.Errorf("get resource group %s: %w", spec.ResourceGroup, err)
	}
	if rg.Location == nil {
		return "", fmt.Errorf("resource group %s has no location", spec.ResourceGroup)
	}
	return *rg.Location, nil
}

// toIdentity condenses an ARM identity into the domain view.
func toIdentity(providerID string, id *armmsi.Identity) *model.Identity {
	identity := &model.Identity{ProviderID: providerID}
	if id == nil {
		return identity
	}
	if id.Name != nil {
		identity.Name = *id.Name
	}
	if id.ID != nil {
		identity.ResourceID = *id.ID
	}
	if p := id.Properties; p != nil {
		if p.ClientID != nil {
			identity.ClientID = *p.ClientID
		}
		if p.PrincipalID != nil {
			identity.PrincipalID = *p.PrincipalID
		}
		if p.TenantID != nil {
			identity.TenantID = *p.TenantID
		}
	}
	return identity
}

// IdentityEnsure creates or updates a user-assigned managed identity, the
// ARM equivalent of `az identity create`.
func (d *driver) IdentityEnsure(ctx context.Context, spec *model.IdentitySpec) (identity *model.Identity, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "IdentityEnsure")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := resolveIdentitySpec(spec); err != nil {
		return nil, err
	}
	location, err := d.resolveLocation(ctx, spec)
	if err != nil {
		return nil, err
	}

	var tags map[string]*string
	if len(spec.Tags) > 0 {
		tags = make(map[string]*string, len(spec.Tags))
		for k, v := range spec.Tags {
			tags[k] = to.Ptr(v)
		}
	}

	client, err := d.identityClient()
	if err != nil {
		return nil, err
	}
	resp, err := client.CreateOrUpdate(ctx, spec.ResourceGroup, spec.Name, armmsi.Identity{
		Location: to.Ptr(location),
		Tags:     tags,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create identity %s: %w", spec.Name, err)
	}
	return toIdentity(spec.ProviderID, &resp.Identity), nil
}

// IdentityGet looks up an existing managed identity.
func (d *driver) IdentityGet(ctx context.Context, spec *model.IdentitySpec) (identity *model.Identity, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "IdentityGet")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := resolveIdentitySpec(spec); err != nil {
		return nil, err
	}
	client, err := d.identityClient()
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, spec.ResourceGroup, spec.Name, nil)
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("identity %s in %s: %w", spec.Name, spec.ResourceGroup, model.ErrIdentityNotFound)
		}
		return nil, fmt.Errorf("get identity %s: %w", spec.Name, err)
	}
	return toIdentity(spec.ProviderID, &resp.Identity), nil
}

// IdentityFederate creates or updates an OIDC federated credential binding a
// Kubernetes service account to the identity, the ARM equivalent of
// `az identity federated-credential create`. The credential name is derived
// from issuer and subject when the spec leaves it empty, so repeated calls
// converge on the same resource.
func (d *driver) IdentityFederate(ctx context.Context, spec *model.IdentitySpec, fed *model.FederatedCredentialSpec) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "IdentityFederate")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := resolveIdentitySpec(spec); err != nil {
		return err
	}
	if fed == nil || fed.Issuer == "" || fed.Subject == "" {
		return fmt.Errorf("federated credential issuer and subject are required")
	}
	name := fed.Name
	if name == "" {
		name = naming.FederatedCredentialName(fed.Issuer, fed.Subject)
	}
	audience := fed.Audience
	if audience == "" {
		audience = defaultFederationAudience
	}

	fedClient, err := armmsi.NewFederatedIdentityCredentialsClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return fmt.Errorf("create federated credentials client: %w", err)
	}
	_, err = fedClient.CreateOrUpdate(ctx, spec.ResourceGroup, spec.Name, name, armmsi.FederatedIdentityCredential{
		Properties: &armmsi.FederatedIdentityCredentialProperties{
			Issuer:    to.Ptr(fed.Issuer),
			Subject:   to.Ptr(fed.Subject),
			Audiences: []*string{to.Ptr(audience)},
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("create federated credential %s on %s: %w", name, spec.Name, err)
	}
	return nil
}
