// Package aks implements the provider driver for Azure Kubernetes Service.
// It covers the fleet lifecycle against ARM: managed identity and federated
// credentials, Azure RBAC role assignments, credential acquisition, local
// account hardening, and Resource Graph discovery.
package aks

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	providerdrv "github.com/spokeops/spokeops/adapters/drivers/provider"
	"github.com/spokeops/spokeops/domain/model"
)

// Setting keys recognized in provider.settings.
const (
	keySubscriptionID     = "AZURE_SUBSCRIPTION_ID"
	keyAuthMethod         = "AZURE_AUTH_METHOD"
	keyTenantID           = "AZURE_TENANT_ID"
	keyClientID           = "AZURE_CLIENT_ID"
	keyClientSecret       = "AZURE_CLIENT_SECRET"
	keyFederatedTokenFile = "AZURE_FEDERATED_TOKEN_FILE"
	keyLocation           = "AZURE_LOCATION"
)

// driver implements the AKS provider driver.
type driver struct {
	TokenCredential     azcore.TokenCredential
	AzureSubscriptionId string
	AzureLocation       string
	providerName        string
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "aks" }

// ProviderName returns the provider name associated with this driver instance.
func (d *driver) ProviderName() string { return d.providerName }

// init registers the AKS driver.
func init() {
	providerdrv.Register("aks", func(provider *model.Provider) (providerdrv.Driver, error) {
		if provider == nil {
			return nil, fmt.Errorf("provider is nil")
		}
		get := func(k string) string {
			if provider.Settings == nil {
				return ""
			}
			return strings.TrimSpace(provider.Settings[k])
		}

		subscriptionID := get(keySubscriptionID)
		if subscriptionID == "" {
			return nil, fmt.Errorf("missing required AKS setting: %s", keySubscriptionID)
		}

		cred, err := newCredential(get)
		if err != nil {
			return nil, fmt.Errorf("create Azure credential: %w", err)
		}

		return &driver{
			TokenCredential:     cred,
			AzureSubscriptionId: subscriptionID,
			AzureLocation:       get(keyLocation),
			providerName:        provider.Name,
		}, nil
	})
}

// newCredential builds a token credential from the AZURE_AUTH_METHOD setting.
// Settings not present fall back to the ambient environment, which azidentity
// reads on its own for the workload identity and default chains.
func newCredential(get func(string) string) (azcore.TokenCredential, error) {
	switch method := get(keyAuthMethod); method {
	case "client_secret":
		tenantID := get(keyTenantID)
		clientID := get(keyClientID)
		clientSecret := get(keyClientSecret)
		if tenantID == "" || clientID == "" || clientSecret == "" {
			return nil, fmt.Errorf("client_secret auth requires %s, %s, %s", keyTenantID, keyClientID, keyClientSecret)
		}
		return azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)

	case "managed_identity":
		opts := &azidentity.ManagedIdentityCredentialOptions{}
		if clientID := get(keyClientID); clientID != "" {
			opts.ID = azidentity.ClientID(clientID)
		}
		return azidentity.NewManagedIdentityCredential(opts)

	case "workload_identity":
		// AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_FEDERATED_TOKEN_FILE and
		// AZURE_AUTHORITY_HOST come from the pod environment when not set here.
		opts := &azidentity.WorkloadIdentityCredentialOptions{
			TenantID:      get(keyTenantID),
			ClientID:      get(keyClientID),
			TokenFilePath: get(keyFederatedTokenFile),
		}
		return azidentity.NewWorkloadIdentityCredential(opts)

	case "azure_cli":
		return azidentity.NewAzureCLICredential(nil)

	case "azure_developer_cli":
		return azidentity.NewAzureDeveloperCLICredential(nil)

	case "", "default":
		return azidentity.NewDefaultAzureCredential(nil)

	default:
		return nil, fmt.Errorf("unsupported %s: %s", keyAuthMethod, method)
	}
}
