package model

import "context"

// ClusterTarget identifies one cluster for provider driver operations.
// Hub and Spoke both resolve to a target via their Target() methods.
type ClusterTarget struct {
	ProviderID    string
	Name          string
	ResourceGroup string
	// Kubeconfig is a file path used by the static driver; cloud drivers ignore it.
	Kubeconfig string
}

// ClusterInfo describes the observed state of a cluster.
type ClusterInfo struct {
	Name              string `json:"name"`
	ResourceID        string `json:"resourceID,omitempty"`
	FQDN              string `json:"fqdn,omitempty"`
	Location          string `json:"location,omitempty"`
	KubernetesVersion string `json:"kubernetesVersion,omitempty"`
	ProvisioningState string `json:"provisioningState,omitempty"`
	// OIDCIssuerURL is the workload identity federation issuer, empty when disabled.
	OIDCIssuerURL string `json:"oidcIssuerURL,omitempty"`
	// LocalAccounts is false when the cluster rejects admin (certificate) credentials.
	LocalAccounts bool `json:"localAccounts"`
	// AADEnabled reports whether Entra ID integration is active.
	AADEnabled bool `json:"aadEnabled"`
}

// DiscoveredCluster is one row of a fleet discovery query.
type DiscoveredCluster struct {
	Name          string `json:"name"`
	ResourceGroup string `json:"resourceGroup"`
	Location      string `json:"location"`
	ResourceID    string `json:"resourceID"`
}

// KubeconfigOptions tunes credential acquisition.
type KubeconfigOptions struct {
	// Admin requests local-account (certificate) credentials.
	Admin bool
	// Login, when non-empty, converts user credentials to the kubelogin exec
	// plugin with the given login mode (azurecli, workloadidentity, msi, spn,
	// interactive, devicecode). Ignored for admin credentials.
	Login string
	// ClientID narrows msi/spn logins to a specific identity.
	ClientID string
	// TenantID overrides the tenant for spn/interactive logins.
	TenantID string
}

// KubeconfigOption mutates KubeconfigOptions.
type KubeconfigOption func(*KubeconfigOptions)

// WithKubeconfigAdmin requests admin (local account) credentials.
func WithKubeconfigAdmin() KubeconfigOption {
	return func(o *KubeconfigOptions) { o.Admin = true }
}

// WithKubeconfigLogin converts user credentials to kubelogin exec auth.
func WithKubeconfigLogin(mode string) KubeconfigOption {
	return func(o *KubeconfigOptions) { o.Login = mode }
}

// WithKubeconfigClientID sets the identity client ID for msi/spn logins.
func WithKubeconfigClientID(clientID string) KubeconfigOption {
	return func(o *KubeconfigOptions) { o.ClientID = clientID }
}

// WithKubeconfigTenantID sets the tenant ID for spn/interactive logins.
func WithKubeconfigTenantID(tenantID string) KubeconfigOption {
	return func(o *KubeconfigOptions) { o.TenantID = tenantID }
}

// ListClustersOptions tunes fleet discovery.
type ListClustersOptions struct {
	// TagKey/TagValue filter clusters by an Azure resource tag when TagKey is set.
	TagKey   string
	TagValue string
}

// ListClustersOption mutates ListClustersOptions.
type ListClustersOption func(*ListClustersOptions)

// WithListClustersTag filters discovery by resource tag.
func WithListClustersTag(key, value string) ListClustersOption {
	return func(o *ListClustersOptions) { o.TagKey, o.TagValue = key, value }
}

// ClusterPort exposes provider cluster operations to use cases.
type ClusterPort interface {
	// ClusterInfo returns the observed state of the target cluster.
	ClusterInfo(ctx context.Context, target *ClusterTarget) (*ClusterInfo, error)
	// Kubeconfig returns kubeconfig bytes for the target cluster.
	Kubeconfig(ctx context.Context, target *ClusterTarget, opts ...KubeconfigOption) ([]byte, error)
	// HardenCluster disables local accounts on the target cluster and returns
	// the resulting state.
	HardenCluster(ctx context.Context, target *ClusterTarget) (*ClusterInfo, error)
	// ListClusters discovers clusters reachable through the provider.
	ListClusters(ctx context.Context, providerID string, opts ...ListClustersOption) ([]*DiscoveredCluster, error)
}
