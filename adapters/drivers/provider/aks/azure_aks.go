package aks

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v4"
	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/kubeconfig"
	"k8s.io/client-go/tools/clientcmd"
)

// managedClustersClient creates an AKS managed clusters client.
func (d *driver) managedClustersClient() (*armcontainerservice.ManagedClustersClient, error) {
	client, err := armcontainerservice.NewManagedClustersClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create AKS client: %w", err)
	}
	return client, nil
}

// resolveTarget validates a cluster target for ARM calls.
func resolveTarget(target *model.ClusterTarget) (rg string, name string, err error) {
	if target == nil {
		return "", "", fmt.Errorf("cluster target is nil")
	}
	if target.Name == "" {
		return "", "", fmt.Errorf("cluster name is required")
	}
	if target.ResourceGroup == "" {
		return "", "", fmt.Errorf("resource group is required for cluster %s", target.Name)
	}
	return target.ResourceGroup, target.Name, nil
}

// toClusterInfo condenses an ARM managed cluster into the domain view.
func toClusterInfo(mc *armcontainerservice.ManagedCluster) *model.ClusterInfo {
	info := &model.ClusterInfo{LocalAccounts: true}
	if mc == nil {
		return info
	}
	if mc.Name != nil {
		info.Name = *mc.Name
	}
	if mc.ID != nil {
		info.ResourceID = *mc.ID
	}
	if mc.Location != nil {
		info.Location = *mc.Location
	}
	p := mc.Properties
	if p == nil {
		return info
	}
	if p.Fqdn != nil {
		info.FQDN = *p.Fqdn
	}
	if p.PrivateFQDN != nil && *p.PrivateFQDN != "" {
		info.FQDN = *p.PrivateFQDN
	}
	if p.KubernetesVersion != nil {
		info.KubernetesVersion = *p.KubernetesVersion
	}
	if p.ProvisioningState != nil {
		info.ProvisioningState = *p.ProvisioningState
	}
	if p.DisableLocalAccounts != nil {
		info.LocalAccounts = !*p.DisableLocalAccounts
	}
	if oidc := p.OidcIssuerProfile; oidc != nil && oidc.Enabled != nil && *oidc.Enabled && oidc.IssuerURL != nil {
		info.OIDCIssuerURL = *oidc.IssuerURL
	}
	if aad := p.AADProfile; aad != nil && aad.Managed != nil {
		info.AADEnabled = *aad.Managed
	}
	return info
}

// ClusterInfo returns the observed state of the target AKS cluster.
func (d *driver) ClusterInfo(ctx context.Context, target *model.ClusterTarget) (info *model.ClusterInfo, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterInfo")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rg, name, err := resolveTarget(target)
	if err != nil {
		return nil, err
	}
	client, err := d.managedClustersClient()
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, rg, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get AKS cluster %s: %w", name, err)
	}
	return toClusterInfo(&resp.ManagedCluster), nil
}

// ClusterKubeconfig returns kubeconfig bytes for the target cluster.
//
// Admin credentials come from ListClusterAdminCredentials and fail fast with
// model.ErrLocalAccountsDisabled once the cluster is hardened. User
// credentials come from ListClusterUserCredentials and are optionally
// rewritten to the kubelogin exec plugin, matching
// `kubelogin convert-kubeconfig -l <mode>`.
func (d *driver) ClusterKubeconfig(ctx context.Context, target *model.ClusterTarget, opts ...model.KubeconfigOption) (kc []byte, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterKubeconfig")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	var o model.KubeconfigOptions
	for _, opt := range opts {
		opt(&o)
	}

	rg, name, err := resolveTarget(target)
	if err != nil {
		return nil, err
	}
	client, err := d.managedClustersClient()
	if err != nil {
		return nil, err
	}

	if o.Admin {
		cluster, err := client.Get(ctx, rg, name, nil)
		if err != nil {
			return nil, fmt.Errorf("get AKS cluster %s: %w", name, err)
		}
		if !toClusterInfo(&cluster.ManagedCluster).LocalAccounts {
			return nil, fmt.Errorf("cluster %s: %w", name, model.ErrLocalAccountsDisabled)
		}
		resp, err := client.ListClusterAdminCredentials(ctx, rg, name, nil)
		if err != nil {
			return nil, fmt.Errorf("get admin credentials for %s: %w", name, err)
		}
		return kubeconfigFromCredentials(resp.CredentialResults, name)
	}

	resp, err := client.ListClusterUserCredentials(ctx, rg, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get user credentials for %s: %w", name, err)
	}
	raw, err := kubeconfigFromCredentials(resp.CredentialResults, name)
	if err != nil {
		return nil, err
	}
	if o.Login == "" {
		return raw, nil
	}

	cfg, err := clientcmd.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("parse kubeconfig for %s: %w", name, err)
	}
	if _, err := kubeconfig.ConvertToKubelogin(cfg, kubeconfig.ConvertOptions{
		Login:    o.Login,
		ClientID: o.ClientID,
		TenantID: o.TenantID,
	}); err != nil {
		return nil, fmt.Errorf("convert kubeconfig for %s: %w", name, err)
	}
	return clientcmd.Write(*cfg)
}

// kubeconfigFromCredentials extracts the first kubeconfig from a credential
// result list.
func kubeconfigFromCredentials(results armcontainerservice.CredentialResults, clusterName string) ([]byte, error) {
	if len(results.Kubeconfigs) == 0 || len(results.Kubeconfigs[0].Value) == 0 {
		return nil, fmt.Errorf("no kubeconfig returned for cluster %s", clusterName)
	}
	return results.Kubeconfigs[0].Value, nil
}

// ClusterHarden disables local accounts on the target cluster, the ARM
// equivalent of `az aks update --disable-local-accounts`. Already hardened
// clusters return their state unchanged.
func (d *driver) ClusterHarden(ctx context.Context, target *model.ClusterTarget) (info *model.ClusterInfo, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterHarden")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	rg, name, err := resolveTarget(target)
	if err != nil {
		return nil, err
	}
	client, err := d.managedClustersClient()
	if err != nil {
		return nil, err
	}

	resp, err := client.Get(ctx, rg, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get AKS cluster %s: %w", name, err)
	}
	cluster := resp.ManagedCluster
	if p := cluster.Properties; p != nil && p.DisableLocalAccounts != nil && *p.DisableLocalAccounts {
		return toClusterInfo(&cluster), nil
	}
	if cluster.Properties == nil {
		cluster.Properties = &armcontainerservice.ManagedClusterProperties{}
	}
	cluster.Properties.DisableLocalAccounts = to.Ptr(true)

	poller, err := client.BeginCreateOrUpdate(ctx, rg, name, cluster, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cluster update for %s: %w", name, err)
	}
	done, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("disable local accounts on %s: %w", name, err)
	}
	return toClusterInfo(&done.ManagedCluster), nil
}
