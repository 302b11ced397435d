// Package static implements the provider driver for clusters reached through
// a pre-existing kubeconfig file instead of a cloud API. It grounds the
// cluster port contract for non-Azure spokes and for tests.
package static

import (
	"context"
	"fmt"
	"net/url"
	"os"

	providerdrv "github.com/spokeops/spokeops/adapters/drivers/provider"
	"github.com/spokeops/spokeops/domain/model"
	"k8s.io/client-go/tools/clientcmd"
)

// driver implements the static provider driver.
type driver struct {
	providerName string
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "static" }

// ProviderName returns the provider name associated with this driver instance.
func (d *driver) ProviderName() string { return d.providerName }

// init registers the static driver.
func init() {
	providerdrv.Register("static", func(provider *model.Provider) (providerdrv.Driver, error) {
		if provider == nil {
			return nil, fmt.Errorf("provider is nil")
		}
		if provider.Settings != nil && provider.Settings["disabled"] == "true" {
			return nil, fmt.Errorf("static provider disabled by settings")
		}
		return &driver{providerName: provider.Name}, nil
	})
}

// kubeconfigPath validates the target and returns its kubeconfig file path.
func kubeconfigPath(target *model.ClusterTarget) (string, error) {
	if target == nil {
		return "", fmt.Errorf("cluster target is nil")
	}
	if target.Kubeconfig == "" {
		return "", fmt.Errorf("cluster %s has no kubeconfig path (static driver requires one)", target.Name)
	}
	return target.Kubeconfig, nil
}

// ClusterKubeconfig reads the kubeconfig file named by the target. The
// admin/login options have no effect: the file is handed over as-is.
func (d *driver) ClusterKubeconfig(ctx context.Context, target *model.ClusterTarget, opts ...model.KubeconfigOption) ([]byte, error) {
	path, err := kubeconfigPath(target)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kubeconfig %s: %w", path, err)
	}
	return data, nil
}

// ClusterInfo derives what it can from the kubeconfig: the cluster name and
// the API server host as FQDN. Azure-only fields stay empty.
func (d *driver) ClusterInfo(ctx context.Context, target *model.ClusterTarget) (*model.ClusterInfo, error) {
	data, err := d.ClusterKubeconfig(ctx, target)
	if err != nil {
		return nil, err
	}
	cfg, err := clientcmd.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse kubeconfig for %s: %w", target.Name, err)
	}

	info := &model.ClusterInfo{Name: target.Name, LocalAccounts: true}
	ctxName := cfg.CurrentContext
	if ctxName == "" {
		for name := range cfg.Contexts {
			ctxName = name
			break
		}
	}
	if kctx, ok := cfg.Contexts[ctxName]; ok {
		if cluster, ok := cfg.Clusters[kctx.Cluster]; ok {
			if u, err := url.Parse(cluster.Server); err == nil {
				info.FQDN = u.Hostname()
			}
		}
	}
	return info, nil
}

// ClusterHarden is not supported: local account policy belongs to the
// cluster's own control plane, which the static driver cannot reach.
func (d *driver) ClusterHarden(ctx context.Context, target *model.ClusterTarget) (*model.ClusterInfo, error) {
	return nil, fmt.Errorf("harden cluster %s: %w", target.Name, model.ErrUnsupported)
}

// ClusterList is not supported: there is no inventory to discover from.
func (d *driver) ClusterList(ctx context.Context, opts ...model.ListClustersOption) ([]*model.DiscoveredCluster, error) {
	return nil, fmt.Errorf("list clusters: %w", model.ErrUnsupported)
}

// Identity operations are not supported by the static driver.

func (d *driver) IdentityEnsure(ctx context.Context, spec *model.IdentitySpec) (*model.Identity, error) {
	return nil, fmt.Errorf("ensure identity: %w", model.ErrUnsupported)
}

func (d *driver) IdentityGet(ctx context.Context, spec *model.IdentitySpec) (*model.Identity, error) {
	return nil, fmt.Errorf("get identity: %w", model.ErrUnsupported)
}

func (d *driver) IdentityFederate(ctx context.Context, spec *model.IdentitySpec, fed *model.FederatedCredentialSpec) error {
	return fmt.Errorf("federate identity: %w", model.ErrUnsupported)
}

func (d *driver) RoleGrant(ctx context.Context, identity *model.Identity, scope string, roleNames []string) ([]*model.RoleGrant, error) {
	return nil, fmt.Errorf("grant roles: %w", model.ErrUnsupported)
}

func (d *driver) RoleRevoke(ctx context.Context, identity *model.Identity, scope string) (int, error) {
	return 0, fmt.Errorf("revoke roles: %w", model.ErrUnsupported)
}
