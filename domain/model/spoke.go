package model

import "time"

// Spoke represents a managed workload cluster registered with the hub.
type Spoke struct {
	ID            string
	Name          string
	ProviderID    string // references Provider
	ResourceGroup string
	// Environment selects the GitOps overlay for this spoke (e.g., "dev", "prod").
	// It is stamped on the ArgoCD cluster secret as the cluster-environment label.
	Environment string
	// Kubeconfig optionally points at a kubeconfig file for spokes handled by
	// the static driver instead of a cloud API.
	Kubeconfig string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Target returns the cluster target coordinates for provider drivers.
func (s *Spoke) Target() *ClusterTarget {
	return &ClusterTarget{
		ProviderID:    s.ProviderID,
		Name:          s.Name,
		ResourceGroup: s.ResourceGroup,
		Kubeconfig:    s.Kubeconfig,
	}
}
