package model

import "time"

// Hub represents the central management cluster that runs ArgoCD and holds
// the spoke cluster registrations.
type Hub struct {
	ID            string
	Name          string
	ProviderID    string // references Provider
	ResourceGroup string
	// Namespace is where ArgoCD runs and where spoke cluster secrets live.
	Namespace string
	// IdentityName is the user-assigned managed identity that ArgoCD uses to
	// reach spoke clusters. IdentityResourceGroup defaults to ResourceGroup.
	IdentityName          string
	IdentityResourceGroup string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Target returns the cluster target coordinates for provider drivers.
func (h *Hub) Target() *ClusterTarget {
	return &ClusterTarget{
		ProviderID:    h.ProviderID,
		Name:          h.Name,
		ResourceGroup: h.ResourceGroup,
	}
}
