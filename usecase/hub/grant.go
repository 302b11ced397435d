package hub

import (
	"context"
	"fmt"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/naming"
)

// DefaultSpokeRoles are the built-in roles granted to the hub identity at
// each spoke scope. Cluster User permits kubeconfig retrieval; RBAC Cluster
// Admin permits in-cluster management through Entra ID.
var DefaultSpokeRoles = []string{
	"Azure Kubernetes Service Cluster User Role",
	"Azure Kubernetes Service RBAC Cluster Admin",
}

// FederatedServiceAccounts are the Argo CD control plane service accounts
// bound to the hub identity through OIDC federation.
var FederatedServiceAccounts = []string{
	"argocd-application-controller",
	"argocd-server",
}

// GrantInput represents a command to bootstrap the hub identity and grant
// it access to spoke clusters.
type GrantInput struct {
	// SpokeNames limits the grant to these spokes; empty grants all.
	SpokeNames []string `json:"spoke_names,omitempty"`
	// Roles overrides DefaultSpokeRoles.
	Roles []string `json:"roles,omitempty"`
}

// GrantSpokeResult reports the role assignments ensured on one spoke.
type GrantSpokeResult struct {
	SpokeName string             `json:"spoke_name"`
	Scope     string             `json:"scope"`
	Grants    []*model.RoleGrant `json:"grants"`
}

// GrantOutput represents the response of a hub grant.
type GrantOutput struct {
	Identity *model.Identity     `json:"identity"`
	Subjects []string            `json:"subjects"`
	Spokes   []*GrantSpokeResult `json:"spokes"`
}

// Grant ensures the hub managed identity exists, federates it with the
// Argo CD service accounts through the hub's OIDC issuer, and grants it the
// roles needed to reach and manage each spoke cluster. Every step is
// idempotent; rerunning converges to the same state.
func (u *UseCase) Grant(ctx context.Context, in *GrantInput) (*GrantOutput, error) {
	if in == nil {
		in = &GrantInput{}
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}
	spec, err := identitySpec(h)
	if err != nil {
		return nil, err
	}
	spokes, err := u.spokes(ctx, in.SpokeNames)
	if err != nil {
		return nil, err
	}

	info, err := u.ClusterPort.ClusterInfo(ctx, h.Target())
	if err != nil {
		return nil, fmt.Errorf("inspect hub cluster %s: %w", h.Name, err)
	}
	if info.OIDCIssuerURL == "" {
		return nil, fmt.Errorf("hub cluster %s has no OIDC issuer; enable workload identity first", h.Name)
	}

	identity, err := u.IdentityPort.EnsureIdentity(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("ensure identity %s: %w", spec.Name, err)
	}

	out := &GrantOutput{Identity: identity}
	for _, sa := range FederatedServiceAccounts {
		subject := fmt.Sprintf("system:serviceaccount:%s:%s", hubNamespace(h), sa)
		fed := &model.FederatedCredentialSpec{
			Name:    naming.FederatedCredentialName(info.OIDCIssuerURL, subject),
			Issuer:  info.OIDCIssuerURL,
			Subject: subject,
		}
		if err := u.IdentityPort.EnsureFederatedCredential(ctx, spec, fed); err != nil {
			return nil, fmt.Errorf("federate %s: %w", subject, err)
		}
		out.Subjects = append(out.Subjects, subject)
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = DefaultSpokeRoles
	}
	for _, s := range spokes {
		sInfo, err := u.ClusterPort.ClusterInfo(ctx, s.Target())
		if err != nil {
			return nil, fmt.Errorf("inspect spoke cluster %s: %w", s.Name, err)
		}
		if sInfo.ResourceID == "" {
			return nil, fmt.Errorf("spoke cluster %s has no resource ID to scope roles to", s.Name)
		}
		grants, err := u.IdentityPort.GrantRoles(ctx, identity, sInfo.ResourceID, roles)
		if err != nil {
			return nil, fmt.Errorf("grant roles on spoke %s: %w", s.Name, err)
		}
		out.Spokes = append(out.Spokes, &GrantSpokeResult{
			SpokeName: s.Name,
			Scope:     sInfo.ResourceID,
			Grants:    grants,
		})
	}
	return out, nil
}
