package model

import "context"

// IdentitySpec describes a user-assigned managed identity to ensure.
type IdentitySpec struct {
	ProviderID    string
	Name          string
	ResourceGroup string
	Location      string
	Tags          map[string]string
}

// Identity is the materialized managed identity.
type Identity struct {
	ProviderID  string `json:"providerID,omitempty"` // references Provider
	Name        string `json:"name"`
	ResourceID  string `json:"resourceID"`
	ClientID    string `json:"clientID"`
	PrincipalID string `json:"principalID"`
	TenantID    string `json:"tenantID,omitempty"`
}

// FederatedCredentialSpec binds a Kubernetes service account to an identity
// through OIDC federation.
type FederatedCredentialSpec struct {
	// Name of the federated credential resource on the identity.
	Name string
	// Issuer is the cluster OIDC issuer URL.
	Issuer string
	// Subject is the federated subject, e.g. system:serviceaccount:argocd:argocd-server.
	Subject string
	// Audience defaults to api://AzureADTokenExchange when empty.
	Audience string
}

// RoleGrant reports one ensured role assignment.
type RoleGrant struct {
	RoleName         string `json:"roleName"`
	RoleDefinitionID string `json:"roleDefinitionID"`
	Scope            string `json:"scope"`
	AssignmentName   string `json:"assignmentName"`
	// Created is false when the assignment already existed.
	Created bool `json:"created"`
}

// IdentityPort exposes provider identity and RBAC operations to use cases.
type IdentityPort interface {
	// EnsureIdentity creates or updates a user-assigned managed identity.
	EnsureIdentity(ctx context.Context, spec *IdentitySpec) (*Identity, error)
	// GetIdentity looks up an existing identity; ErrUnsupported or a not-found
	// error when absent.
	GetIdentity(ctx context.Context, spec *IdentitySpec) (*Identity, error)
	// EnsureFederatedCredential creates or updates an OIDC federation binding
	// on the identity.
	EnsureFederatedCredential(ctx context.Context, spec *IdentitySpec, fed *FederatedCredentialSpec) error
	// GrantRoles ensures role assignments for the identity at the scope.
	// Role names must be known built-in role names.
	GrantRoles(ctx context.Context, identity *Identity, scope string, roleNames []string) ([]*RoleGrant, error)
	// RevokeRoles removes the identity's role assignments at the scope and
	// returns how many were deleted.
	RevokeRoles(ctx context.Context, identity *Identity, scope string) (int, error)
}
