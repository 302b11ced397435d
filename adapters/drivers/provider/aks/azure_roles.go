package aks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
	"github.com/google/uuid"
	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/logging"
)

// UUIDv5 namespace used to generate role assignment names.
// Chosen arbitrarily but kept constant to ensure stable name generation.
var roleAssignmentNamespace = uuid.MustParse("9a1e3f62-04c8-47bd-9f1d-57f24c8c6a7e")

// builtinRoleDefinitions maps the built-in Azure role names this driver
// grants to their well-known role definition GUIDs.
var builtinRoleDefinitions = map[string]string{
	"Azure Kubernetes Service Cluster User Role":  "4abbcc35-e782-43d8-92c5-2d3f1bd2253f",
	"Azure Kubernetes Service Cluster Admin Role": "0ab0b1a8-8aac-4efd-b8c2-3ee1fb270be8",
	"Azure Kubernetes Service RBAC Cluster Admin": "b1ff04bb-8a4e-4dc4-8eb5-8693973ce19b",
	"Azure Kubernetes Service RBAC Admin":         "3498e952-d568-435e-9b2c-8d77e338d7f7",
	"Azure Kubernetes Service RBAC Reader":        "7f6c6a51-bcf8-42ba-9220-52d62157d7db",
	"Azure Kubernetes Service RBAC Writer":        "a7ffa36f-339b-4b5c-8bdf-e2c188b2c0eb",
}

// isConflictError checks if an error is a 409 Conflict error.
func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusConflict
	}
	return false
}

// roleDefinitionID resolves a built-in role name to its subscription-scoped
// role definition resource ID.
func (d *driver) roleDefinitionID(roleName string) (string, error) {
	guid, ok := builtinRoleDefinitions[roleName]
	if !ok {
		return "", fmt.Errorf("unknown role name %q", roleName)
	}
	return fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Authorization/roleDefinitions/%s",
		d.AzureSubscriptionId, guid), nil
}

// roleAssignmentName generates a deterministic GUID so repeated grants of the
// same (scope, principal, role) triple converge on one assignment.
func roleAssignmentName(scope, principalID, roleDefinitionID string) string {
	input := scope + "|" + principalID + "|" + roleDefinitionID
	return uuid.NewSHA1(roleAssignmentNamespace, []byte(input)).String()
}

// RoleGrant ensures role assignments for the identity at the scope. Existing
// assignments are reported with Created=false.
func (d *driver) RoleGrant(ctx context.Context, identity *model.Identity, scope string, roleNames []string) (grants []*model.RoleGrant, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "RoleGrant")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	if identity == nil || identity.PrincipalID == "" {
		return nil, fmt.Errorf("identity principal ID is required")
	}
	if scope == "" {
		return nil, fmt.Errorf("role assignment scope is required")
	}

	client, err := armauthorization.NewRoleAssignmentsClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create role assignments client: %w", err)
	}
	log := logging.FromContext(ctx)

	grants = make([]*model.RoleGrant, 0, len(roleNames))
	for _, roleName := range roleNames {
		roleDefID, err := d.roleDefinitionID(roleName)
		if err != nil {
			return nil, err
		}
		name := roleAssignmentName(scope, identity.PrincipalID, roleDefID)

		grant := &model.RoleGrant{
			RoleName:         roleName,
			RoleDefinitionID: roleDefID,
			Scope:            scope,
			AssignmentName:   name,
			Created:          true,
		}

		log.Info(ctx, "ensuring role assignment",
			"scope", scope,
			"principal_id", identity.PrincipalID,
			"role", roleName,
			"assignment_name", name)

		_, err = client.Create(ctx, scope, name, armauthorization.RoleAssignmentCreateParameters{
			Properties: &armauthorization.RoleAssignmentProperties{
				PrincipalID:      to.Ptr(identity.PrincipalID),
				RoleDefinitionID: to.Ptr(roleDefID),
				PrincipalType:    to.Ptr(armauthorization.PrincipalTypeServicePrincipal),
			},
		}, nil)
		if err != nil {
			if !isConflictError(err) {
				return nil, fmt.Errorf("create role assignment %s for %s: %w", roleName, identity.Name, err)
			}
			grant.Created = false
		}
		grants = append(grants, grant)
	}
	return grants, nil
}

// RoleRevoke deletes the identity's role assignments at the scope and
// returns how many were removed.
func (d *driver) RoleRevoke(ctx context.Context, identity *model.Identity, scope string) (deleted int, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "RoleRevoke")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	if identity == nil || identity.PrincipalID == "" {
		return 0, fmt.Errorf("identity principal ID is required")
	}
	if scope == "" {
		return 0, fmt.Errorf("role assignment scope is required")
	}

	client, err := armauthorization.NewRoleAssignmentsClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return 0, fmt.Errorf("create role assignments client: %w", err)
	}
	log := logging.FromContext(ctx)

	filter := fmt.Sprintf("principalId eq '%s'", identity.PrincipalID)
	pager := client.NewListForScopePager(scope, &armauthorization.RoleAssignmentsClientListForScopeOptions{
		Filter: to.Ptr(filter),
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("list role assignments at %s: %w", scope, err)
		}
		for _, ra := range page.Value {
			if ra == nil || ra.ID == nil {
				continue
			}
			if _, err := client.DeleteByID(ctx, *ra.ID, nil); err != nil {
				if isNotFoundError(err) {
					continue
				}
				return deleted, fmt.Errorf("delete role assignment %s: %w", *ra.ID, err)
			}
			deleted++
			log.Info(ctx, "deleted role assignment", "assignment_id", *ra.ID, "scope", scope)
		}
	}
	return deleted, nil
}
