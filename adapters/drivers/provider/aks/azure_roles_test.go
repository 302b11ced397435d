package aks

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/google/uuid"
)

func TestRoleAssignmentNameDeterministic(t *testing.T) {
	scope := "/subscriptions/sub/resourceGroups/rg-spoke-dev/providers/Microsoft.ContainerService/managedClusters/spoke-dev"
	principal := "11111111-2222-3333-4444-555555555555"
	roleDef := "/subscriptions/sub/providers/Microsoft.Authorization/roleDefinitions/4abbcc35-e782-43d8-92c5-2d3f1bd2253f"

	first := roleAssignmentName(scope, principal, roleDef)
	second := roleAssignmentName(scope, principal, roleDef)
	if first != second {
		t.Errorf("roleAssignmentName() not deterministic: %s != %s", first, second)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("roleAssignmentName() = %q, not a valid UUID: %v", first, err)
	}

	tests := []struct {
		name      string
		scope     string
		principal string
		roleDef   string
	}{
		{"different scope", scope + "-other", principal, roleDef},
		{"different principal", scope, "99999999-2222-3333-4444-555555555555", roleDef},
		{"different role", scope, principal, roleDef + "-other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roleAssignmentName(tt.scope, tt.principal, tt.roleDef); got == first {
				t.Errorf("roleAssignmentName() collided with base name %s", first)
			}
		})
	}
}

func TestRoleDefinitionID(t *testing.T) {
	d := &driver{AzureSubscriptionId: "00000000-0000-0000-0000-000000000000"}

	id, err := d.roleDefinitionID("Azure Kubernetes Service Cluster User Role")
	if err != nil {
		t.Fatalf("roleDefinitionID() error = %v", err)
	}
	want := "/subscriptions/00000000-0000-0000-0000-000000000000/providers/Microsoft.Authorization/roleDefinitions/4abbcc35-e782-43d8-92c5-2d3f1bd2253f"
	if id != want {
		t.Errorf("roleDefinitionID() = %q, want %q", id, want)
	}

	if _, err := d.roleDefinitionID("Owner Of Everything"); err == nil {
		t.Error("roleDefinitionID() expected error for unknown role name")
	}
}

func TestIsConflictError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"409 response", &azcore.ResponseError{StatusCode: http.StatusConflict, ErrorCode: "RoleAssignmentExists"}, true},
		{"404 response", &azcore.ResponseError{StatusCode: http.StatusNotFound}, false},
		{"wrapped 409", fmt.Errorf("create: %w", &azcore.ResponseError{StatusCode: http.StatusConflict}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConflictError(tt.err); got != tt.want {
				t.Errorf("isConflictError() = %v, want %v", got, tt.want)
			}
		})
	}
}
