package argocd

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// Workload identity metadata read by the AKS webhook and kubelogin.
// These keys are a fixed contract and must not change.
const (
	WorkloadIdentityClientIDAnnotation = "azure.workload.identity/client-id"
	WorkloadIdentityUseLabel           = "azure.workload.identity/use"
)

// Default names for the in-cluster management bundle. They follow the
// convention established by "argocd cluster add".
const (
	ManagerServiceAccountName     = "argocd-manager"
	ManagerClusterRoleName        = "argocd-manager-role"
	ManagerClusterRoleBindingName = "argocd-manager-role-binding"
)

// SpokeRBACOptions configures BuildSpokeRBAC.
type SpokeRBACOptions struct {
	// Namespace holds the manager service account. Defaults to "kube-system".
	Namespace string
	// ServiceAccountName overrides the manager service account name.
	ServiceAccountName string
}

// BuildSpokeRBAC renders the in-cluster bundle that lets the hub identity
// manage a spoke over workload identity: a service account carrying the
// identity's client ID, a cluster role with read access everywhere plus
// write access to the kinds the bootstrap overlays stamp, and the binding
// between them.
func BuildSpokeRBAC(identityClientID string, opts *SpokeRBACOptions) ([]runtime.Object, error) {
	if identityClientID == "" {
		return nil, fmt.Errorf("identity client ID is required")
	}
	var o SpokeRBACOptions
	if opts != nil {
		o = *opts
	}
	if o.Namespace == "" {
		o.Namespace = "kube-system"
	}
	if o.ServiceAccountName == "" {
		o.ServiceAccountName = ManagerServiceAccountName
	}

	sa := &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      o.ServiceAccountName,
			Namespace: o.Namespace,
			Labels: map[string]string{
				WorkloadIdentityUseLabel: "true",
			},
			Annotations: map[string]string{
				WorkloadIdentityClientIDAnnotation: identityClientID,
			},
		},
	}

	role := &rbacv1.ClusterRole{
		TypeMeta: metav1.TypeMeta{APIVersion: "rbac.authorization.k8s.io/v1", Kind: "ClusterRole"},
		ObjectMeta: metav1.ObjectMeta{
			Name: ManagerClusterRoleName,
		},
		Rules: []rbacv1.PolicyRule{
			{
				APIGroups: []string{""},
				Resources: []string{"namespaces", "serviceaccounts", "configmaps", "secrets", "services"},
				Verbs:     []string{"get", "list", "watch", "create", "update", "patch", "delete"},
			},
			{
				APIGroups: []string{"apps"},
				Resources: []string{"deployments", "statefulsets", "daemonsets", "replicasets"},
				Verbs:     []string{"get", "list", "watch", "create", "update", "patch", "delete"},
			},
			{
				APIGroups: []string{"*"},
				Resources: []string{"*"},
				Verbs:     []string{"get", "list", "watch"},
			},
		},
	}

	binding := &rbacv1.ClusterRoleBinding{
		TypeMeta: metav1.TypeMeta{APIVersion: "rbac.authorization.k8s.io/v1", Kind: "ClusterRoleBinding"},
		ObjectMeta: metav1.ObjectMeta{
			Name: ManagerClusterRoleBindingName,
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     ManagerClusterRoleName,
		},
		Subjects: []rbacv1.Subject{{
			Kind:      rbacv1.ServiceAccountKind,
			Name:      o.ServiceAccountName,
			Namespace: o.Namespace,
		}},
	}

	return []runtime.Object{sa, role, binding}, nil
}
