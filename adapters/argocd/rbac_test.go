package argocd_test

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"

	"github.com/spokeops/spokeops/adapters/argocd"
)

const testClientID = "22222222-2222-2222-2222-222222222222"

func TestBuildSpokeRBAC(t *testing.T) {
	objs, err := argocd.BuildSpokeRBAC(testClientID, nil)
	if err != nil {
		t.Fatalf("BuildSpokeRBAC: %v", err)
	}
	if len(objs) != 3 {
		t.Fatalf("objects = %d, want 3", len(objs))
	}

	sa, ok := objs[0].(*corev1.ServiceAccount)
	if !ok {
		t.Fatalf("objs[0] = %T, want *corev1.ServiceAccount", objs[0])
	}
	if sa.Name != argocd.ManagerServiceAccountName || sa.Namespace != "kube-system" {
		t.Errorf("service account = %s/%s", sa.Namespace, sa.Name)
	}
	if got := sa.Annotations[argocd.WorkloadIdentityClientIDAnnotation]; got != testClientID {
		t.Errorf("annotation %s = %q, want %q", argocd.WorkloadIdentityClientIDAnnotation, got, testClientID)
	}
	if got := sa.Labels[argocd.WorkloadIdentityUseLabel]; got != "true" {
		t.Errorf("label %s = %q, want true", argocd.WorkloadIdentityUseLabel, got)
	}

	role, ok := objs[1].(*rbacv1.ClusterRole)
	if !ok {
		t.Fatalf("objs[1] = %T, want *rbacv1.ClusterRole", objs[1])
	}
	var wildcardRead bool
	for _, rule := range role.Rules {
		if len(rule.APIGroups) == 1 && rule.APIGroups[0] == "*" {
			wildcardRead = true
			for _, verb := range rule.Verbs {
				if verb != "get" && verb != "list" && verb != "watch" {
					t.Errorf("wildcard rule has write verb %q", verb)
				}
			}
		}
	}
	if !wildcardRead {
		t.Error("cluster role has no wildcard read rule")
	}

	binding, ok := objs[2].(*rbacv1.ClusterRoleBinding)
	if !ok {
		t.Fatalf("objs[2] = %T, want *rbacv1.ClusterRoleBinding", objs[2])
	}
	if binding.RoleRef.Name != role.Name {
		t.Errorf("roleRef = %q, want %q", binding.RoleRef.Name, role.Name)
	}
	if len(binding.Subjects) != 1 || binding.Subjects[0].Name != sa.Name || binding.Subjects[0].Namespace != sa.Namespace {
		t.Errorf("subjects = %+v", binding.Subjects)
	}
}

func TestBuildSpokeRBACCustomNamespace(t *testing.T) {
	objs, err := argocd.BuildSpokeRBAC(testClientID, &argocd.SpokeRBACOptions{Namespace: "argocd"})
	if err != nil {
		t.Fatalf("BuildSpokeRBAC: %v", err)
	}
	sa := objs[0].(*corev1.ServiceAccount)
	if sa.Namespace != "argocd" {
		t.Errorf("namespace = %q, want argocd", sa.Namespace)
	}
	binding := objs[2].(*rbacv1.ClusterRoleBinding)
	if binding.Subjects[0].Namespace != "argocd" {
		t.Errorf("subject namespace = %q, want argocd", binding.Subjects[0].Namespace)
	}
}

func TestBuildSpokeRBACRequiresClientID(t *testing.T) {
	if _, err := argocd.BuildSpokeRBAC("", nil); err == nil {
		t.Fatal("expected error for empty client ID")
	}
}
