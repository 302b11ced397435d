package kube_test

import (
	"context"
	"testing"
	"time"

	"github.com/spokeops/spokeops/adapters/kube"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestEnsureNamespace(t *testing.T) {
	ctx := context.Background()
	client := &kube.Client{Clientset: fake.NewSimpleClientset()}

	if err := client.EnsureNamespace(ctx, "demo-app"); err != nil {
		t.Fatalf("EnsureNamespace() error = %v", err)
	}
	// Second call must be a no-op.
	if err := client.EnsureNamespace(ctx, "demo-app"); err != nil {
		t.Fatalf("EnsureNamespace() second call error = %v", err)
	}

	ns, err := client.Clientset.CoreV1().Namespaces().Get(ctx, "demo-app", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("namespace not created: %v", err)
	}
	if ns.Labels[kube.LabelAppK8sManagedBy] != kube.ManagedByValue {
		t.Errorf("managed-by label = %q, want %q", ns.Labels[kube.LabelAppK8sManagedBy], kube.ManagedByValue)
	}

	if err := client.EnsureNamespace(ctx, ""); err == nil {
		t.Error("EnsureNamespace() expected error for empty name")
	}
}

func TestNamespaceExists(t *testing.T) {
	ctx := context.Background()
	client := &kube.Client{Clientset: fake.NewSimpleClientset(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "demo-app"}},
	)}

	ok, err := client.NamespaceExists(ctx, "demo-app")
	if err != nil || !ok {
		t.Errorf("NamespaceExists(demo-app) = %v, %v; want true, nil", ok, err)
	}
	ok, err = client.NamespaceExists(ctx, "missing")
	if err != nil || ok {
		t.Errorf("NamespaceExists(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestDeleteNamespace(t *testing.T) {
	ctx := context.Background()
	client := &kube.Client{Clientset: fake.NewSimpleClientset(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "demo-app"}},
	)}

	if err := client.DeleteNamespace(ctx, "demo-app"); err != nil {
		t.Fatalf("DeleteNamespace() error = %v", err)
	}
	// Deleting a missing namespace is tolerated.
	if err := client.DeleteNamespace(ctx, "demo-app"); err != nil {
		t.Fatalf("DeleteNamespace() repeat error = %v", err)
	}
}

func TestDeleteNamespaceAndWait(t *testing.T) {
	ctx := context.Background()
	client := &kube.Client{Clientset: fake.NewSimpleClientset(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "demo-app"}},
	)}

	// The fake clientset deletes synchronously, so the wait returns at once.
	if err := client.DeleteNamespaceAndWait(ctx, "demo-app", time.Minute); err != nil {
		t.Fatalf("DeleteNamespaceAndWait() error = %v", err)
	}
	ok, err := client.NamespaceExists(ctx, "demo-app")
	if err != nil || ok {
		t.Errorf("namespace still present after delete: %v, %v", ok, err)
	}
}
