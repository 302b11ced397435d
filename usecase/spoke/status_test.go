package spoke_test

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/usecase/spoke"
)

func TestStatusRegistered(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, port := newUseCase(t, clientset, "spoke-dev")
	port.infos["spoke-dev"] = &model.ClusterInfo{
		Name:              "spoke-dev",
		ResourceID:        "/subscriptions/sub/resourceGroups/rg-spoke-dev/providers/Microsoft.ContainerService/managedClusters/spoke-dev",
		KubernetesVersion: "1.30.3",
		LocalAccounts:     true,
	}

	ctx := context.Background()
	if _, err := u.Add(ctx, &spoke.AddInput{Name: "spoke-dev"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	out, err := u.Status(ctx, &spoke.StatusInput{Name: "spoke-dev"})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !out.Registered {
		t.Error("registered = false, want true")
	}
	if out.SecretName != "cluster-spoke-dev" {
		t.Errorf("secret name = %q", out.SecretName)
	}
	if out.Server != "https://spoke-dev.example:443" {
		t.Errorf("server = %q", out.Server)
	}
	if out.Cluster == nil || out.Cluster.KubernetesVersion != "1.30.3" {
		t.Errorf("cluster = %+v", out.Cluster)
	}
}

func TestStatusUnregistered(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")

	out, err := u.Status(context.Background(), &spoke.StatusInput{Name: "spoke-dev"})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if out.Registered {
		t.Error("registered = true, want false")
	}
	if out.Environment != "dev" {
		t.Errorf("environment = %q, want dev from store", out.Environment)
	}
}

func TestStatusNodeSummary(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		readyNode("aks-np-0", true),
		readyNode("aks-np-1", false),
	)
	u, _ := newUseCase(t, clientset, "spoke-dev")

	out, err := u.Status(context.Background(), &spoke.StatusInput{Name: "spoke-dev"})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if out.Nodes == nil || out.Nodes.Total != 2 || out.Nodes.Ready != 1 {
		t.Errorf("nodes = %+v, want 1/2 ready", out.Nodes)
	}
}

func TestStatusHardenedSpokeSkipsNodeProbe(t *testing.T) {
	u, port := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")
	port.infos["spoke-dev"] = &model.ClusterInfo{Name: "spoke-dev", LocalAccounts: false}

	out, err := u.Status(context.Background(), &spoke.StatusInput{Name: "spoke-dev"})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if out.Nodes != nil {
		t.Errorf("nodes = %+v, want nil when admin credentials are rejected", out.Nodes)
	}
}

func readyNode(name string, ready bool) *corev1.Node {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: status}},
		},
	}
}

func TestStatusUnknownSpoke(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset())
	_, err := u.Status(context.Background(), &spoke.StatusInput{Name: "ghost"})
	if !errors.Is(err, model.ErrSpokeNotFound) {
		t.Fatalf("err = %v, want ErrSpokeNotFound", err)
	}
}

func TestHarden(t *testing.T) {
	u, port := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")
	port.infos["spoke-dev"] = &model.ClusterInfo{Name: "spoke-dev", LocalAccounts: true}

	out, err := u.Harden(context.Background(), &spoke.HardenInput{Name: "spoke-dev"})
	if err != nil {
		t.Fatalf("Harden: %v", err)
	}
	if out.Cluster.LocalAccounts {
		t.Error("local accounts still enabled after harden")
	}
	if len(port.hardened) != 1 || port.hardened[0] != "spoke-dev" {
		t.Errorf("hardened = %v", port.hardened)
	}
}

func TestHardenValidation(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset())
	if _, err := u.Harden(context.Background(), nil); err != model.ErrSpokeInvalid {
		t.Fatalf("err = %v, want ErrSpokeInvalid", err)
	}
}
