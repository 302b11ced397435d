package kube_test

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/spokeops/spokeops/adapters/kube"
)

func newNode(name string, ready bool) *corev1.Node {
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

func TestGetNodeSummary(t *testing.T) {
	client := &kube.Client{Clientset: fake.NewSimpleClientset(
		newNode("aks-system-0", true),
		newNode("aks-user-0", true),
		newNode("aks-user-1", false),
	)}

	sum, err := client.GetNodeSummary(context.Background())
	if err != nil {
		t.Fatalf("GetNodeSummary() error = %v", err)
	}
	if sum.Total != 3 || sum.Ready != 2 {
		t.Errorf("summary = %+v, want 2/3 ready", sum)
	}
}

func TestGetNodeSummaryEmptyCluster(t *testing.T) {
	client := &kube.Client{Clientset: fake.NewSimpleClientset()}
	sum, err := client.GetNodeSummary(context.Background())
	if err != nil {
		t.Fatalf("GetNodeSummary() error = %v", err)
	}
	if sum.Total != 0 || sum.Ready != 0 {
		t.Errorf("summary = %+v, want empty", sum)
	}
}
