package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NodeSummary condenses cluster node readiness.
type NodeSummary struct {
	Ready int `json:"ready"`
	Total int `json:"total"`
}

// GetNodeSummary lists nodes and counts how many report the Ready condition.
func (c *Client) GetNodeSummary(ctx context.Context) (*NodeSummary, error) {
	if c == nil || c.Clientset == nil {
		return nil, fmt.Errorf("kube client is not initialized")
	}
	nodes, err := c.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	sum := &NodeSummary{Total: len(nodes.Items)}
	for i := range nodes.Items {
		for _, cond := range nodes.Items[i].Status.Conditions {
			if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
				sum.Ready++
				break
			}
		}
	}
	return sum, nil
}
