package kube

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/spokeops/spokeops/internal/logging"
)

// DeploymentStatus is a condensed view of a Deployment's rollout state.
type DeploymentStatus struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Desired   int32  `json:"desired"`
	Ready     int32  `json:"ready"`
	Updated   int32  `json:"updated"`
	Available bool   `json:"available"`
}

// GetDeploymentStatus reads the Deployment and condenses its status.
func (c *Client) GetDeploymentStatus(ctx context.Context, namespace, name string) (*DeploymentStatus, error) {
	if c == nil || c.Clientset == nil {
		return nil, fmt.Errorf("kube client is not initialized")
	}
	dep, err := c.Clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("get deployment %s/%s: %w", namespace, name, err)
	}
	return condenseDeployment(dep), nil
}

func condenseDeployment(dep *appsv1.Deployment) *DeploymentStatus {
	st := &DeploymentStatus{
		Name:      dep.Name,
		Namespace: dep.Namespace,
		Ready:     dep.Status.ReadyReplicas,
		Updated:   dep.Status.UpdatedReplicas,
	}
	if dep.Spec.Replicas != nil {
		st.Desired = *dep.Spec.Replicas
	}
	st.Available = deploymentAvailable(dep)
	return st
}

// deploymentAvailable reports whether the Available condition is True and
// all desired replicas are ready.
func deploymentAvailable(dep *appsv1.Deployment) bool {
	desired := int32(1)
	if dep.Spec.Replicas != nil {
		desired = *dep.Spec.Replicas
	}
	if dep.Status.ReadyReplicas < desired {
		return false
	}
	for _, cond := range dep.Status.Conditions {
		if cond.Type == appsv1.DeploymentAvailable {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

// WaitDeploymentAvailable polls the Deployment until the Available condition
// holds with all desired replicas ready, or the timeout elapses.
func (c *Client) WaitDeploymentAvailable(ctx context.Context, namespace, name string, timeout time.Duration) (err error) {
	if c == nil || c.Clientset == nil {
		return fmt.Errorf("kube client is not initialized")
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	logger := logging.FromContext(ctx).With("ns", namespace, "deployment", name)
	msgSym := "KubeClient:WaitDeploymentAvailable"
	logger.Info(ctx, msgSym+"/s")
	defer func() {
		if err == nil {
			logger.Info(ctx, msgSym+"/eok")
		} else {
			logger.Info(ctx, msgSym+"/efail", "err", err)
		}
	}()

	check := func() (bool, error) {
		dep, err := c.Clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				return false, nil
			}
			// transient error, keep polling
			return false, nil
		}
		return deploymentAvailable(dep), nil
	}

	if ok, _ := check(); ok {
		return nil
	}

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("timeout waiting for deployment %s/%s available", namespace, name)
		case <-ticker.C:
			if ok, _ := check(); ok {
				return nil
			}
		}
	}
}

// ServiceExternalIP returns the external IP and hostname (if any) of a Service.
// It looks up the LoadBalancer status; when the address has not been assigned
// yet it returns empty strings without error.
func (c *Client) ServiceExternalIP(ctx context.Context, namespace, name string) (string, string, error) {
	if c == nil || c.Clientset == nil {
		return "", "", fmt.Errorf("kube client is not initialized")
	}

	svc, err := c.Clientset.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", "", fmt.Errorf("get service %s/%s: %w", namespace, name, err)
	}

	if len(svc.Status.LoadBalancer.Ingress) == 0 {
		return "", "", nil
	}
	ing := svc.Status.LoadBalancer.Ingress[0]
	return ing.IP, ing.Hostname, nil
}

// WaitServiceExternalIP polls the Service until the LoadBalancer address is
// assigned, checking up to attempts times with the given interval between
// checks. Cloud LB provisioning commonly takes a few minutes on a fresh
// cluster, hence the generous default of 30 x 10s in callers.
func (c *Client) WaitServiceExternalIP(ctx context.Context, namespace, name string, attempts int, interval time.Duration) (ip string, hostname string, err error) {
	if attempts <= 0 {
		attempts = 30
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}

	logger := logging.FromContext(ctx).With("ns", namespace, "service", name)
	msgSym := "KubeClient:WaitServiceExternalIP"
	logger.Info(ctx, msgSym+"/s")
	defer func() {
		if err == nil {
			logger.Info(ctx, msgSym+"/eok", "ip", ip, "hostname", hostname)
		} else {
			logger.Info(ctx, msgSym+"/efail", "err", err)
		}
	}()

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", "", ctx.Err()
			case <-time.After(interval):
			}
		}
		gotIP, gotHost, gerr := c.ServiceExternalIP(ctx, namespace, name)
		if gerr != nil {
			// IsNotFound sees through wrapped errors; tolerate a Service
			// that has not been created yet.
			if apierrors.IsNotFound(gerr) {
				continue
			}
			return "", "", gerr
		}
		if gotIP != "" || gotHost != "" {
			return gotIP, gotHost, nil
		}
	}
	return "", "", fmt.Errorf("service %s/%s has no external address after %d attempts", namespace, name, attempts)
}
