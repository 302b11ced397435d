package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/spokeops/spokeops/internal/logging"
)

// UpsertSecret creates the Secret or replaces it when it already exists.
func (c *Client) UpsertSecret(ctx context.Context, secret *corev1.Secret) (err error) {
	if c == nil || c.Clientset == nil {
		return fmt.Errorf("kube client is not initialized")
	}
	if secret == nil || secret.Name == "" || secret.Namespace == "" {
		return fmt.Errorf("secret name and namespace are required")
	}

	logger := logging.FromContext(ctx).With("ns", secret.Namespace, "secret", secret.Name)
	msgSym := "KubeClient:UpsertSecret"
	logger.Info(ctx, msgSym+"/s")
	defer func() {
		if err == nil {
			logger.Info(ctx, msgSym+"/eok")
		} else {
			logger.Info(ctx, msgSym+"/efail", "err", err)
		}
	}()

	secrets := c.Clientset.CoreV1().Secrets(secret.Namespace)
	_, err = secrets.Create(ctx, secret, metav1.CreateOptions{})
	if err == nil {
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("create secret %s/%s: %w", secret.Namespace, secret.Name, err)
	}
	if _, err = secrets.Update(ctx, secret, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("update secret %s/%s: %w", secret.Namespace, secret.Name, err)
	}
	return nil
}

// ListSecretsBySelector lists Secrets in the namespace matching a label selector.
func (c *Client) ListSecretsBySelector(ctx context.Context, namespace, labelSelector string) ([]corev1.Secret, error) {
	if c == nil || c.Clientset == nil {
		return nil, fmt.Errorf("kube client is not initialized")
	}
	list, err := c.Clientset.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, fmt.Errorf("list secrets in %s: %w", namespace, err)
	}
	return list.Items, nil
}

// DeleteSecret deletes a Secret if it exists (idempotent).
func (c *Client) DeleteSecret(ctx context.Context, namespace, name string) error {
	if c == nil || c.Clientset == nil {
		return fmt.Errorf("kube client is not initialized")
	}
	err := c.Clientset.CoreV1().Secrets(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete secret %s/%s: %w", namespace, name, err)
	}
	return nil
}
