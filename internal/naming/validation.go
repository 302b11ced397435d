package naming

import (
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

const (
	clusterNameMaxLength     = 63
	environmentNameMaxLength = 24
)

func validateDNS1123Label(name string, maximum int, labelKind string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", labelKind)
	}
	if len(name) > maximum {
		return fmt.Errorf("%s name exceeds %d characters", labelKind, maximum)
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s name: %s", labelKind, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateClusterName checks hub/spoke cluster names. They end up in
// kubeconfig contexts, ArgoCD secret names, and Kubernetes labels, so they
// must be DNS-1123 labels.
func ValidateClusterName(name string) error {
	return validateDNS1123Label(name, clusterNameMaxLength, "cluster")
}

// ValidateEnvironmentName checks spoke environment names. The value is
// stamped on the cluster secret as a label value and becomes a GitOps overlay
// path segment.
func ValidateEnvironmentName(name string) error {
	return validateDNS1123Label(name, environmentNameMaxLength, "environment")
}

// ValidateNamespaceName checks Kubernetes namespace names.
func ValidateNamespaceName(name string) error {
	return validateDNS1123Label(name, clusterNameMaxLength, "namespace")
}
