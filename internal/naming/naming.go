// Package naming provides centralized generation of short deterministic
// hashes and validated names used across Kubernetes resource names, labels,
// and provider cloud resource names. Keeping the logic here allows future
// changes (length/algorithm) without touching call sites.
package naming

import (
	"crypto/sha1"
	"fmt"
)

// federatedCredentialHashLength is the hex length of federation binding
// hashes (bits ~ length * 4).
const federatedCredentialHashLength = 10

// ShortHash returns the hex SHA1 prefix of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := fmt.Sprintf("%x", sum)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// FederatedCredentialName derives a deterministic, length-safe resource name
// for an OIDC federation binding. Subjects such as
// system:serviceaccount:argocd:argocd-server contain characters that are not
// valid in ARM resource names, so the (issuer, subject) pair is hashed.
func FederatedCredentialName(issuer, subject string) string {
	return "spokeops-" + ShortHash(issuer+"|"+subject, federatedCredentialHashLength)
}

// ClusterSecretName returns the ArgoCD cluster secret name for a spoke.
// The name is deterministic so re-registration overwrites the same secret.
func ClusterSecretName(spokeName string) string {
	return "cluster-" + spokeName
}
