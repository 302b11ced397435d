package argocd

import (
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/naming"
)

// ClusterConfig is the JSON payload stored under the "config" key of an
// Argo CD cluster secret. Field names follow the Argo CD wire format.
type ClusterConfig struct {
	BearerToken        string              `json:"bearerToken,omitempty"`
	TLSClientConfig    TLSClientConfig     `json:"tlsClientConfig"`
	ExecProviderConfig *ExecProviderConfig `json:"execProviderConfig,omitempty"`
}

// TLSClientConfig carries the TLS material for the cluster connection.
// []byte fields marshal to base64 strings as Argo CD expects.
type TLSClientConfig struct {
	Insecure   bool   `json:"insecure"`
	ServerName string `json:"serverName,omitempty"`
	CertData   []byte `json:"certData,omitempty"`
	KeyData    []byte `json:"keyData,omitempty"`
	CAData     []byte `json:"caData,omitempty"`
}

// ExecProviderConfig configures an exec credential plugin (kubelogin).
type ExecProviderConfig struct {
	Command     string            `json:"command,omitempty"`
	Args        []string          `json:"args,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	APIVersion  string            `json:"apiVersion,omitempty"`
	InstallHint string            `json:"installHint,omitempty"`
}

// ClusterSecretOptions tunes BuildClusterSecret.
type ClusterSecretOptions struct {
	// Namespace is the Argo CD control plane namespace. Defaults to "argocd".
	Namespace string
	// Labels are merged over the standard cluster secret labels.
	Labels map[string]string
	// ExecEnv is merged into the exec provider environment when the
	// kubeconfig authenticates through an exec plugin. Workload identity
	// logins use it to pin AZURE_CLIENT_ID to the hub identity.
	ExecEnv map[string]string
}

// ClusterSecretSelector is the label selector matching spoke cluster secrets.
func ClusterSecretSelector() string {
	return fmt.Sprintf("%s=%s,%s=%s", SecretTypeLabel, SecretTypeCluster, EnvironmentLabel, EnvironmentSpoke)
}

// BuildClusterSecret converts a spoke's kubeconfig into the Argo CD cluster
// secret that registers it with the hub. The secret carries the fleet
// labels (environment=spoke, cluster-environment=<env>) the bootstrap
// ApplicationSet selects on, and a config JSON derived from the
// kubeconfig's current context: client certificates for admin credentials,
// or an execProviderConfig when the kubeconfig uses an exec plugin.
func BuildClusterSecret(spoke *model.Spoke, kubeconfig []byte, opts *ClusterSecretOptions) (*corev1.Secret, error) {
	if spoke == nil || spoke.Name == "" {
		return nil, fmt.Errorf("spoke name is required")
	}
	if spoke.Environment == "" {
		return nil, fmt.Errorf("spoke %s has no environment", spoke.Name)
	}
	if len(kubeconfig) == 0 {
		return nil, fmt.Errorf("kubeconfig is empty")
	}
	if opts == nil {
		opts = &ClusterSecretOptions{}
	}
	ns := opts.Namespace
	if ns == "" {
		ns = "argocd"
	}

	cfg, err := clientcmd.Load(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("parse kubeconfig: %w", err)
	}
	server, config, err := clusterConfigFromKubeconfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("spoke %s: %w", spoke.Name, err)
	}
	if config.ExecProviderConfig != nil && len(opts.ExecEnv) > 0 {
		if config.ExecProviderConfig.Env == nil {
			config.ExecProviderConfig.Env = map[string]string{}
		}
		for k, v := range opts.ExecEnv {
			config.ExecProviderConfig.Env[k] = v
		}
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal cluster config: %w", err)
	}

	labels := map[string]string{
		SecretTypeLabel:         SecretTypeCluster,
		EnvironmentLabel:        EnvironmentSpoke,
		ClusterEnvironmentLabel: spoke.Environment,
	}
	for k, v := range opts.Labels {
		labels[k] = v
	}

	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.ClusterSecretName(spoke.Name),
			Namespace: ns,
			Labels:    labels,
		},
		Type: corev1.SecretTypeOpaque,
		StringData: map[string]string{
			"name":   spoke.Name,
			"server": server,
			"config": string(configJSON),
		},
	}, nil
}

// clusterConfigFromKubeconfig resolves the current context and derives the
// Argo CD cluster config from its cluster and auth entries.
func clusterConfigFromKubeconfig(cfg *clientcmdapi.Config) (string, *ClusterConfig, error) {
	ctxName := cfg.CurrentContext
	if ctxName == "" && len(cfg.Contexts) == 1 {
		for name := range cfg.Contexts {
			ctxName = name
		}
	}
	kctx, ok := cfg.Contexts[ctxName]
	if !ok {
		return "", nil, fmt.Errorf("kubeconfig has no usable context")
	}
	cluster, ok := cfg.Clusters[kctx.Cluster]
	if !ok {
		return "", nil, fmt.Errorf("kubeconfig context %s references missing cluster %s", ctxName, kctx.Cluster)
	}
	auth, ok := cfg.AuthInfos[kctx.AuthInfo]
	if !ok {
		return "", nil, fmt.Errorf("kubeconfig context %s references missing user %s", ctxName, kctx.AuthInfo)
	}

	config := &ClusterConfig{
		TLSClientConfig: TLSClientConfig{
			Insecure: cluster.InsecureSkipTLSVerify,
			CAData:   cluster.CertificateAuthorityData,
		},
	}

	switch {
	case auth.Exec != nil:
		env := map[string]string{}
		for _, e := range auth.Exec.Env {
			env[e.Name] = e.Value
		}
		if len(env) == 0 {
			env = nil
		}
		config.ExecProviderConfig = &ExecProviderConfig{
			Command:     auth.Exec.Command,
			Args:        append([]string{}, auth.Exec.Args...),
			Env:         env,
			APIVersion:  auth.Exec.APIVersion,
			InstallHint: auth.Exec.InstallHint,
		}
	case len(auth.ClientCertificateData) > 0 && len(auth.ClientKeyData) > 0:
		config.TLSClientConfig.CertData = auth.ClientCertificateData
		config.TLSClientConfig.KeyData = auth.ClientKeyData
	case auth.Token != "":
		config.BearerToken = auth.Token
	default:
		return "", nil, fmt.Errorf("kubeconfig user %s has no client certificate, token, or exec plugin", kctx.AuthInfo)
	}

	return cluster.Server, config, nil
}

// ClusterEntry is the parsed view of an Argo CD cluster secret, the input
// the cluster generator operates on.
type ClusterEntry struct {
	Name        string
	Server      string
	Labels      map[string]string
	Annotations map[string]string
}

// Environment returns the overlay environment recorded on the entry.
func (e *ClusterEntry) Environment() string {
	return e.Labels[ClusterEnvironmentLabel]
}

// ClusterFromSecret parses a cluster secret back into a ClusterEntry.
func ClusterFromSecret(sec *corev1.Secret) (*ClusterEntry, error) {
	if sec == nil {
		return nil, fmt.Errorf("secret is nil")
	}
	if sec.Labels[SecretTypeLabel] != SecretTypeCluster {
		return nil, fmt.Errorf("secret %s is not a cluster secret", sec.Name)
	}
	read := func(key string) string {
		if v, ok := sec.Data[key]; ok {
			return string(v)
		}
		return sec.StringData[key]
	}
	name := read("name")
	server := read("server")
	if name == "" || server == "" {
		return nil, fmt.Errorf("cluster secret %s is missing name or server", sec.Name)
	}
	return &ClusterEntry{
		Name:        name,
		Server:      server,
		Labels:      sec.Labels,
		Annotations: sec.Annotations,
	}, nil
}
