package argocd_test

import (
	"bytes"
	"encoding/json"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/domain/model"
)

const testServer = "https://spoke-dev.hcp.japaneast.azmk8s.io:443"

func writeKubeconfig(t *testing.T, auth *clientcmdapi.AuthInfo) []byte {
	t.Helper()
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["spoke-dev"] = &clientcmdapi.Cluster{
		Server:                   testServer,
		CertificateAuthorityData: []byte("ca-data"),
	}
	cfg.AuthInfos["spoke-dev-user"] = auth
	cfg.Contexts["spoke-dev"] = &clientcmdapi.Context{Cluster: "spoke-dev", AuthInfo: "spoke-dev-user"}
	cfg.CurrentContext = "spoke-dev"
	b, err := clientcmd.Write(*cfg)
	if err != nil {
		t.Fatalf("write kubeconfig: %v", err)
	}
	return b
}

func devSpoke() *model.Spoke {
	return &model.Spoke{
		ID:          "spk-1",
		Name:        "spoke-dev",
		Environment: "dev",
	}
}

func TestBuildClusterSecretCertAuth(t *testing.T) {
	kc := writeKubeconfig(t, &clientcmdapi.AuthInfo{
		ClientCertificateData: []byte("cert-data"),
		ClientKeyData:         []byte("key-data"),
	})

	sec, err := argocd.BuildClusterSecret(devSpoke(), kc, nil)
	if err != nil {
		t.Fatalf("BuildClusterSecret: %v", err)
	}
	if sec.Name != "cluster-spoke-dev" {
		t.Errorf("name = %q, want %q", sec.Name, "cluster-spoke-dev")
	}
	if sec.Namespace != "argocd" {
		t.Errorf("namespace = %q, want argocd", sec.Namespace)
	}
	wantLabels := map[string]string{
		argocd.SecretTypeLabel:         argocd.SecretTypeCluster,
		argocd.EnvironmentLabel:        argocd.EnvironmentSpoke,
		argocd.ClusterEnvironmentLabel: "dev",
	}
	for k, want := range wantLabels {
		if got := sec.Labels[k]; got != want {
			t.Errorf("label %s = %q, want %q", k, got, want)
		}
	}
	if got := sec.StringData["name"]; got != "spoke-dev" {
		t.Errorf("stringData name = %q, want spoke-dev", got)
	}
	if got := sec.StringData["server"]; got != testServer {
		t.Errorf("stringData server = %q, want %q", got, testServer)
	}

	var cfg argocd.ClusterConfig
	if err := json.Unmarshal([]byte(sec.StringData["config"]), &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if !bytes.Equal(cfg.TLSClientConfig.CertData, []byte("cert-data")) {
		t.Errorf("certData = %q, want cert-data", cfg.TLSClientConfig.CertData)
	}
	if !bytes.Equal(cfg.TLSClientConfig.KeyData, []byte("key-data")) {
		t.Errorf("keyData = %q, want key-data", cfg.TLSClientConfig.KeyData)
	}
	if !bytes.Equal(cfg.TLSClientConfig.CAData, []byte("ca-data")) {
		t.Errorf("caData = %q, want ca-data", cfg.TLSClientConfig.CAData)
	}
	if cfg.BearerToken != "" || cfg.ExecProviderConfig != nil {
		t.Errorf("unexpected auth fields: token=%q exec=%v", cfg.BearerToken, cfg.ExecProviderConfig)
	}
}

func TestBuildClusterSecretExecAuth(t *testing.T) {
	kc := writeKubeconfig(t, &clientcmdapi.AuthInfo{
		Exec: &clientcmdapi.ExecConfig{
			APIVersion: "client.authentication.k8s.io/v1beta1",
			Command:    "kubelogin",
			Args:       []string{"get-token", "--login", "workloadidentity", "--server-id", "6dae42f8-4368-4678-94ff-3960e28e3630"},
			Env: []clientcmdapi.ExecEnvVar{
				{Name: "AZURE_CLIENT_ID", Value: "11111111-1111-1111-1111-111111111111"},
			},
			InteractiveMode: clientcmdapi.NeverExecInteractiveMode,
		},
	})

	sec, err := argocd.BuildClusterSecret(devSpoke(), kc, nil)
	if err != nil {
		t.Fatalf("BuildClusterSecret: %v", err)
	}

	var cfg argocd.ClusterConfig
	if err := json.Unmarshal([]byte(sec.StringData["config"]), &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	exec := cfg.ExecProviderConfig
	if exec == nil {
		t.Fatal("execProviderConfig is nil")
	}
	if exec.Command != "kubelogin" {
		t.Errorf("command = %q, want kubelogin", exec.Command)
	}
	if exec.APIVersion != "client.authentication.k8s.io/v1beta1" {
		t.Errorf("apiVersion = %q", exec.APIVersion)
	}
	if len(exec.Args) != 5 || exec.Args[2] != "workloadidentity" {
		t.Errorf("args = %v", exec.Args)
	}
	if got := exec.Env["AZURE_CLIENT_ID"]; got != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("env AZURE_CLIENT_ID = %q", got)
	}
	if len(cfg.TLSClientConfig.CertData) != 0 {
		t.Errorf("certData should be empty for exec auth, got %q", cfg.TLSClientConfig.CertData)
	}
}

func TestBuildClusterSecretExtraLabels(t *testing.T) {
	kc := writeKubeconfig(t, &clientcmdapi.AuthInfo{Token: "tok"})

	sec, err := argocd.BuildClusterSecret(devSpoke(), kc, &argocd.ClusterSecretOptions{
		Namespace: "gitops",
		Labels:    map[string]string{"region": "japaneast"},
	})
	if err != nil {
		t.Fatalf("BuildClusterSecret: %v", err)
	}
	if sec.Namespace != "gitops" {
		t.Errorf("namespace = %q, want gitops", sec.Namespace)
	}
	if got := sec.Labels["region"]; got != "japaneast" {
		t.Errorf("label region = %q, want japaneast", got)
	}
	if got := sec.Labels[argocd.EnvironmentLabel]; got != argocd.EnvironmentSpoke {
		t.Errorf("label %s = %q, want %q", argocd.EnvironmentLabel, got, argocd.EnvironmentSpoke)
	}
}

func TestBuildClusterSecretErrors(t *testing.T) {
	valid := writeKubeconfig(t, &clientcmdapi.AuthInfo{Token: "tok"})
	noAuth := writeKubeconfig(t, &clientcmdapi.AuthInfo{})

	tests := []struct {
		name       string
		spoke      *model.Spoke
		kubeconfig []byte
	}{
		{"nil spoke", nil, valid},
		{"no environment", &model.Spoke{Name: "spoke-dev"}, valid},
		{"empty kubeconfig", devSpoke(), nil},
		{"no usable auth", devSpoke(), noAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := argocd.BuildClusterSecret(tt.spoke, tt.kubeconfig, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestClusterFromSecretRoundTrip(t *testing.T) {
	kc := writeKubeconfig(t, &clientcmdapi.AuthInfo{Token: "tok"})
	sec, err := argocd.BuildClusterSecret(devSpoke(), kc, nil)
	if err != nil {
		t.Fatalf("BuildClusterSecret: %v", err)
	}

	entry, err := argocd.ClusterFromSecret(sec)
	if err != nil {
		t.Fatalf("ClusterFromSecret: %v", err)
	}
	if entry.Name != "spoke-dev" {
		t.Errorf("name = %q, want spoke-dev", entry.Name)
	}
	if entry.Server != testServer {
		t.Errorf("server = %q, want %q", entry.Server, testServer)
	}
	if got := entry.Environment(); got != "dev" {
		t.Errorf("environment = %q, want dev", got)
	}
}

func TestClusterFromSecretData(t *testing.T) {
	sec := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name: "cluster-spoke-prd",
			Labels: map[string]string{
				argocd.SecretTypeLabel:         argocd.SecretTypeCluster,
				argocd.EnvironmentLabel:        argocd.EnvironmentSpoke,
				argocd.ClusterEnvironmentLabel: "prd",
			},
		},
		Data: map[string][]byte{
			"name":   []byte("spoke-prd"),
			"server": []byte("https://spoke-prd.example:443"),
		},
	}
	entry, err := argocd.ClusterFromSecret(sec)
	if err != nil {
		t.Fatalf("ClusterFromSecret: %v", err)
	}
	if entry.Name != "spoke-prd" || entry.Environment() != "prd" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestClusterFromSecretRejectsNonCluster(t *testing.T) {
	sec := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "some-secret"},
		Data: map[string][]byte{
			"name":   []byte("x"),
			"server": []byte("https://x"),
		},
	}
	if _, err := argocd.ClusterFromSecret(sec); err == nil {
		t.Fatal("expected error for secret without cluster type label")
	}
}
