package hub_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/spokeops/spokeops/usecase/hub"
)

func adminKubeconfig(t *testing.T) []byte {
	t.Helper()
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["hub-aks-admin"] = &clientcmdapi.Cluster{
		Server:                   "https://hub-aks.hcp.japaneast.azmk8s.io:443",
		CertificateAuthorityData: []byte("ca-data"),
	}
	cfg.AuthInfos["clusterAdmin_rg-hub_hub-aks"] = &clientcmdapi.AuthInfo{
		ClientCertificateData: []byte("cert-data"),
		ClientKeyData:         []byte("key-data"),
	}
	cfg.Contexts["hub-aks-admin"] = &clientcmdapi.Context{
		Cluster:  "hub-aks-admin",
		AuthInfo: "clusterAdmin_rg-hub_hub-aks",
	}
	cfg.CurrentContext = "hub-aks-admin"
	b, err := clientcmd.Write(*cfg)
	if err != nil {
		t.Fatalf("write kubeconfig: %v", err)
	}
	return b
}

func TestCredentialsNormalize(t *testing.T) {
	port := &fakeClusterPort{
		infos:       fleetInfos("https://issuer"),
		kubeconfigs: map[string][]byte{"hub-aks": adminKubeconfig(t)},
	}
	u := &hub.UseCase{Repos: newRepos(t), ClusterPort: port, IdentityPort: newFakeIdentityPort()}

	out, err := u.Credentials(context.Background(), &hub.CredentialsInput{Namespace: "argocd"})
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if !port.lastOpts.Admin {
		t.Error("empty login should request admin credentials")
	}
	if out.ContextName != "hub-aks" {
		t.Errorf("context = %q, want hub-aks", out.ContextName)
	}
	cfg := out.Kubeconfig
	if cfg == nil {
		t.Fatal("kubeconfig missing from output")
	}
	kctx, ok := cfg.Contexts["hub-aks"]
	if !ok {
		t.Fatalf("contexts = %v", cfg.Contexts)
	}
	if kctx.Namespace != "argocd" {
		t.Errorf("namespace = %q, want argocd", kctx.Namespace)
	}
	if _, ok := cfg.Clusters["hub-aks"]; !ok {
		t.Errorf("cluster entry not renamed: %v", cfg.Clusters)
	}
}

func TestCredentialsLoginMode(t *testing.T) {
	port := &fakeClusterPort{
		infos:       fleetInfos("https://issuer"),
		kubeconfigs: map[string][]byte{"hub-aks": adminKubeconfig(t)},
	}
	u := &hub.UseCase{Repos: newRepos(t), ClusterPort: port, IdentityPort: newFakeIdentityPort()}

	_, err := u.Credentials(context.Background(), &hub.CredentialsInput{Login: "azurecli"})
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if port.lastOpts.Admin {
		t.Error("login mode should not request admin credentials")
	}
	if port.lastOpts.Login != "azurecli" {
		t.Errorf("login = %q, want azurecli", port.lastOpts.Login)
	}
}

func TestCredentialsMerge(t *testing.T) {
	port := &fakeClusterPort{
		infos:       fleetInfos("https://issuer"),
		kubeconfigs: map[string][]byte{"hub-aks": adminKubeconfig(t)},
	}
	u := &hub.UseCase{Repos: newRepos(t), ClusterPort: port, IdentityPort: newFakeIdentityPort()}

	path := filepath.Join(t.TempDir(), "config")
	out, err := u.Credentials(context.Background(), &hub.CredentialsInput{MergePath: path, SetCurrent: true})
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if out.MergedPath != path {
		t.Errorf("merged path = %q, want %q", out.MergedPath, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("merged file: %v", err)
	}

	merged, err := clientcmd.LoadFromFile(path)
	if err != nil {
		t.Fatalf("load merged: %v", err)
	}
	if merged.CurrentContext != "hub-aks" {
		t.Errorf("current context = %q, want hub-aks", merged.CurrentContext)
	}

	// Merging again without force renames the duplicate entries.
	out2, err := u.Credentials(context.Background(), &hub.CredentialsInput{MergePath: path})
	if err != nil {
		t.Fatalf("Credentials again: %v", err)
	}
	if out2.ContextName != "hub-aks-1" {
		t.Errorf("second context = %q, want hub-aks-1", out2.ContextName)
	}
}
