package spoke_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/adapters/store/inmem"
	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/kubeconfig"
	"github.com/spokeops/spokeops/usecase/spoke"
)

// fakeClusterPort fabricates credentials the way the AKS driver does:
// admin requests yield certificate kubeconfigs, login requests yield
// kubelogin exec kubeconfigs.
type fakeClusterPort struct {
	infos      map[string]*model.ClusterInfo
	discovered []*model.DiscoveredCluster
	lastOpts   model.KubeconfigOptions
	hardened   []string
}

func (f *fakeClusterPort) ClusterInfo(_ context.Context, target *model.ClusterTarget) (*model.ClusterInfo, error) {
	if info, ok := f.infos[target.Name]; ok {
		return info, nil
	}
	return &model.ClusterInfo{Name: target.Name, LocalAccounts: true}, nil
}

func (f *fakeClusterPort) Kubeconfig(_ context.Context, target *model.ClusterTarget, opts ...model.KubeconfigOption) ([]byte, error) {
	f.lastOpts = model.KubeconfigOptions{}
	for _, opt := range opts {
		opt(&f.lastOpts)
	}
	if info, ok := f.infos[target.Name]; ok && f.lastOpts.Admin && !info.LocalAccounts {
		return nil, fmt.Errorf("cluster %s: %w", target.Name, model.ErrLocalAccountsDisabled)
	}

	auth := &clientcmdapi.AuthInfo{
		ClientCertificateData: []byte("cert-data"),
		ClientKeyData:         []byte("key-data"),
	}
	if !f.lastOpts.Admin && f.lastOpts.Login != "" {
		auth = &clientcmdapi.AuthInfo{
			Exec: &clientcmdapi.ExecConfig{
				APIVersion: "client.authentication.k8s.io/v1beta1",
				Command:    "kubelogin",
				Args:       []string{"get-token", "--login", f.lastOpts.Login, "--server-id", kubeconfig.AKSAADServerAppID},
			},
		}
	}

	cfg := clientcmdapi.NewConfig()
	cfg.Clusters[target.Name] = &clientcmdapi.Cluster{
		Server:                   "https://" + target.Name + ".example:443",
		CertificateAuthorityData: []byte("ca-data"),
	}
	cfg.AuthInfos[target.Name] = auth
	cfg.Contexts[target.Name] = &clientcmdapi.Context{Cluster: target.Name, AuthInfo: target.Name}
	cfg.CurrentContext = target.Name
	return clientcmd.Write(*cfg)
}

func (f *fakeClusterPort) HardenCluster(_ context.Context, target *model.ClusterTarget) (*model.ClusterInfo, error) {
	f.hardened = append(f.hardened, target.Name)
	info, ok := f.infos[target.Name]
	if !ok {
		info = &model.ClusterInfo{Name: target.Name}
	}
	info.LocalAccounts = false
	return info, nil
}

func (f *fakeClusterPort) ListClusters(_ context.Context, _ string, opts ...model.ListClustersOption) ([]*model.DiscoveredCluster, error) {
	var o model.ListClustersOptions
	for _, opt := range opts {
		opt(&o)
	}
	return f.discovered, nil
}

// fakeIdentityPort serves a fixed identity.
type fakeIdentityPort struct {
	clientID string
	getErr   error
}

func (f *fakeIdentityPort) EnsureIdentity(_ context.Context, _ *model.IdentitySpec) (*model.Identity, error) {
	return &model.Identity{ClientID: f.clientID}, nil
}

func (f *fakeIdentityPort) GetIdentity(_ context.Context, _ *model.IdentitySpec) (*model.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &model.Identity{Name: "argocd-hub-id", ClientID: f.clientID}, nil
}

func (f *fakeIdentityPort) EnsureFederatedCredential(_ context.Context, _ *model.IdentitySpec, _ *model.FederatedCredentialSpec) error {
	return nil
}

func (f *fakeIdentityPort) GrantRoles(_ context.Context, _ *model.Identity, _ string, _ []string) ([]*model.RoleGrant, error) {
	return nil, nil
}

func (f *fakeIdentityPort) RevokeRoles(_ context.Context, _ *model.Identity, _ string) (int, error) {
	return 0, nil
}

// newRepos seeds in-memory repositories with one hub and the named spokes.
func newRepos(t *testing.T, spokeNames ...string) *spoke.Repos {
	t.Helper()
	ctx := context.Background()
	st := inmem.NewStore()
	if err := st.ProviderRepository.Create(ctx, &model.Provider{ID: "prv-1", Name: "azure", Driver: "aks"}); err != nil {
		t.Fatalf("create provider: %v", err)
	}
	h := &model.Hub{
		ID:            "hub-1",
		Name:          "hub-aks",
		ProviderID:    "prv-1",
		ResourceGroup: "rg-hub",
		Namespace:     "argocd",
		IdentityName:  "argocd-hub-id",
	}
	if err := st.HubRepository.Create(ctx, h); err != nil {
		t.Fatalf("create hub: %v", err)
	}
	for i, name := range spokeNames {
		s := &model.Spoke{
			ID:            fmt.Sprintf("spk-%d", i+1),
			Name:          name,
			ProviderID:    "prv-1",
			ResourceGroup: "rg-" + name,
			Environment:   "dev",
		}
		if err := st.SpokeRepository.Create(ctx, s); err != nil {
			t.Fatalf("create spoke %s: %v", name, err)
		}
	}
	return &spoke.Repos{
		Provider: st.ProviderRepository,
		Hub:      st.HubRepository,
		Spoke:    st.SpokeRepository,
	}
}

func newUseCase(t *testing.T, clientset *fake.Clientset, spokeNames ...string) (*spoke.UseCase, *fakeClusterPort) {
	t.Helper()
	port := &fakeClusterPort{infos: map[string]*model.ClusterInfo{}}
	u := &spoke.UseCase{
		Repos:        newRepos(t, spokeNames...),
		ClusterPort:  port,
		IdentityPort: &fakeIdentityPort{clientID: "11111111-1111-1111-1111-111111111111"},
		NewKubeClient: func(context.Context, []byte) (*kube.Client, error) {
			return &kube.Client{Clientset: clientset}, nil
		},
	}
	return u, port
}

func getSecretConfig(t *testing.T, clientset *fake.Clientset, name string) (*argocd.ClusterConfig, map[string]string) {
	t.Helper()
	sec, err := clientset.CoreV1().Secrets("argocd").Get(context.Background(), name, metav1.GetOptions{})
	if err != nil {
		t.Fatalf("get secret %s: %v", name, err)
	}
	var cfg argocd.ClusterConfig
	if err := json.Unmarshal([]byte(sec.StringData["config"]), &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	return &cfg, sec.Labels
}

func TestAddWithWorkloadIdentity(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, _ := newUseCase(t, clientset, "spoke-dev")

	out, err := u.Add(context.Background(), &spoke.AddInput{
		Name:             "spoke-dev",
		IdentityClientID: "33333333-3333-3333-3333-333333333333",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if out.SecretName != "cluster-spoke-dev" || out.SecretNamespace != "argocd" {
		t.Errorf("output = %+v", out)
	}
	if out.Server != "https://spoke-dev.example:443" {
		t.Errorf("server = %q", out.Server)
	}
	if out.Created {
		t.Error("created = true for configured spoke")
	}

	cfg, labels := getSecretConfig(t, clientset, "cluster-spoke-dev")
	if labels[argocd.EnvironmentLabel] != argocd.EnvironmentSpoke {
		t.Errorf("labels = %v", labels)
	}
	if labels[argocd.ClusterEnvironmentLabel] != "dev" {
		t.Errorf("cluster-environment = %q, want dev", labels[argocd.ClusterEnvironmentLabel])
	}
	exec := cfg.ExecProviderConfig
	if exec == nil {
		t.Fatal("execProviderConfig is nil")
	}
	if exec.Command != "kubelogin" {
		t.Errorf("command = %q", exec.Command)
	}
	if len(exec.Args) < 3 || exec.Args[2] != "workloadidentity" {
		t.Errorf("args = %v", exec.Args)
	}
	if got := exec.Env["AZURE_CLIENT_ID"]; got != "33333333-3333-3333-3333-333333333333" {
		t.Errorf("env AZURE_CLIENT_ID = %q", got)
	}
}

func TestAddResolvesIdentityFromProvider(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, _ := newUseCase(t, clientset, "spoke-dev")

	if _, err := u.Add(context.Background(), &spoke.AddInput{
		Name:  "spoke-dev",
		Login: "workloadidentity",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cfg, _ := getSecretConfig(t, clientset, "cluster-spoke-dev")
	if cfg.ExecProviderConfig == nil {
		t.Fatal("execProviderConfig is nil")
	}
	if got := cfg.ExecProviderConfig.Env["AZURE_CLIENT_ID"]; got != "11111111-1111-1111-1111-111111111111" {
		t.Errorf("env AZURE_CLIENT_ID = %q, want provider identity", got)
	}
}

func TestAddAdminCredentialsByDefault(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, port := newUseCase(t, clientset, "spoke-dev")

	if _, err := u.Add(context.Background(), &spoke.AddInput{Name: "spoke-dev"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !port.lastOpts.Admin {
		t.Error("default add should request admin credentials for the hub connection")
	}

	cfg, _ := getSecretConfig(t, clientset, "cluster-spoke-dev")
	if cfg.ExecProviderConfig != nil {
		t.Errorf("exec config present: %+v", cfg.ExecProviderConfig)
	}
	if len(cfg.TLSClientConfig.CertData) == 0 || len(cfg.TLSClientConfig.KeyData) == 0 {
		t.Error("certificate data missing from cluster config")
	}
}

func TestAddRegistersUnknownSpoke(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, _ := newUseCase(t, clientset)

	out, err := u.Add(context.Background(), &spoke.AddInput{
		Name:          "spoke-stg",
		ResourceGroup: "rg-spoke-stg",
		Environment:   "stg",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !out.Created {
		t.Error("created = false for new spoke")
	}
	if out.Environment != "stg" {
		t.Errorf("environment = %q, want stg", out.Environment)
	}

	// The registration persists in the store.
	if _, err := u.Add(context.Background(), &spoke.AddInput{Name: "spoke-stg"}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
}

func TestAddUnknownSpokeNeedsResourceGroup(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset())

	_, err := u.Add(context.Background(), &spoke.AddInput{Name: "spoke-x"})
	if err == nil || !strings.Contains(err.Error(), "resource group") {
		t.Fatalf("err = %v, want resource group requirement", err)
	}
}

func TestAddEnvironmentOverride(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, _ := newUseCase(t, clientset, "spoke-dev")

	out, err := u.Add(context.Background(), &spoke.AddInput{Name: "spoke-dev", Environment: "prd"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if out.Environment != "prd" {
		t.Errorf("environment = %q, want prd", out.Environment)
	}
	_, labels := getSecretConfig(t, clientset, "cluster-spoke-dev")
	if labels[argocd.ClusterEnvironmentLabel] != "prd" {
		t.Errorf("cluster-environment label = %q, want prd", labels[argocd.ClusterEnvironmentLabel])
	}
}

func TestAddTwiceUpdatesSecret(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, _ := newUseCase(t, clientset, "spoke-dev")

	if _, err := u.Add(context.Background(), &spoke.AddInput{Name: "spoke-dev"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := u.Add(context.Background(), &spoke.AddInput{Name: "spoke-dev", Environment: "prd"}); err != nil {
		t.Fatalf("second add: %v", err)
	}

	secrets, err := clientset.CoreV1().Secrets("argocd").List(context.Background(), metav1.ListOptions{})
	if err != nil {
		t.Fatalf("list secrets: %v", err)
	}
	if len(secrets.Items) != 1 {
		t.Fatalf("got %d secrets, want exactly one after re-add", len(secrets.Items))
	}
	_, labels := getSecretConfig(t, clientset, "cluster-spoke-dev")
	if labels[argocd.ClusterEnvironmentLabel] != "prd" {
		t.Errorf("cluster-environment label = %q, want prd after re-add", labels[argocd.ClusterEnvironmentLabel])
	}
}

func TestAddInvalidName(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset())

	for _, name := range []string{"", "Spoke_Dev", "-bad"} {
		if _, err := u.Add(context.Background(), &spoke.AddInput{Name: name}); err == nil {
			t.Errorf("Add(%q): expected error", name)
		}
	}
}
