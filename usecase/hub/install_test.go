package hub_test

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/usecase/hub"
)

type fakeInstaller struct {
	installs   []*kube.InstallArgoCDOptions
	uninstalls []string
}

func (f *fakeInstaller) InstallArgoCD(_ context.Context, opts *kube.InstallArgoCDOptions) error {
	f.installs = append(f.installs, opts)
	return nil
}

func (f *fakeInstaller) UninstallArgoCD(_ context.Context, namespace string) error {
	f.uninstalls = append(f.uninstalls, namespace)
	return nil
}

func TestInstall(t *testing.T) {
	port := &fakeClusterPort{
		infos:       fleetInfos("https://issuer"),
		kubeconfigs: map[string][]byte{"hub-aks": []byte("kc")},
	}
	installer := &fakeInstaller{}
	u := &hub.UseCase{
		Repos:         newRepos(t),
		ClusterPort:   port,
		IdentityPort:  newFakeIdentityPort(),
		NewKubeClient: fixedClient(fake.NewSimpleClientset()),
		NewInstaller:  func(*kube.Client, []byte) hub.ArgoInstaller { return installer },
	}

	out, err := u.Install(context.Background(), &hub.InstallInput{ChartVersion: "7.7.0"})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if out.Namespace != "argocd" || out.Release != kube.ArgoCDReleaseName {
		t.Errorf("output = %+v", out)
	}
	if len(installer.installs) != 1 {
		t.Fatalf("install calls = %d, want 1", len(installer.installs))
	}
	got := installer.installs[0]
	if got.Namespace != "argocd" || got.ChartVersion != "7.7.0" {
		t.Errorf("install opts = %+v", got)
	}
	if !port.lastOpts.Admin {
		t.Error("install should default to admin credentials")
	}
}

func TestUninstall(t *testing.T) {
	clientset := fake.NewSimpleClientset(&corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd"},
	})
	installer := &fakeInstaller{}
	u := &hub.UseCase{
		Repos: newRepos(t),
		ClusterPort: &fakeClusterPort{
			infos:       fleetInfos("https://issuer"),
			kubeconfigs: map[string][]byte{"hub-aks": []byte("kc")},
		},
		IdentityPort:  newFakeIdentityPort(),
		NewKubeClient: fixedClient(clientset),
		NewInstaller:  func(*kube.Client, []byte) hub.ArgoInstaller { return installer },
	}

	out, err := u.Uninstall(context.Background(), &hub.UninstallInput{DeleteNamespace: true})
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if len(installer.uninstalls) != 1 || installer.uninstalls[0] != "argocd" {
		t.Errorf("uninstall calls = %v", installer.uninstalls)
	}
	if !out.NamespaceDeleted {
		t.Error("namespace not reported deleted")
	}
	if _, err := clientset.CoreV1().Namespaces().Get(context.Background(), "argocd", metav1.GetOptions{}); err == nil {
		t.Error("namespace still present after uninstall")
	}
}
