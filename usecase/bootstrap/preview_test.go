package bootstrap_test

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/usecase/bootstrap"
)

// clusterSecret fabricates the cluster secret spoke add would register.
func clusterSecret(name, env, server string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "cluster-" + name,
			Namespace: "argocd",
			Labels: map[string]string{
				argocd.SecretTypeLabel:         argocd.SecretTypeCluster,
				argocd.EnvironmentLabel:        argocd.EnvironmentSpoke,
				argocd.ClusterEnvironmentLabel: env,
			},
		},
		Data: map[string][]byte{
			"name":   []byte(name),
			"server": []byte(server),
			"config": []byte(`{"tlsClientConfig":{"insecure":false}}`),
		},
	}
}

func TestPreviewMaterializesOnePerSpoke(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		clusterSecret("spoke-prd", "prd", "https://spoke-prd.example:443"),
		clusterSecret("spoke-dev", "dev", "https://spoke-dev.example:443"),
		// Unrelated secret in the same namespace; the selector skips it.
		&corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: "repo-creds", Namespace: "argocd"}},
	)
	u, _, _ := newUseCase(t, clientset)

	out, err := u.Preview(context.Background(), &bootstrap.PreviewInput{Source: gitopsSource()})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(out.Items))
	}

	dev := out.Items[0]
	if dev.ClusterName != "spoke-dev" || dev.Environment != "dev" {
		t.Errorf("item[0] = %+v", dev)
	}
	if dev.AppName != "spoke-dev-bootstrap" {
		t.Errorf("app name = %q", dev.AppName)
	}
	if dev.Path != "argo/spoke-bootstrap/overlays/dev" {
		t.Errorf("path = %q", dev.Path)
	}
	if dev.Server != "https://spoke-dev.example:443" {
		t.Errorf("server = %q", dev.Server)
	}

	prd := out.Items[1]
	if prd.AppName != "spoke-prd-bootstrap" || prd.Path != "argo/spoke-bootstrap/overlays/prd" {
		t.Errorf("item[1] = %+v", prd)
	}

	if len(out.Applications) != 2 {
		t.Fatalf("applications = %d, want 2", len(out.Applications))
	}
	app := out.Applications[0]
	if app.Spec.Destination.Server != "https://spoke-dev.example:443" {
		t.Errorf("destination = %q", app.Spec.Destination.Server)
	}
	if app.Labels[argocd.ClusterEnvironmentLabel] != "dev" {
		t.Errorf("app labels = %v", app.Labels)
	}
}

func TestPreviewHonorsSourceOverrides(t *testing.T) {
	clientset := fake.NewSimpleClientset(clusterSecret("spoke-dev", "dev", "https://spoke-dev.example:443"))
	u, _, _ := newUseCase(t, clientset)

	out, err := u.Preview(context.Background(), &bootstrap.PreviewInput{
		Source: bootstrap.Source{
			RepoURL:       "https://github.com/acme/fleet-gitops",
			Revision:      "v1.2.3",
			BootstrapPath: "deploy/overlays",
		},
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].Path != "deploy/overlays/dev" {
		t.Fatalf("items = %+v, want deploy/overlays/dev", out.Items)
	}
	if got := out.Applications[0].Spec.Source.TargetRevision; got != "v1.2.3" {
		t.Errorf("target revision = %q", got)
	}
}

func TestPreviewSkipsMalformedSecret(t *testing.T) {
	broken := clusterSecret("spoke-bad", "dev", "https://spoke-bad.example:443")
	delete(broken.Data, "server")
	clientset := fake.NewSimpleClientset(
		broken,
		clusterSecret("spoke-dev", "dev", "https://spoke-dev.example:443"),
	)
	u, _, _ := newUseCase(t, clientset)

	out, err := u.Preview(context.Background(), &bootstrap.PreviewInput{Source: gitopsSource()})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ClusterName != "spoke-dev" {
		t.Fatalf("items = %+v, want only spoke-dev", out.Items)
	}
}

func TestPreviewEmptyFleet(t *testing.T) {
	u, _, _ := newUseCase(t, fake.NewSimpleClientset())

	out, err := u.Preview(context.Background(), &bootstrap.PreviewInput{Source: gitopsSource()})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(out.Items) != 0 {
		t.Fatalf("items = %+v, want none", out.Items)
	}
}

func TestPreviewRequiresRepoURL(t *testing.T) {
	u, _, _ := newUseCase(t, fake.NewSimpleClientset())

	_, err := u.Preview(context.Background(), &bootstrap.PreviewInput{})
	if !errors.Is(err, model.ErrHubInvalid) {
		t.Fatalf("err = %v, want ErrHubInvalid", err)
	}
}
