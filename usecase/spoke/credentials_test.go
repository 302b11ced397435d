package spoke_test

import (
	"context"
	"errors"
	"testing"

	"k8s.io/client-go/kubernetes/fake"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/usecase/spoke"
)

func TestCredentialsNormalize(t *testing.T) {
	u, port := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")

	out, err := u.Credentials(context.Background(), &spoke.CredentialsInput{Name: "spoke-dev"})
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if !port.lastOpts.Admin {
		t.Error("empty login should request admin credentials")
	}
	if out.ContextName != "spoke-dev" {
		t.Errorf("context = %q, want spoke-dev", out.ContextName)
	}
	if out.Kubeconfig == nil {
		t.Fatal("kubeconfig missing from output")
	}
	if _, ok := out.Kubeconfig.Contexts["spoke-dev"]; !ok {
		t.Errorf("contexts = %v", out.Kubeconfig.Contexts)
	}
}

func TestCredentialsHardenedRejectsAdmin(t *testing.T) {
	u, port := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")
	port.infos["spoke-dev"] = &model.ClusterInfo{Name: "spoke-dev", LocalAccounts: false}

	_, err := u.Credentials(context.Background(), &spoke.CredentialsInput{Name: "spoke-dev"})
	if !errors.Is(err, model.ErrLocalAccountsDisabled) {
		t.Fatalf("err = %v, want ErrLocalAccountsDisabled", err)
	}

	out, err := u.Credentials(context.Background(), &spoke.CredentialsInput{Name: "spoke-dev", Login: "azurecli"})
	if err != nil {
		t.Fatalf("Credentials with login mode: %v", err)
	}
	if out.Kubeconfig == nil {
		t.Fatal("kubeconfig missing from output")
	}
}

func TestCredentialsExecLogin(t *testing.T) {
	u, port := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")

	out, err := u.Credentials(context.Background(), &spoke.CredentialsInput{
		Name:  "spoke-dev",
		Login: "azurecli",
	})
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if port.lastOpts.Login != "azurecli" {
		t.Errorf("login = %q, want azurecli", port.lastOpts.Login)
	}
	auth := out.Kubeconfig.AuthInfos[out.ContextName]
	if auth == nil || auth.Exec == nil || auth.Exec.Command != "kubelogin" {
		t.Errorf("auth = %+v, want kubelogin exec", auth)
	}
}
