package spoke_test

import (
	"context"
	"testing"

	"k8s.io/client-go/kubernetes/fake"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/usecase/spoke"
)

func TestDiscover(t *testing.T) {
	u, port := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")
	port.discovered = []*model.DiscoveredCluster{
		{Name: "hub-aks", ResourceGroup: "rg-hub", Location: "japaneast"},
		{Name: "spoke-dev", ResourceGroup: "rg-spoke-dev", Location: "japaneast"},
		{Name: "spoke-new", ResourceGroup: "rg-spoke-new", Location: "japanwest"},
	}

	out, err := u.Discover(context.Background(), &spoke.DiscoverInput{TagKey: "fleet", TagValue: "demo"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(out.Clusters) != 3 {
		t.Errorf("clusters = %d, want 3", len(out.Clusters))
	}
	if len(out.Registered) != 0 {
		t.Errorf("registered = %v, want none without --register", out.Registered)
	}
}

func TestDiscoverRegister(t *testing.T) {
	u, port := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")
	port.discovered = []*model.DiscoveredCluster{
		{Name: "hub-aks", ResourceGroup: "rg-hub"},
		{Name: "spoke-dev", ResourceGroup: "rg-spoke-dev"},
		{Name: "spoke-new", ResourceGroup: "rg-spoke-new"},
	}

	ctx := context.Background()
	out, err := u.Discover(ctx, &spoke.DiscoverInput{Register: true, Environment: "stg"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// The hub and the already-configured spoke must not be registered.
	if len(out.Registered) != 1 || out.Registered[0] != "spoke-new" {
		t.Fatalf("registered = %v, want [spoke-new]", out.Registered)
	}

	st, err := u.Status(ctx, &spoke.StatusInput{Name: "spoke-new"})
	if err != nil {
		t.Fatalf("Status of registered spoke: %v", err)
	}
	if st.Environment != "stg" {
		t.Errorf("environment = %q, want stg", st.Environment)
	}

	// Rerunning discovers nothing new.
	out2, err := u.Discover(ctx, &spoke.DiscoverInput{Register: true})
	if err != nil {
		t.Fatalf("Discover again: %v", err)
	}
	if len(out2.Registered) != 0 {
		t.Errorf("second run registered = %v, want none", out2.Registered)
	}
}

func TestDiscoverRejectsBadEnvironment(t *testing.T) {
	u, port := newUseCase(t, fake.NewSimpleClientset())
	port.discovered = []*model.DiscoveredCluster{{Name: "spoke-new", ResourceGroup: "rg"}}

	_, err := u.Discover(context.Background(), &spoke.DiscoverInput{Register: true, Environment: "Not_Valid"})
	if err == nil {
		t.Fatal("expected environment validation error")
	}
}
