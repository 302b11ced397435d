package spoke_test

import (
	"context"
	"testing"

	"k8s.io/client-go/kubernetes/fake"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/usecase/spoke"
)

func TestRemove(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, _ := newUseCase(t, clientset, "spoke-dev")

	ctx := context.Background()
	if _, err := u.Add(ctx, &spoke.AddInput{Name: "spoke-dev"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	out, err := u.Remove(ctx, &spoke.RemoveInput{Name: "spoke-dev"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !out.Removed {
		t.Error("removed = false, want true")
	}
	if out.SecretName != "cluster-spoke-dev" {
		t.Errorf("secret name = %q", out.SecretName)
	}

	list, err := u.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, item := range list.Spokes {
		if item.Name == "spoke-dev" && item.Registered {
			t.Error("spoke-dev still registered after remove")
		}
	}
}

func TestRemoveMissingSecret(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")

	out, err := u.Remove(context.Background(), &spoke.RemoveInput{Name: "spoke-dev"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if out.Removed {
		t.Error("removed = true, want false for missing secret")
	}
}

func TestRemoveForget(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	u, _ := newUseCase(t, clientset, "spoke-dev")

	ctx := context.Background()
	out, err := u.Remove(ctx, &spoke.RemoveInput{Name: "spoke-dev", Forget: true})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !out.Forgotten {
		t.Error("forgotten = false, want true")
	}

	if _, err := u.Status(ctx, &spoke.StatusInput{Name: "spoke-dev"}); err == nil {
		t.Error("status of forgotten spoke should fail")
	}

	// Forgetting an unknown spoke is not an error.
	out2, err := u.Remove(ctx, &spoke.RemoveInput{Name: "spoke-dev", Forget: true})
	if err != nil {
		t.Fatalf("Remove again: %v", err)
	}
	if out2.Forgotten {
		t.Error("forgotten = true for unknown spoke")
	}
}

func TestRemoveValidation(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset())
	if _, err := u.Remove(context.Background(), nil); err != model.ErrSpokeInvalid {
		t.Fatalf("err = %v, want ErrSpokeInvalid", err)
	}
}
