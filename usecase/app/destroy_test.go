package app_test

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/usecase/app"
)

func demoNamespace() *corev1.Namespace {
	return &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "demo-app"}}
}

func TestDestroy(t *testing.T) {
	clientset := fake.NewSimpleClientset(demoNamespace())
	u, _ := newUseCase(t, clientset, "spoke-dev")

	out, err := u.Destroy(context.Background(), &app.DestroyInput{})
	if err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if !out.Waited {
		t.Error("waited = false")
	}

	_, err = clientset.CoreV1().Namespaces().Get(context.Background(), "demo-app", metav1.GetOptions{})
	if !apierrors.IsNotFound(err) {
		t.Fatalf("namespace lookup after destroy = %v, want NotFound", err)
	}
}

func TestDestroyNoWait(t *testing.T) {
	clientset := fake.NewSimpleClientset(demoNamespace())
	u, _ := newUseCase(t, clientset, "spoke-dev")

	out, err := u.Destroy(context.Background(), &app.DestroyInput{NoWait: true})
	if err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if out.Waited {
		t.Error("waited = true with NoWait")
	}

	_, err = clientset.CoreV1().Namespaces().Get(context.Background(), "demo-app", metav1.GetOptions{})
	if !apierrors.IsNotFound(err) {
		t.Fatalf("namespace lookup after destroy = %v, want NotFound", err)
	}
}

func TestDestroyMissingNamespace(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")

	if _, err := u.Destroy(context.Background(), &app.DestroyInput{}); err != nil {
		t.Fatalf("Destroy on empty cluster: %v", err)
	}
}

func TestDestroyUnknownApp(t *testing.T) {
	u, _ := newUseCase(t, fake.NewSimpleClientset(), "spoke-dev")

	_, err := u.Destroy(context.Background(), &app.DestroyInput{AppName: "nope"})
	if !errors.Is(err, model.ErrAppNotFound) {
		t.Fatalf("err = %v, want ErrAppNotFound", err)
	}
}
