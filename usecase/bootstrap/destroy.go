package bootstrap

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/spokeops/spokeops/adapters/argocd"
)

// DestroyInput represents a command to remove the fleet GitOps wiring.
type DestroyInput struct {
	// HubLogin selects hub API credentials; empty uses admin credentials.
	HubLogin    string `json:"hub_login,omitempty"`
	HubClientID string `json:"hub_client_id,omitempty"`
}

// DestroyOutput represents the response of a bootstrap destroy.
type DestroyOutput struct {
	AppSetName string `json:"appset_name"`
	Namespace  string `json:"namespace"`
	// Deleted is false when the ApplicationSet was already gone.
	Deleted bool `json:"deleted"`
}

// Destroy deletes the spoke-bootstrap ApplicationSet from the hub. What
// happens to the generated Applications is governed by Argo CD's own
// deletion policies; this command does not chase them.
func (u *UseCase) Destroy(ctx context.Context, in *DestroyInput) (*DestroyOutput, error) {
	if in == nil {
		in = &DestroyInput{}
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}
	ns := hubNamespace(h)

	client, err := u.hubClient(ctx, h, in.HubLogin, in.HubClientID)
	if err != nil {
		return nil, err
	}

	appset := &argocd.ApplicationSet{
		TypeMeta: metav1.TypeMeta{APIVersion: argocd.APIVersion, Kind: "ApplicationSet"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      argocd.BootstrapApplicationSetName,
			Namespace: ns,
		},
	}
	deleted, err := client.DeleteObjects(ctx, []runtime.Object{appset}, ns)
	if err != nil {
		return nil, err
	}
	return &DestroyOutput{
		AppSetName: argocd.BootstrapApplicationSetName,
		Namespace:  ns,
		Deleted:    deleted > 0,
	}, nil
}
