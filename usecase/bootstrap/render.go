package bootstrap

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/domain/model"
)

// RenderInput represents a command to render the GitOps wiring as YAML
// without applying it.
type RenderInput struct {
	Source Source `json:"source"`
	// WithRBAC includes the workload identity RBAC bundle.
	WithRBAC bool `json:"with_rbac,omitempty"`
	// IdentityClientID pins the hub identity on the RBAC bundle. Empty
	// resolves it from the provider.
	IdentityClientID string `json:"identity_client_id,omitempty"`
}

// RenderOutput represents the rendered manifests.
type RenderOutput struct {
	AppSetName string `json:"appset_name"`
	Namespace  string `json:"namespace"`
	// Manifest is the multi-document YAML, ready for kubectl apply.
	Manifest string `json:"manifest"`
}

// Render produces the manifests Apply would install, for review or for
// committing to the GitOps repository itself instead of applying directly.
func (u *UseCase) Render(ctx context.Context, in *RenderInput) (*RenderOutput, error) {
	if in == nil || in.Source.RepoURL == "" {
		return nil, fmt.Errorf("%w: bootstrap repo URL is required", model.ErrHubInvalid)
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}

	appset, err := argocd.BuildBootstrapApplicationSet(appSetSpec(&in.Source, h))
	if err != nil {
		return nil, fmt.Errorf("build applicationset: %w", err)
	}

	objs := []runtime.Object{appset}
	if in.WithRBAC {
		clientID, err := u.identityClientID(ctx, h, in.IdentityClientID)
		if err != nil {
			return nil, err
		}
		rbac, err := argocd.BuildSpokeRBAC(clientID, nil)
		if err != nil {
			return nil, fmt.Errorf("build spoke rbac: %w", err)
		}
		objs = append(objs, rbac...)
	}

	manifest, err := kube.BuildCleanManifest(objs)
	if err != nil {
		return nil, fmt.Errorf("render manifest: %w", err)
	}
	return &RenderOutput{
		AppSetName: appset.Name,
		Namespace:  appset.Namespace,
		Manifest:   manifest,
	}, nil
}
