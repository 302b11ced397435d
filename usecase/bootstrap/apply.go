package bootstrap

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/adapters/kube"
	"github.com/spokeops/spokeops/domain/model"
)

// ApplyInput represents a command to install the fleet GitOps wiring.
type ApplyInput struct {
	Source Source `json:"source"`
	// Manifest, when set, is a rendered multi-document YAML applied to the
	// hub as-is (the render, review, apply loop). Source and the RBAC
	// fields are ignored.
	Manifest []byte `json:"manifest,omitempty"`
	// WithRBAC also applies the workload identity RBAC bundle to spokes.
	WithRBAC bool `json:"with_rbac,omitempty"`
	// SpokeNames limits the RBAC bundle to these spokes; empty means all.
	SpokeNames []string `json:"spoke_names,omitempty"`
	// IdentityClientID pins the hub identity on the RBAC bundle. Empty
	// resolves it from the provider.
	IdentityClientID string `json:"identity_client_id,omitempty"`
	// SpokeLogin selects spoke API credentials for the RBAC bundle; empty
	// uses admin credentials.
	SpokeLogin string `json:"spoke_login,omitempty"`
	// HubLogin selects hub API credentials; empty uses admin credentials.
	HubLogin    string `json:"hub_login,omitempty"`
	HubClientID string `json:"hub_client_id,omitempty"`
}

// ApplyOutput represents the response of a bootstrap apply.
type ApplyOutput struct {
	// AppSetName is empty when a pre-rendered manifest was applied.
	AppSetName string `json:"appset_name,omitempty"`
	Namespace  string `json:"namespace"`
	// RBACSpokes lists the spokes the RBAC bundle was applied to.
	RBACSpokes []string `json:"rbac_spokes,omitempty"`
	// IdentityClientID is the client ID stamped on the bundle, if any.
	IdentityClientID string `json:"identity_client_id,omitempty"`
}

// Apply installs the spoke-bootstrap ApplicationSet on the hub. From then
// on Argo CD materializes one Application per registered spoke; adding or
// removing cluster secrets is all it takes to grow or shrink the fleet.
// With WithRBAC it also applies the workload identity bundle to each spoke
// so the hub identity can manage them after hardening. A pre-rendered
// Manifest is applied to the hub verbatim instead of building anything.
func (u *UseCase) Apply(ctx context.Context, in *ApplyInput) (*ApplyOutput, error) {
	if in == nil || (len(in.Manifest) == 0 && in.Source.RepoURL == "") {
		return nil, fmt.Errorf("%w: bootstrap repo URL is required", model.ErrHubInvalid)
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}

	client, err := u.hubClient(ctx, h, in.HubLogin, in.HubClientID)
	if err != nil {
		return nil, err
	}

	if len(in.Manifest) > 0 {
		if err := client.ApplyYAML(ctx, in.Manifest, &kube.ApplyOptions{
			DefaultNamespace: hubNamespace(h),
			ForceConflicts:   true,
		}); err != nil {
			return nil, fmt.Errorf("apply manifest: %w", err)
		}
		return &ApplyOutput{Namespace: hubNamespace(h)}, nil
	}

	appset, err := argocd.BuildBootstrapApplicationSet(appSetSpec(&in.Source, h))
	if err != nil {
		return nil, fmt.Errorf("build applicationset: %w", err)
	}

	if err := client.ApplyObjects(ctx, []runtime.Object{appset}, &kube.ApplyOptions{
		DefaultNamespace: appset.Namespace,
		ForceConflicts:   true,
	}); err != nil {
		return nil, fmt.Errorf("apply applicationset: %w", err)
	}

	out := &ApplyOutput{AppSetName: appset.Name, Namespace: appset.Namespace}
	if !in.WithRBAC {
		return out, nil
	}

	clientID, err := u.identityClientID(ctx, h, in.IdentityClientID)
	if err != nil {
		return nil, err
	}
	objs, err := argocd.BuildSpokeRBAC(clientID, nil)
	if err != nil {
		return nil, fmt.Errorf("build spoke rbac: %w", err)
	}
	out.IdentityClientID = clientID

	spokes, err := u.spokes(ctx, in.SpokeNames)
	if err != nil {
		return nil, err
	}
	for _, s := range spokes {
		kubeconfig, err := u.ClusterPort.Kubeconfig(ctx, s.Target(), credentialOptions(in.SpokeLogin, "", "")...)
		if err != nil {
			return nil, fmt.Errorf("get credentials for spoke %s: %w", s.Name, err)
		}
		sc, err := u.kubeClient(ctx, kubeconfig)
		if err != nil {
			return nil, err
		}
		if err := sc.ApplyObjects(ctx, objs, &kube.ApplyOptions{ForceConflicts: true}); err != nil {
			return nil, fmt.Errorf("apply rbac to spoke %s: %w", s.Name, err)
		}
		out.RBACSpokes = append(out.RBACSpokes, s.Name)
	}
	return out, nil
}
