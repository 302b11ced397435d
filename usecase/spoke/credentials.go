package spoke

import (
	"context"
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/kubeconfig"
)

// CredentialsInput represents a command to acquire spoke credentials.
type CredentialsInput struct {
	// Name of the spoke cluster. Required.
	Name string `json:"name"`
	// Login selects credentials; empty uses admin credentials.
	Login    string `json:"login,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	// ContextName renames the kubeconfig context; empty uses the spoke name.
	ContextName string `json:"context_name,omitempty"`
	// Namespace sets the context default namespace.
	Namespace string `json:"namespace,omitempty"`
	// MergePath merges the credentials into this kubeconfig file instead of
	// returning them.
	MergePath string `json:"merge_path,omitempty"`
	// Force overwrites same-named entries on merge instead of renaming.
	Force bool `json:"force,omitempty"`
	// SetCurrent makes the merged context current.
	SetCurrent bool `json:"set_current,omitempty"`
}

// CredentialsOutput represents the response of a credentials acquisition.
type CredentialsOutput struct {
	ContextName string `json:"context_name"`
	// Kubeconfig is the normalized single-context config; nil when merged
	// into a file.
	Kubeconfig *clientcmdapi.Config `json:"-"`
	MergedPath string               `json:"merged_path,omitempty"`
	Change     kubeconfig.Change    `json:"change,omitempty"`
}

// Credentials fetches spoke cluster credentials and normalizes them to a
// single-context kubeconfig, optionally merging them into an existing file.
// After a spoke is hardened only login modes work; admin requests surface
// model.ErrLocalAccountsDisabled from the provider.
func (u *UseCase) Credentials(ctx context.Context, in *CredentialsInput) (*CredentialsOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.ErrSpokeInvalid
	}

	s, err := u.byName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	data, err := u.ClusterPort.Kubeconfig(ctx, s.Target(), credentialOptions(in.Login, in.ClientID, in.TenantID)...)
	if err != nil {
		return nil, fmt.Errorf("get credentials for spoke %s: %w", s.Name, err)
	}

	ctxName := in.ContextName
	if ctxName == "" {
		ctxName = s.Name
	}
	cfg, err := kubeconfig.LoadAndNormalize(data, ctxName, in.Namespace)
	if err != nil {
		return nil, err
	}

	if in.MergePath == "" {
		return &CredentialsOutput{ContextName: cfg.CurrentContext, Kubeconfig: cfg}, nil
	}

	merged, finalName, change, err := kubeconfig.MergeIntoExisting(cfg, in.MergePath, in.Force, in.SetCurrent)
	if err != nil {
		return nil, err
	}
	if err := clientcmd.WriteToFile(*merged, in.MergePath); err != nil {
		return nil, fmt.Errorf("write kubeconfig %s: %w", in.MergePath, err)
	}
	return &CredentialsOutput{ContextName: finalName, MergedPath: in.MergePath, Change: change}, nil
}
