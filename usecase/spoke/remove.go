package spoke

import (
	"context"
	"errors"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/naming"
)

// RemoveInput represents a command to deregister a spoke from the hub.
type RemoveInput struct {
	// Name of the spoke cluster. Required.
	Name string `json:"name"`
	// Forget also removes the spoke from the store.
	Forget bool `json:"forget,omitempty"`
	// HubLogin selects hub API credentials; empty uses admin credentials.
	HubLogin    string `json:"hub_login,omitempty"`
	HubClientID string `json:"hub_client_id,omitempty"`
}

// RemoveOutput represents the response of a spoke deregistration.
type RemoveOutput struct {
	SpokeName  string `json:"spoke_name"`
	SecretName string `json:"secret_name"`
	// Removed is false when no cluster secret was present.
	Removed bool `json:"removed"`
	// Forgotten is true when the spoke was also dropped from the store.
	Forgotten bool `json:"forgotten,omitempty"`
}

// Remove deletes the spoke's Argo CD cluster secret from the hub. Argo CD
// prunes the generated Application on its own. A missing secret is not an
// error so cleanup can be rerun.
func (u *UseCase) Remove(ctx context.Context, in *RemoveInput) (*RemoveOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.ErrSpokeInvalid
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}
	client, err := u.hubClient(ctx, h, in.HubLogin, in.HubClientID)
	if err != nil {
		return nil, err
	}

	ns := hubNamespace(h)
	secretName := naming.ClusterSecretName(in.Name)
	out := &RemoveOutput{SpokeName: in.Name, SecretName: secretName}

	secrets, err := client.ListSecretsBySelector(ctx, ns, argocd.ClusterSecretSelector())
	if err != nil {
		return nil, err
	}
	for i := range secrets {
		if secrets[i].Name == secretName {
			out.Removed = true
			break
		}
	}
	if err := client.DeleteSecret(ctx, ns, secretName); err != nil {
		return nil, err
	}

	if in.Forget {
		s, err := u.byName(ctx, in.Name)
		switch {
		case err == nil:
			if err := u.Repos.Spoke.Delete(ctx, s.ID); err != nil {
				return nil, err
			}
			out.Forgotten = true
		case !errors.Is(err, model.ErrSpokeNotFound):
			return nil, err
		}
	}
	return out, nil
}
