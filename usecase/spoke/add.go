package spoke

import (
	"context"
	"errors"
	"fmt"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/naming"
)

// AddInput represents a command to register a spoke cluster with the hub.
type AddInput struct {
	// Name of the spoke cluster. Required.
	Name string `json:"name"`
	// ResourceGroup registers a cluster absent from the configuration.
	ResourceGroup string `json:"resource_group,omitempty"`
	// Environment selects the GitOps overlay. Required for new
	// registrations; overrides the stored value otherwise.
	Environment string `json:"environment,omitempty"`
	// IdentityClientID pins the hub identity on the exec credentials.
	// Empty resolves it from the provider.
	IdentityClientID string `json:"identity_client_id,omitempty"`
	// Login selects the exec login mode embedded in the cluster secret.
	// Empty embeds admin (certificate) credentials unless IdentityClientID
	// is set, which implies workloadidentity.
	Login string `json:"login,omitempty"`
	// HubLogin selects hub API credentials; empty uses admin credentials.
	HubLogin    string `json:"hub_login,omitempty"`
	HubClientID string `json:"hub_client_id,omitempty"`
}

// AddOutput represents the response of a spoke registration.
type AddOutput struct {
	SpokeName       string `json:"spoke_name"`
	Environment     string `json:"environment"`
	SecretName      string `json:"secret_name"`
	SecretNamespace string `json:"secret_namespace"`
	Server          string `json:"server"`
	// Created is true when the spoke was new to the store.
	Created bool `json:"created"`
}

// Add registers a spoke cluster with the hub by writing an Argo CD cluster
// secret carrying the fleet labels and the spoke's credentials. Rerunning
// replaces the secret, so credential rotation is a re-add.
func (u *UseCase) Add(ctx context.Context, in *AddInput) (*AddOutput, error) {
	if in == nil || in.Name == "" {
		return nil, model.ErrSpokeInvalid
	}
	if err := naming.ValidateClusterName(in.Name); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrSpokeInvalid, err)
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}

	s, created, err := u.resolveOrRegister(ctx, h, in)
	if err != nil {
		return nil, err
	}

	login := in.Login
	if login == "" && in.IdentityClientID != "" {
		login = "workloadidentity"
	}

	var clientID string
	if login != "" {
		clientID, err = u.identityClientID(ctx, h, in.IdentityClientID)
		if err != nil {
			return nil, err
		}
	}

	kubeconfig, err := u.ClusterPort.Kubeconfig(ctx, s.Target(), credentialOptions(login, clientID, "")...)
	if err != nil {
		return nil, fmt.Errorf("get credentials for spoke %s: %w", s.Name, err)
	}

	secretOpts := &argocd.ClusterSecretOptions{Namespace: hubNamespace(h)}
	if login == "workloadidentity" && clientID != "" {
		secretOpts.ExecEnv = map[string]string{"AZURE_CLIENT_ID": clientID}
	}
	secret, err := argocd.BuildClusterSecret(s, kubeconfig, secretOpts)
	if err != nil {
		return nil, err
	}

	client, err := u.hubClient(ctx, h, in.HubLogin, in.HubClientID)
	if err != nil {
		return nil, err
	}
	if err := client.UpsertSecret(ctx, secret); err != nil {
		return nil, err
	}

	return &AddOutput{
		SpokeName:       s.Name,
		Environment:     s.Environment,
		SecretName:      secret.Name,
		SecretNamespace: secret.Namespace,
		Server:          secret.StringData["server"],
		Created:         created,
	}, nil
}

// resolveOrRegister finds the spoke in the store or registers it from the
// input. A stored spoke picks up an environment override.
func (u *UseCase) resolveOrRegister(ctx context.Context, h *model.Hub, in *AddInput) (*model.Spoke, bool, error) {
	s, err := u.byName(ctx, in.Name)
	if err == nil {
		if in.Environment != "" && in.Environment != s.Environment {
			if err := naming.ValidateEnvironmentName(in.Environment); err != nil {
				return nil, false, fmt.Errorf("%w: %s", model.ErrSpokeInvalid, err)
			}
			s.Environment = in.Environment
			if err := u.Repos.Spoke.Update(ctx, s); err != nil {
				return nil, false, err
			}
		}
		return s, false, nil
	}
	if !errors.Is(err, model.ErrSpokeNotFound) {
		return nil, false, err
	}

	if in.ResourceGroup == "" {
		return nil, false, fmt.Errorf("spoke %s is not configured; a resource group is required to register it", in.Name)
	}
	env := in.Environment
	if env == "" {
		env = "dev"
	}
	if err := naming.ValidateEnvironmentName(env); err != nil {
		return nil, false, fmt.Errorf("%w: %s", model.ErrSpokeInvalid, err)
	}
	s = &model.Spoke{
		Name:          in.Name,
		ProviderID:    h.ProviderID,
		ResourceGroup: in.ResourceGroup,
		Environment:   env,
	}
	if err := u.Repos.Spoke.Create(ctx, s); err != nil {
		return nil, false, err
	}
	return s, true, nil
}
