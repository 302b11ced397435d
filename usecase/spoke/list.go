package spoke

import (
	"context"
	"sort"

	"github.com/spokeops/spokeops/adapters/argocd"
)

// ListInput represents a command to list the spoke fleet.
type ListInput struct {
	// HubLogin selects hub API credentials; empty uses admin credentials.
	HubLogin    string `json:"hub_login,omitempty"`
	HubClientID string `json:"hub_client_id,omitempty"`
}

// SpokeItem is one fleet member as seen from the hub and the store.
type SpokeItem struct {
	Name        string `json:"name"`
	Environment string `json:"environment,omitempty"`
	Server      string `json:"server,omitempty"`
	SecretName  string `json:"secret_name,omitempty"`
	// Registered is true when a cluster secret exists on the hub.
	Registered bool `json:"registered"`
	// Configured is true when the spoke is present in the store.
	Configured bool `json:"configured"`
}

// ListOutput represents the response of a fleet listing.
type ListOutput struct {
	Spokes []*SpokeItem `json:"spokes"`
}

// List reconciles the hub's cluster secrets against the configured spokes.
// Secrets without configuration and configuration without secrets both
// appear, flagged accordingly.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil {
		in = &ListInput{}
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}
	client, err := u.hubClient(ctx, h, in.HubLogin, in.HubClientID)
	if err != nil {
		return nil, err
	}

	secrets, err := client.ListSecretsBySelector(ctx, hubNamespace(h), argocd.ClusterSecretSelector())
	if err != nil {
		return nil, err
	}

	items := map[string]*SpokeItem{}
	for i := range secrets {
		entry, err := argocd.ClusterFromSecret(&secrets[i])
		if err != nil {
			continue
		}
		items[entry.Name] = &SpokeItem{
			Name:        entry.Name,
			Environment: entry.Environment(),
			Server:      entry.Server,
			SecretName:  secrets[i].Name,
			Registered:  true,
		}
	}

	spokes, err := u.all(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range spokes {
		if item, ok := items[s.Name]; ok {
			item.Configured = true
			continue
		}
		items[s.Name] = &SpokeItem{
			Name:        s.Name,
			Environment: s.Environment,
			Configured:  true,
		}
	}

	out := &ListOutput{Spokes: make([]*SpokeItem, 0, len(items))}
	for _, item := range items {
		out.Spokes = append(out.Spokes, item)
	}
	sort.Slice(out.Spokes, func(i, j int) bool { return out.Spokes[i].Name < out.Spokes[j].Name })
	return out, nil
}
