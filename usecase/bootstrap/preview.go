package bootstrap

import (
	"context"
	"fmt"
	"sort"

	"github.com/spokeops/spokeops/adapters/argocd"
	"github.com/spokeops/spokeops/domain/model"
)

// PreviewInput represents a command to preview the Applications the
// bootstrap ApplicationSet would generate for the current fleet.
type PreviewInput struct {
	Source Source `json:"source"`
	// HubLogin selects hub API credentials; empty uses admin credentials.
	HubLogin    string `json:"hub_login,omitempty"`
	HubClientID string `json:"hub_client_id,omitempty"`
}

// PreviewItem is one Application the cluster generator would stamp.
type PreviewItem struct {
	ClusterName string `json:"cluster_name"`
	Environment string `json:"environment,omitempty"`
	AppName     string `json:"app_name"`
	Server      string `json:"server"`
	Path        string `json:"path"`
}

// PreviewOutput represents the response of a bootstrap preview.
type PreviewOutput struct {
	Items []*PreviewItem `json:"items"`
	// Applications carries the full rendered objects for JSON consumers.
	Applications []*argocd.Application `json:"applications,omitempty"`
}

// Preview reads the hub's registered cluster secrets and renders the
// Application each spoke would receive, without touching the fleet. The
// label-matching and parameter substitution mirror the cluster generator,
// so what this prints is what Argo CD will create.
func (u *UseCase) Preview(ctx context.Context, in *PreviewInput) (*PreviewOutput, error) {
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

	client, err := u.hubClient(ctx, h, in.HubLogin, in.HubClientID)
	if err != nil {
		return nil, err
	}
	secrets, err := client.ListSecretsBySelector(ctx, hubNamespace(h), argocd.ClusterSecretSelector())
	if err != nil {
		return nil, err
	}

	entries := make([]*argocd.ClusterEntry, 0, len(secrets))
	for i := range secrets {
		entry, err := argocd.ClusterFromSecret(&secrets[i])
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	out := &PreviewOutput{}
	for _, entry := range entries {
		// Materialize one entry at a time so each Application stays paired
		// with the cluster secret it came from; non-matching entries yield
		// nothing, same as the cluster generator.
		apps, err := argocd.MaterializeApplications(appset, []*argocd.ClusterEntry{entry})
		if err != nil {
			return nil, err
		}
		for _, app := range apps {
			item := &PreviewItem{
				ClusterName: entry.Name,
				Environment: entry.Environment(),
				AppName:     app.Name,
				Server:      app.Spec.Destination.Server,
			}
			if app.Spec.Source != nil {
				item.Path = app.Spec.Source.Path
			}
			out.Items = append(out.Items, item)
			out.Applications = append(out.Applications, app)
		}
	}
	return out, nil
}
