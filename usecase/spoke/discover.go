package spoke

import (
	"context"
	"fmt"

	"github.com/spokeops/spokeops/domain/model"
	"github.com/spokeops/spokeops/internal/naming"
)

// DiscoverInput represents a command to discover clusters at the provider.
type DiscoverInput struct {
	// TagKey/TagValue filter clusters by resource tag when TagKey is set.
	TagKey   string `json:"tag_key,omitempty"`
	TagValue string `json:"tag_value,omitempty"`
	// Register adds unknown clusters to the store as spokes.
	Register bool `json:"register,omitempty"`
	// Environment is stamped on newly registered spokes. Defaults to "dev".
	Environment string `json:"environment,omitempty"`
}

// DiscoverOutput represents the response of a fleet discovery.
type DiscoverOutput struct {
	Clusters []*model.DiscoveredCluster `json:"clusters"`
	// Registered lists the clusters added to the store.
	Registered []string `json:"registered,omitempty"`
}

// Discover queries the provider inventory for clusters, optionally filtered
// by tag, and can register the previously unknown ones as spokes. The hub
// cluster is never registered as a spoke.
func (u *UseCase) Discover(ctx context.Context, in *DiscoverInput) (*DiscoverOutput, error) {
	if in == nil {
		in = &DiscoverInput{}
	}

	h, err := u.hub(ctx)
	if err != nil {
		return nil, err
	}

	var opts []model.ListClustersOption
	if in.TagKey != "" {
		opts = append(opts, model.WithListClustersTag(in.TagKey, in.TagValue))
	}
	clusters, err := u.ClusterPort.ListClusters(ctx, h.ProviderID, opts...)
	if err != nil {
		return nil, fmt.Errorf("discover clusters: %w", err)
	}

	out := &DiscoverOutput{Clusters: clusters}
	if !in.Register {
		return out, nil
	}

	env := in.Environment
	if env == "" {
		env = "dev"
	}
	if err := naming.ValidateEnvironmentName(env); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrSpokeInvalid, err)
	}

	known := map[string]bool{h.Name: true}
	spokes, err := u.all(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range spokes {
		known[s.Name] = true
	}

	for _, c := range clusters {
		if known[c.Name] {
			continue
		}
		s := &model.Spoke{
			Name:          c.Name,
			ProviderID:    h.ProviderID,
			ResourceGroup: c.ResourceGroup,
			Environment:   env,
		}
		if err := u.Repos.Spoke.Create(ctx, s); err != nil {
			return nil, fmt.Errorf("register spoke %s: %w", c.Name, err)
		}
		out.Registered = append(out.Registered, c.Name)
	}
	return out, nil
}
