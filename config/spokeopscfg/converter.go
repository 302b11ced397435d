package spokeopscfg

import (
	"time"

	"github.com/google/uuid"
	"github.com/spokeops/spokeops/domain/model"
)

// ToModels converts the configuration to domain models with proper references.
// Returns models in the order: provider, hub, spokes, app.
func (r *Root) ToModels() (*model.Provider, *model.Hub, []*model.Spoke, *model.App, error) {
	now := time.Now()

	providerName := r.Provider.Name
	if providerName == "" {
		providerName = r.Provider.Driver
	}
	provider := &model.Provider{
		ID:        "prv-" + uuid.NewString(),
		Name:      providerName,
		Driver:    r.Provider.Driver,
		Settings:  r.Provider.Settings,
		CreatedAt: now,
		UpdatedAt: now,
	}

	hub := &model.Hub{
		ID:                    "hub-" + uuid.NewString(),
		Name:                  r.Hub.Name,
		ProviderID:            provider.ID,
		ResourceGroup:         r.Hub.ResourceGroup,
		Namespace:             r.Hub.Namespace,
		IdentityName:          r.Hub.Identity.Name,
		IdentityResourceGroup: r.Hub.Identity.ResourceGroup,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	spokes := make([]*model.Spoke, 0, len(r.Spokes))
	for _, s := range r.Spokes {
		spokes = append(spokes, &model.Spoke{
			ID:            "spk-" + uuid.NewString(),
			Name:          s.Name,
			ProviderID:    provider.ID,
			ResourceGroup: s.ResourceGroup,
			Environment:   s.Environment,
			Kubeconfig:    s.Kubeconfig,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	app := &model.App{
		ID:        "app-" + uuid.NewString(),
		Name:      r.App.Name,
		Namespace: r.App.Namespace,
		Image:     r.App.Image,
		Replicas:  r.App.Replicas,
		Requests:  r.App.Requests,
		Limits:    r.App.Limits,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return provider, hub, spokes, app, nil
}
