package inmem

import (
	"context"

	"github.com/spokeops/spokeops/config/spokeopscfg"
	"github.com/spokeops/spokeops/domain"
)

// Store provides a unified interface for all in-memory repositories.
type Store struct {
	ProviderRepository *ProviderRepository
	HubRepository      *HubRepository
	SpokeRepository    *SpokeRepository
	AppRepository      *AppRepository
	// ConfigRoot keeps the configuration the store was seeded from, if any.
	ConfigRoot *spokeopscfg.Root
}

// NewStore creates a new in-memory store with all repositories.
func NewStore() *Store {
	return &Store{
		ProviderRepository: NewProviderRepository(),
		HubRepository:      NewHubRepository(),
		SpokeRepository:    NewSpokeRepository(),
		AppRepository:      NewAppRepository(),
	}
}

// LoadFromConfig seeds the store from a spokeops.yml configuration.
func (s *Store) LoadFromConfig(ctx context.Context, cfg *spokeopscfg.Root) error {
	provider, hub, spokes, app, err := cfg.ToModels()
	if err != nil {
		return err
	}

	// Store models in dependency order: provider, hub, spokes, app.
	if err := s.ProviderRepository.Create(ctx, provider); err != nil {
		return err
	}
	if err := s.HubRepository.Create(ctx, hub); err != nil {
		return err
	}
	for _, spoke := range spokes {
		if err := s.SpokeRepository.Create(ctx, spoke); err != nil {
			return err
		}
	}
	if err := s.AppRepository.Create(ctx, app); err != nil {
		return err
	}

	s.ConfigRoot = cfg
	return nil
}

// LoadFromFile loads a spokeops.yml file into the memory store.
func (s *Store) LoadFromFile(ctx context.Context, path string) error {
	cfg, err := spokeopscfg.Load(path)
	if err != nil {
		return err
	}
	return s.LoadFromConfig(ctx, cfg)
}

// Compile-time assertions
var _ domain.ProviderRepository = (*ProviderRepository)(nil)
var _ domain.HubRepository = (*HubRepository)(nil)
var _ domain.SpokeRepository = (*SpokeRepository)(nil)
var _ domain.AppRepository = (*AppRepository)(nil)
