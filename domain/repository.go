package domain

import (
	"context"
	"errors"

	"github.com/spokeops/spokeops/domain/model"
)

// ProviderRepository stores and retrieves Provider aggregates.
type ProviderRepository interface {
	Create(ctx context.Context, p *model.Provider) error
	Get(ctx context.Context, id string) (*model.Provider, error)
	List(ctx context.Context) ([]*model.Provider, error)
	Update(ctx context.Context, p *model.Provider) error
	Delete(ctx context.Context, id string) error
}

// HubRepository stores and retrieves Hub aggregates.
type HubRepository interface {
	Create(ctx context.Context, h *model.Hub) error
	Get(ctx context.Context, id string) (*model.Hub, error)
	List(ctx context.Context) ([]*model.Hub, error)
	Update(ctx context.Context, h *model.Hub) error
	Delete(ctx context.Context, id string) error
}

// SpokeRepository stores and retrieves Spoke aggregates.
type SpokeRepository interface {
	Create(ctx context.Context, s *model.Spoke) error
	Get(ctx context.Context, id string) (*model.Spoke, error)
	List(ctx context.Context) ([]*model.Spoke, error)
	Update(ctx context.Context, s *model.Spoke) error
	Delete(ctx context.Context, id string) error
}

// AppRepository stores and retrieves App aggregates.
type AppRepository interface {
	Create(ctx context.Context, a *model.App) error
	Get(ctx context.Context, id string) (*model.App, error)
	List(ctx context.Context) ([]*model.App, error)
	Update(ctx context.Context, a *model.App) error
	Delete(ctx context.Context, id string) error
}

// UnitOfWork coordinates transactional operations.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups repository interfaces for use inside UnitOfWork.
type Repositories struct {
	Provider ProviderRepository
	Hub      HubRepository
	Spoke    SpokeRepository
	App      AppRepository
}

var ErrUnitOfWorkNotSupported = errors.New("unit of work not supported (memory)")
