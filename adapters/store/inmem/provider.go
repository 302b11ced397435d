package inmem

import (
	"context"

	"github.com/spokeops/spokeops/domain/model"
)

// ProviderRepository is a thread-safe in-memory implementation.
type ProviderRepository struct {
	c *collection[model.Provider]
}

func NewProviderRepository() *ProviderRepository {
	return &ProviderRepository{c: newCollection(
		"prv",
		func(p *model.Provider) string { return p.ID },
		func(p *model.Provider, id string) { p.ID = id },
		model.ErrProviderNotFound,
	)}
}

func (r *ProviderRepository) Create(_ context.Context, p *model.Provider) error {
	return r.c.create(p, nil, nil)
}

func (r *ProviderRepository) Get(_ context.Context, id string) (*model.Provider, error) {
	return r.c.get(id)
}

func (r *ProviderRepository) List(_ context.Context) ([]*model.Provider, error) {
	return r.c.list()
}

func (r *ProviderRepository) Update(_ context.Context, p *model.Provider) error {
	return r.c.update(p)
}

func (r *ProviderRepository) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}
