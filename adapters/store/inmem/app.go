package inmem

import (
	"context"

	"github.com/spokeops/spokeops/domain/model"
)

// AppRepository is a thread-safe in-memory implementation.
type AppRepository struct {
	c *collection[model.App]
}

func NewAppRepository() *AppRepository {
	return &AppRepository{c: newCollection(
		"app",
		func(a *model.App) string { return a.ID },
		func(a *model.App, id string) { a.ID = id },
		model.ErrAppNotFound,
	)}
}

func (r *AppRepository) Create(_ context.Context, a *model.App) error {
	return r.c.create(a, nil, nil)
}

func (r *AppRepository) Get(_ context.Context, id string) (*model.App, error) {
	return r.c.get(id)
}

func (r *AppRepository) List(_ context.Context) ([]*model.App, error) {
	return r.c.list()
}

func (r *AppRepository) Update(_ context.Context, a *model.App) error {
	return r.c.update(a)
}

func (r *AppRepository) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}
