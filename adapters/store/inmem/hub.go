package inmem

import (
	"context"

	"github.com/spokeops/spokeops/domain/model"
)

// HubRepository is a thread-safe in-memory implementation.
type HubRepository struct {
	c *collection[model.Hub]
}

func NewHubRepository() *HubRepository {
	return &HubRepository{c: newCollection(
		"hub",
		func(h *model.Hub) string { return h.ID },
		func(h *model.Hub, id string) { h.ID = id },
		model.ErrHubNotFound,
	)}
}

func (r *HubRepository) Create(_ context.Context, h *model.Hub) error {
	return r.c.create(h, nil, nil)
}

func (r *HubRepository) Get(_ context.Context, id string) (*model.Hub, error) {
	return r.c.get(id)
}

func (r *HubRepository) List(_ context.Context) ([]*model.Hub, error) {
	return r.c.list()
}

func (r *HubRepository) Update(_ context.Context, h *model.Hub) error {
	return r.c.update(h)
}

func (r *HubRepository) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}
