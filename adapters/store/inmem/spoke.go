package inmem

import (
	"context"

	"github.com/spokeops/spokeops/domain/model"
)

// SpokeRepository is a thread-safe in-memory implementation. Spoke names
// are unique: registering the same name twice is ErrSpokeExists, matching
// the rdb unique index.
type SpokeRepository struct {
	c *collection[model.Spoke]
}

func NewSpokeRepository() *SpokeRepository {
	return &SpokeRepository{c: newCollection(
		"spk",
		func(s *model.Spoke) string { return s.ID },
		func(s *model.Spoke, id string) { s.ID = id },
		model.ErrSpokeNotFound,
	)}
}

func (r *SpokeRepository) Create(_ context.Context, s *model.Spoke) error {
	return r.c.create(s, func(v *model.Spoke) bool { return v.Name == s.Name }, model.ErrSpokeExists)
}

func (r *SpokeRepository) Get(_ context.Context, id string) (*model.Spoke, error) {
	return r.c.get(id)
}

func (r *SpokeRepository) List(_ context.Context) ([]*model.Spoke, error) {
	return r.c.list()
}

func (r *SpokeRepository) Update(_ context.Context, s *model.Spoke) error {
	return r.c.update(s)
}

func (r *SpokeRepository) Delete(_ context.Context, id string) error {
	return r.c.delete(id)
}
