package rdb

import (
	"context"

	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/domain/model"
	"gorm.io/gorm"
)

type HubRepository struct{ db *gorm.DB }

func NewHubRepository(db *gorm.DB) *HubRepository { return &HubRepository{db: db} }

func hubToRecord(h *model.Hub) *HubRecord {
	return &HubRecord{
		ID: h.ID, Name: h.Name, ProviderID: h.ProviderID,
		ResourceGroup: h.ResourceGroup, Namespace: h.Namespace,
		IdentityName: h.IdentityName, IdentityResourceGroup: h.IdentityResourceGroup,
		CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt,
	}
}
func hubToModel(r *HubRecord) *model.Hub {
	return &model.Hub{
		ID: r.ID, Name: r.Name, ProviderID: r.ProviderID,
		ResourceGroup: r.ResourceGroup, Namespace: r.Namespace,
		IdentityName: r.IdentityName, IdentityResourceGroup: r.IdentityResourceGroup,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r *HubRepository) Create(ctx context.Context, h *model.Hub) error {
	rec := hubToRecord(h)
	if rec.ID == "" {
		rec.ID = newID("hub")
		h.ID = rec.ID
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *HubRepository) Get(ctx context.Context, id string) (*model.Hub, error) {
	var rec HubRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, model.ErrHubNotFound
		}
		return nil, err
	}
	return hubToModel(&rec), nil
}

func (r *HubRepository) List(ctx context.Context) ([]*model.Hub, error) {
	var recs []HubRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Hub, 0, len(recs))
	for i := range recs {
		out = append(out, hubToModel(&recs[i]))
	}
	return out, nil
}

func (r *HubRepository) Update(ctx context.Context, h *model.Hub) error {
	rec := hubToRecord(h)
	return r.db.WithContext(ctx).Model(&HubRecord{}).Where("id = ?", rec.ID).Updates(rec).Error
}

func (r *HubRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&HubRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrHubNotFound
	}
	return nil
}

var _ domain.HubRepository = (*HubRepository)(nil)
