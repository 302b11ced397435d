package rdb

import (
	"context"

	"github.com/spokeops/spokeops/domain"
	"github.com/spokeops/spokeops/domain/model"
	"gorm.io/gorm"
)

type SpokeRepository struct{ db *gorm.DB }

func NewSpokeRepository(db *gorm.DB) *SpokeRepository { return &SpokeRepository{db: db} }

func spokeToRecord(s *model.Spoke) *SpokeRecord {
	return &SpokeRecord{
		ID: s.ID, Name: s.Name, ProviderID: s.ProviderID,
		ResourceGroup: s.ResourceGroup, Environment: s.Environment, Kubeconfig: s.Kubeconfig,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}
func spokeToModel(r *SpokeRecord) *model.Spoke {
	return &model.Spoke{
		ID: r.ID, Name: r.Name, ProviderID: r.ProviderID,
		ResourceGroup: r.ResourceGroup, Environment: r.Environment, Kubeconfig: r.Kubeconfig,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r *SpokeRepository) Create(ctx context.Context, s *model.Spoke) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&SpokeRecord{}).Where("name = ?", s.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return model.ErrSpokeExists
	}
	rec := spokeToRecord(s)
	if rec.ID == "" {
		rec.ID = newID("spk")
		s.ID = rec.ID
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *SpokeRepository) Get(ctx context.Context, id string) (*model.Spoke, error) {
	var rec SpokeRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, model.ErrSpokeNotFound
		}
		return nil, err
	}
	return spokeToModel(&rec), nil
}

func (r *SpokeRepository) List(ctx context.Context) ([]*model.Spoke, error) {
	var recs []SpokeRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Spoke, 0, len(recs))
	for i := range recs {
		out = append(out, spokeToModel(&recs[i]))
	}
	return out, nil
}

func (r *SpokeRepository) Update(ctx context.Context, s *model.Spoke) error {
	rec := spokeToRecord(s)
	return r.db.WithContext(ctx).Model(&SpokeRecord{}).Where("id = ?", rec.ID).Updates(rec).Error
}

func (r *SpokeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&SpokeRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrSpokeNotFound
	}
	return nil
}

var _ domain.SpokeRepository = (*SpokeRepository)(nil)
