package repository

import (
	"context"

	"gorm.io/gorm"

	"servicemarket/internal/domain"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.ServiceListing) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceRepository) Update(ctx context.Context, s *domain.ServiceListing) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceListing, error) {
	var s domain.ServiceListing
	if err := r.db.WithContext(ctx).Preload("Agent").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) List(ctx context.Context, category string, limit, offset int) ([]domain.ServiceListing, error) {
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var out []domain.ServiceListing
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&out).Error
	return out, err
}

func (r *ServiceRepository) ListByAgent(ctx context.Context, agentID int64) ([]domain.ServiceListing, error) {
	var out []domain.ServiceListing
	err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
