package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"servicemarket/internal/domain"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) GetByAddress(ctx context.Context, address string) (*domain.CachedLocation, error) {
	var loc domain.CachedLocation
	err := r.db.WithContext(ctx).
		Where("address = ?", normalizeAddress(address)).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepository) Save(ctx context.Context, loc *domain.CachedLocation) error {
	loc.Address = normalizeAddress(loc.Address)
	err := r.db.WithContext(ctx).Create(loc).Error
	if IsUniqueViolation(err) {
		return nil // another request cached it first
	}
	return err
}

func (r *LocationRepository) ListRecent(ctx context.Context, limit int) ([]domain.CachedLocation, error) {
	var out []domain.CachedLocation
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
