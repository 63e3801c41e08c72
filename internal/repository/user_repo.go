package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"servicemarket/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) CreateProfile(ctx context.Context, p *domain.AgentProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *UserRepository) ListAgents(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var agents []domain.User
	err := r.db.WithContext(ctx).
		Where("role = ?", domain.RoleAgent).
		Order("name").
		Limit(limit).Offset(offset).
		Find(&agents).Error
	return agents, err
}
