package auth

import (
	"context"

	"servicemarket/internal/domain"
)

// UserRepositoryInterface — only the methods auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AgentProfileWriter stores the vetting profile created at agent sign-up.
type AgentProfileWriter interface {
	CreateProfile(ctx context.Context, p *domain.AgentProfile) error
}
