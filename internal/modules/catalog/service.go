package catalog

import (
	"context"
	"errors"

	"servicemarket/internal/domain"
)

var (
	ErrNotFound  = errors.New("listing not found")
	ErrForbidden = errors.New("listing belongs to another agent")
)

type ServiceRepositoryInterface interface {
	Create(ctx context.Context, s *domain.ServiceListing) error
	Update(ctx context.Context, s *domain.ServiceListing) error
	GetByID(ctx context.Context, id int64) (*domain.ServiceListing, error)
	List(ctx context.Context, category string, limit, offset int) ([]domain.ServiceListing, error)
	ListByAgent(ctx context.Context, agentID int64) ([]domain.ServiceListing, error)
}

type Service struct {
	listings ServiceRepositoryInterface
}

func NewService(listings ServiceRepositoryInterface) *Service {
	return &Service{listings: listings}
}

func (s *Service) CreateListing(ctx context.Context, agentID int64, req CreateListingRequest) (*domain.ServiceListing, error) {
	listing := &domain.ServiceListing{
		AgentID:     agentID,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Active:      true,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *Service) UpdateListing(ctx context.Context, agentID, listingID int64, req UpdateListingRequest) (*domain.ServiceListing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, ErrNotFound
	}
	if listing.AgentID != agentID {
		return nil, ErrForbidden
	}

	if req.Category != nil {
		listing.Category = *req.Category
	}
	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.BasePrice != nil {
		listing.BasePrice = *req.BasePrice
	}
	if req.Active != nil {
		listing.Active = *req.Active
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *Service) GetListing(ctx context.Context, id int64) (*domain.ServiceListing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return listing, nil
}

func (s *Service) ListListings(ctx context.Context, category string, limit, offset int) ([]domain.ServiceListing, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.listings.List(ctx, category, limit, offset)
}

func (s *Service) MyListings(ctx context.Context, agentID int64) ([]domain.ServiceListing, error) {
	return s.listings.ListByAgent(ctx, agentID)
}
