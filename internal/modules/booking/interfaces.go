package booking

import (
	"context"

	"servicemarket/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateCoordinates(ctx context.Context, id int64, lat, lng float64) error
	ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]domain.Booking, error)
	ListByAgent(ctx context.Context, agentID int64, limit, offset int) ([]domain.Booking, error)
}

type ListingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceListing, error)
}

// Geocoder resolves a street address to coordinates. Failures are
// best-effort: a booking is created without coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// NotificationSender fans out booking events. Implementations must not
// return errors; delivery is best-effort by contract.
type NotificationSender interface {
	BookingCreated(ctx context.Context, b *domain.Booking)
	StatusChanged(ctx context.Context, b *domain.Booking, old domain.BookingStatus)
}
