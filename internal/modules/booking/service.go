package booking

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"servicemarket/internal/domain"
)

type Service struct {
	bookings BookingRepository
	listings ListingReader
	geocoder Geocoder
	notifs   NotificationSender
}

func NewService(bookings BookingRepository, listings ListingReader, geocoder Geocoder, notifs NotificationSender) *Service {
	return &Service{
		bookings: bookings,
		listings: listings,
		geocoder: geocoder,
		notifs:   notifs,
	}
}

// CreateBooking creates a PENDING booking for the client. The total price is
// fixed here from the listing's base price and is never recomputed.
func (s *Service) CreateBooking(ctx context.Context, clientID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ScheduledAt.Before(time.Now()) {
		return nil, ErrValidation
	}

	listing, err := s.listings.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, ErrValidation
	}
	if !listing.Active {
		return nil, ErrValidation
	}

	agentID := listing.AgentID
	b := &domain.Booking{
		ClientID:    clientID,
		AgentID:     &agentID,
		ServiceID:   listing.ID,
		Status:      domain.BookingPending,
		ScheduledAt: req.ScheduledAt,
		Address:     req.Address,
		TotalPrice:  listing.BasePrice,
		Notes:       req.Notes,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	// best-effort geocode; booking stands without coordinates
	if s.geocoder != nil {
		if lat, lng, err := s.geocoder.Geocode(ctx, req.Address); err == nil {
			if err := s.bookings.UpdateCoordinates(ctx, b.ID, lat, lng); err == nil {
				b.Lat, b.Lng = &lat, &lng
			}
		} else {
			log.Warn().Err(err).Int64("booking_id", b.ID).Msg("geocode failed")
		}
	}

	if s.notifs != nil {
		s.notifs.BookingCreated(ctx, b)
	}

	return b, nil
}

// UpdateStatus applies the role-aware transition gate. Each request is
// validated against the booking's current persisted status; no state-machine
// object is kept between requests.
func (s *Service) UpdateStatus(ctx context.Context, bookingID, actorID int64, actorRole string, newStatus domain.BookingStatus) (*domain.Booking, error) {
	switch newStatus {
	case domain.BookingAccepted, domain.BookingDeclined, domain.BookingCompleted, domain.BookingCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !isParty(b, actorID) {
		return nil, ErrForbidden
	}

	switch actorRole {
	case string(domain.RoleClient):
		if actorID != b.ClientID {
			return nil, ErrForbidden
		}
		// clients may only cancel, and only before completion
		if newStatus != domain.BookingCancelled {
			return nil, ErrForbidden
		}
		if b.Status.IsTerminal() {
			return nil, ErrForbidden
		}
	case string(domain.RoleAgent):
		if b.AgentID == nil || actorID != *b.AgentID {
			return nil, ErrForbidden
		}
		// agents may accept, decline or complete; no current-status check
		if newStatus == domain.BookingCancelled {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	old := b.Status
	if err := s.bookings.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		return nil, err
	}
	b.Status = newStatus

	if s.notifs != nil {
		s.notifs.StatusChanged(ctx, b, old)
	}

	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isParty(b, actorID) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, actorID int64, actorRole string, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if actorRole == string(domain.RoleAgent) {
		return s.bookings.ListByAgent(ctx, actorID, limit, offset)
	}
	return s.bookings.ListByClient(ctx, actorID, limit, offset)
}

func isParty(b *domain.Booking, userID int64) bool {
	if userID == b.ClientID {
		return true
	}
	return b.AgentID != nil && userID == *b.AgentID
}
