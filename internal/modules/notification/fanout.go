package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"servicemarket/internal/domain"
	"servicemarket/internal/events"
	"servicemarket/internal/pkg/mailer"
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Fanout delivers the downstream side effects of booking and payment
// changes: notification rows, websocket events and receipt emails. Every
// delivery is best-effort — failures are logged and swallowed, so a booking
// stays paid even if its receipt email bounces.
type Fanout struct {
	notifs *Service
	hub    *events.Hub
	mailer mailer.Mailer
	users  userReader
}

func NewFanout(notifs *Service, hub *events.Hub, m mailer.Mailer, users userReader) *Fanout {
	return &Fanout{notifs: notifs, hub: hub, mailer: m, users: users}
}

func (f *Fanout) BookingCreated(ctx context.Context, b *domain.Booking) {
	if b.AgentID == nil {
		return
	}
	err := f.notifs.Create(ctx, *b.AgentID, domain.NotifBookingCreated,
		"New booking request",
		fmt.Sprintf("A client requested a booking for %s", b.ScheduledAt.Format("02 Jan 2006 15:04")),
		map[string]any{"booking_id": b.ID, "service_id": b.ServiceID},
	)
	if err != nil {
		log.Warn().Err(err).Int64("booking_id", b.ID).Msg("booking-created notification failed")
	}
}

func (f *Fanout) StatusChanged(ctx context.Context, b *domain.Booking, old domain.BookingStatus) {
	parties := []int64{b.ClientID}
	if b.AgentID != nil {
		parties = append(parties, *b.AgentID)
	}

	for _, userID := range parties {
		err := f.notifs.Create(ctx, userID, domain.NotifBookingStatusChanged,
			"Booking status changed",
			fmt.Sprintf("Booking #%d moved from %s to %s", b.ID, old, b.Status),
			map[string]any{"booking_id": b.ID, "old_status": old, "new_status": b.Status},
		)
		if err != nil {
			log.Warn().Err(err).Int64("booking_id", b.ID).Int64("user_id", userID).Msg("status-changed notification failed")
		}
	}

	if f.hub != nil {
		f.hub.SendToUsers(&events.Event{
			Type: events.EventBookingStatusChanged,
			Payload: map[string]any{
				"booking_id": b.ID,
				"old_status": old,
				"new_status": b.Status,
			},
		}, parties...)
	}
}

func (f *Fanout) BookingPaid(ctx context.Context, b *domain.Booking) {
	f.sendReceipt(ctx, b.ClientID, b, "Payment confirmation",
		fmt.Sprintf("Your payment of %s for booking #%d was received. The booking is confirmed.", b.TotalPrice, b.ID))
	if b.AgentID != nil {
		f.sendReceipt(ctx, *b.AgentID, b, "Booking paid",
			fmt.Sprintf("Booking #%d has been paid (%s). Please get in touch with the client.", b.ID, b.TotalPrice))
	}

	f.StatusChanged(ctx, b, domain.BookingPending)
}

func (f *Fanout) WalletFunded(ctx context.Context, userID int64, amount decimal.Decimal, reference string) {
	err := f.notifs.Create(ctx, userID, domain.NotifWalletFunded,
		"Wallet funded",
		fmt.Sprintf("Your wallet was credited with %s (ref %s)", amount, reference),
		map[string]any{"reference": reference, "amount": amount},
	)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("wallet-funded notification failed")
	}
}

func (f *Fanout) sendReceipt(ctx context.Context, userID int64, b *domain.Booking, subject, body string) {
	user, err := f.users.GetByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("receipt recipient lookup failed")
		return
	}
	if err := f.mailer.Send(ctx, user.Email, subject, body); err != nil {
		log.Warn().Err(err).Int64("booking_id", b.ID).Str("to", user.Email).Msg("receipt email failed")
	}
}
