package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"servicemarket/internal/domain"
	"servicemarket/internal/paystack"
)

var (
	ErrNotFound         = errors.New("booking not found")
	ErrNotBookingOwner  = errors.New("booking belongs to another client")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

type Service struct {
	bookings      bookingRepo
	users         userReader
	gateway       Gateway
	notifs        PaymentNotifier
	webhookSecret string
}

func NewService(bookings bookingRepo, users userReader, gateway Gateway, notifs PaymentNotifier, webhookSecret string) *Service {
	return &Service{
		bookings:      bookings,
		users:         users,
		gateway:       gateway,
		notifs:        notifs,
		webhookSecret: webhookSecret,
	}
}

// InitializePayment requests a hosted-checkout session for a booking. The
// gateway's response data is returned verbatim.
func (s *Service) InitializePayment(ctx context.Context, bookingID, clientID int64) (json.RawMessage, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.ClientID != clientID {
		return nil, ErrNotBookingOwner
	}

	payer, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:     payer.Email,
		Amount:    b.TotalPrice.Mul(decimal.NewFromInt(100)).IntPart(),
		Reference: fmt.Sprintf("BK-%d-%d", b.ID, time.Now().Unix()),
		Metadata:  map[string]any{"booking_id": b.ID, "user_id": clientID},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// HandleWebhook verifies the gateway signature over the raw body and, for
// charge.success events, marks the referenced booking ACCEPTED and fans out
// the same side effects as the wallet payment path.
//
// TODO: guard against repeated webhook delivery the way VerifyFunding does
// (re-check the transaction reference and the booking's PENDING status
// inside one transaction); gateways redeliver webhooks routinely.
func (s *Service) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if !paystack.ValidSignature(s.webhookSecret, rawBody, signature) {
		return ErrInvalidSignature
	}

	var event paystack.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}

	if event.Event != paystack.EventChargeSuccess {
		log.Info().Str("event", event.Event).Msg("ignoring gateway event")
		return nil
	}

	bookingID := event.Data.Metadata.BookingID
	if bookingID == 0 {
		log.Warn().Str("reference", event.Data.Reference).Msg("charge.success without booking metadata")
		return nil
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingAccepted); err != nil {
		return err
	}
	b.Status = domain.BookingAccepted

	log.Info().
		Int64("booking_id", b.ID).
		Str("reference", event.Data.Reference).
		Msg("booking paid via gateway")

	if s.notifs != nil {
		s.notifs.BookingPaid(ctx, b)
	}
	return nil
}
