package payment

import (
	"context"

	"servicemarket/internal/domain"
	"servicemarket/internal/paystack"
)

type Gateway interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.APIResponse, error)
}

type bookingRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// PaymentNotifier fans out receipts and events after a booking is paid.
// Best-effort by contract; failures never roll back the payment.
type PaymentNotifier interface {
	BookingPaid(ctx context.Context, b *domain.Booking)
}
