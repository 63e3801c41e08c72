package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"servicemarket/internal/domain"
	"servicemarket/internal/paystack"
)

// Gateway is the slice of the payment gateway the wallet needs.
type Gateway interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.APIResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifyData, error)
}

// TransactionStore covers the transaction reads and writes that happen
// outside a locked balance transaction.
type TransactionStore interface {
	Create(ctx context.Context, t *domain.Transaction) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error)
}

// PaymentNotifier fans out the side effects of a completed payment.
// Delivery is best-effort; implementations log and swallow failures.
type PaymentNotifier interface {
	BookingPaid(ctx context.Context, b *domain.Booking)
	WalletFunded(ctx context.Context, userID int64, amount decimal.Decimal, reference string)
}
