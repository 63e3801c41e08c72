package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"servicemarket/internal/domain"
	"servicemarket/internal/paystack"
)

type Service struct {
	db      *gorm.DB
	txns    TransactionStore
	gateway Gateway
	notifs  PaymentNotifier
}

func NewService(db *gorm.DB, txns TransactionStore, gateway Gateway, notifs PaymentNotifier) *Service {
	return &Service{db: db, txns: txns, gateway: gateway, notifs: notifs}
}

// PayBooking debits the client's wallet and accepts the booking in one
// database transaction. Ownership, status and funds checks fail before any
// state is mutated.
func (s *Service) PayBooking(ctx context.Context, bookingID, clientID int64) (*domain.Booking, *domain.Transaction, error) {
	var b domain.Booking
	if err := s.db.WithContext(ctx).First(&b, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}

	if b.ClientID != clientID {
		return nil, nil, ErrNotBookingOwner
	}
	if b.Status != domain.BookingPending {
		return nil, nil, ErrBookingNotPending
	}

	txn := domain.Transaction{
		UserID:    clientID,
		BookingID: &b.ID,
		Type:      domain.TransactionDebit,
		Source:    domain.SourceBookingPayment,
		Reference: bookingReference(b.ID),
		Amount:    b.TotalPrice,
		Status:    domain.TransactionSuccess,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payer domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payer, clientID).Error; err != nil {
			return err
		}

		if payer.Balance.LessThan(b.TotalPrice) {
			return ErrInsufficientFunds
		}

		newBalance := payer.Balance.Sub(b.TotalPrice)
		if err := tx.Model(&domain.User{}).Where("id = ?", clientID).Update("balance", newBalance).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Update("status", domain.BookingAccepted).Error; err != nil {
			return err
		}

		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, nil, err
	}

	b.Status = domain.BookingAccepted
	if s.notifs != nil {
		s.notifs.BookingPaid(ctx, &b)
	}

	return &b, &txn, nil
}

// InitializeFunding creates a pending credit transaction and requests a
// hosted-checkout session from the gateway for it.
func (s *Service) InitializeFunding(ctx context.Context, user *domain.User, amount decimal.Decimal) (string, any, error) {
	if !amount.IsPositive() {
		return "", nil, ErrInvalidAmount
	}

	reference := fundingReference(user.ID)
	txn := domain.Transaction{
		UserID:    user.ID,
		Type:      domain.TransactionCredit,
		Source:    domain.SourceWalletFunding,
		Reference: reference,
		Amount:    amount,
		Status:    domain.TransactionPending,
	}
	if err := s.txns.Create(ctx, &txn); err != nil {
		return "", nil, err
	}

	resp, err := s.gateway.InitializeTransaction(ctx, initializeRequest(user, amount, reference))
	if err != nil {
		return "", nil, err
	}

	// the gateway's checkout data is returned verbatim
	return reference, resp.Data, nil
}

// VerifyFunding reconciles a funding reference against the gateway. A
// reference is credited at most once: a transaction already marked success
// is returned as-is without touching the balance.
func (s *Service) VerifyFunding(ctx context.Context, reference string) (*domain.Transaction, bool, error) {
	data, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, false, err
	}
	if data.Status != "success" {
		return nil, false, ErrFundingNotSuccessful
	}

	var txn domain.Transaction
	credited := false

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the lookup must run on tx so the row lock holds until commit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reference = ?", reference).
			First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if txn.Status == domain.TransactionSuccess {
			return nil // already credited; idempotent
		}

		var owner domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&owner, txn.UserID).Error; err != nil {
			return err
		}

		newBalance := owner.Balance.Add(txn.Amount)
		if err := tx.Model(&domain.User{}).Where("id = ?", owner.ID).Update("balance", newBalance).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Transaction{}).
			Where("id = ?", txn.ID).
			Update("status", domain.TransactionSuccess).Error; err != nil {
			return err
		}

		txn.Status = domain.TransactionSuccess
		credited = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if credited && s.notifs != nil {
		s.notifs.WalletFunded(ctx, txn.UserID, txn.Amount, reference)
	}

	return &txn, credited, nil
}

func (s *Service) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return decimal.Zero, err
	}
	return u.Balance, nil
}

func (s *Service) Transactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.txns.ListByUser(ctx, userID, limit, 0)
}

func initializeRequest(user *domain.User, amount decimal.Decimal, reference string) paystack.InitializeRequest {
	return paystack.InitializeRequest{
		Email:     user.Email,
		Amount:    toMinorUnits(amount),
		Reference: reference,
		Metadata:  map[string]any{"user_id": user.ID},
	}
}

// toMinorUnits converts a major-unit amount to the gateway's minor unit.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func bookingReference(bookingID int64) string {
	return fmt.Sprintf("BK-%d-%d", bookingID, time.Now().UnixNano())
}

func fundingReference(userID int64) string {
	return fmt.Sprintf("WF-%d-%d", userID, time.Now().UnixNano())
}
