package wallet

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotBookingOwner      = errors.New("booking belongs to another client")
	ErrBookingNotPending    = errors.New("booking already processed")
	ErrInsufficientFunds    = errors.New("insufficient balance")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrFundingNotSuccessful = errors.New("gateway transaction not successful")
)
