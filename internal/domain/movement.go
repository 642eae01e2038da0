package domain

import (
	"errors"
	"time"
)

var (
	// ErrMovementNotFound indicates that the movement is not found.
	ErrMovementNotFound = errors.New("movement not found")
	// ErrInvalidAmount indicates a zero, negative or malformed amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates that the account balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSameAccount indicates a transfer where source and destination are the same account.
	ErrSameAccount = errors.New("cannot transfer to the same account")
	// ErrBusy indicates that the required account locks could not be acquired in time.
	// The operation had no effect and may be retried by the caller.
	ErrBusy = errors.New("account busy")
	// ErrInvalidLimit indicates a limit outside the 1..100 range.
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
	// ErrMovementKindInvalid indicates that the movement kind is not recognized.
	ErrMovementKindInvalid = errors.New("invalid movement kind")
)

// MovementKind is the recorded operation type.
type MovementKind string

// Recognized movement kinds.
const (
	Deposit  MovementKind = "DEPOSIT"
	Withdraw MovementKind = "WITHDRAW"
	Transfer MovementKind = "TRANSFER"
)

// IsSupportedMovementKind reports whether the given kind is recognized.
func IsSupportedMovementKind(kind string) bool {
	switch MovementKind(kind) {
	case Deposit, Withdraw, Transfer:
		return true
	}

	return false
}

// Movement is one immutable ledger entry.
//
// FromAccountID is set for WITHDRAW and TRANSFER, ToAccountID for DEPOSIT and
// TRANSFER. CreatedAt is assigned at commit and is non-decreasing in append order.
type Movement struct {
	ID            int64        `json:"id"`
	Kind          MovementKind `json:"kind"`
	FromAccountID *int64       `json:"from_account_id,omitempty"`
	ToAccountID   *int64       `json:"to_account_id,omitempty"`
	Amount        string       `json:"amount"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Summary aggregates the movements touching one account.
// All totals are decimal strings and default to "0" when no movements exist.
type Summary struct {
	Count          int64  `json:"count"`
	TotalDeposited string `json:"total_deposited"`
	TotalWithdrawn string `json:"total_withdrawn"`
	TotalSent      string `json:"total_sent"`
	TotalReceived  string `json:"total_received"`
}

// LedgerTxResult is the outcome of a committed deposit or withdrawal.
type LedgerTxResult struct {
	Movement Movement `json:"movement"`
	Account  Account  `json:"account"`
}

// TransferTxResult is the outcome of a committed transfer.
type TransferTxResult struct {
	Movement    Movement `json:"movement"`
	FromAccount Account  `json:"from_account"`
	ToAccount   Account  `json:"to_account"`
}
