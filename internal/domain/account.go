// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountKindInvalid indicates that the account kind is not one of the recognized kinds.
	ErrAccountKindInvalid = errors.New("invalid account kind")
	// ErrNegativeBalance indicates that the initial balance is negative.
	ErrNegativeBalance = errors.New("initial balance cannot be negative")
	// ErrCustomerNotFound indicates that the referenced customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")
)

// AccountKind is the account product type.
type AccountKind string

// Recognized account kinds.
const (
	Savings      AccountKind = "SAVINGS"
	Current      AccountKind = "CURRENT"
	FixedDeposit AccountKind = "FIXED_DEPOSIT"
)

// AccountKinds lists every recognized account kind.
var AccountKinds = []AccountKind{Savings, Current, FixedDeposit}

// IsSupportedKind reports whether the given kind is recognized.
func IsSupportedKind(kind string) bool {
	switch AccountKind(kind) {
	case Savings, Current, FixedDeposit:
		return true
	}

	return false
}

// Account holds the balance of a single customer account.
//
// Balance is a fixed-point decimal carried as a string; arithmetic on it
// is done with shopspring/decimal, never with floats.
type Account struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Kind       AccountKind `json:"kind"`
	Balance    string      `json:"balance"`
	CreatedAt  time.Time   `json:"created_at"`
}
