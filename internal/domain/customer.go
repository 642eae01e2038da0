package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmailTaken indicates that another customer already registered the email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrCustomerHasAccounts indicates that the customer cannot be deleted while accounts exist.
	ErrCustomerHasAccounts = errors.New("customer has existing accounts")
)

// Customer holds registered customer data.
type Customer struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Age           int32     `json:"age"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contact_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateCustomerParams carries a full customer record for update.
// Every field is written as given; there are no keep-current sentinels.
type UpdateCustomerParams struct {
	ID            int64
	Name          string
	Age           int32
	Email         string
	ContactNumber string
}
