package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrAlreadyExists          = errors.New("already exists")
	ErrUnauthenticated        = errors.New("no signed-in user")
	ErrEmailNotVerified       = errors.New("email address is not verified")
	ErrForbidden              = errors.New("forbidden")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInvalidAddress         = errors.New("invalid shipping address")
	ErrInvalidPromotion       = errors.New("invalid or inactive promotion code")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrCheckoutInProgress     = errors.New("an order submission is already in progress")
	ErrOrderPersistenceFailed = errors.New("order could not be saved")
	ErrOrderCancelled         = errors.New("order submission cancelled")
)

// AddressError lists the required address fields that are missing.
type AddressError struct {
	Fields []string
}

func (e *AddressError) Error() string {
	return "invalid shipping address: missing " + strings.Join(e.Fields, ", ")
}

func (e *AddressError) Unwrap() error {
	return ErrInvalidAddress
}
