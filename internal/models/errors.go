package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a product, user or transaction lookup misses.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when a unique key is already taken.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrDuplicateUsername is the username flavour of ErrDuplicateKey.
	ErrDuplicateUsername = fmt.Errorf("username already exists: %w", ErrDuplicateKey)
	// ErrInsufficientStock is returned when an operation would drive stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOutOfStock rejects adding a product with no stock to the cart.
	ErrOutOfStock = fmt.Errorf("out of stock: %w", ErrInsufficientStock)
	// ErrInsufficientPayment is returned when cash tendered is less than the total.
	ErrInsufficientPayment = errors.New("insufficient payment")
	// ErrUnauthorized is returned when the session may not run an operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is a denied login.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	// ErrNoSession is returned when nobody is logged in.
	ErrNoSession = fmt.Errorf("no active session: %w", ErrUnauthorized)
	// ErrProtected is returned when deleting the bootstrap admin.
	ErrProtected = errors.New("protected account")
	// ErrEmptyCart is returned when checking out with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidPaymentMethod is returned for anything but cash or card.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrValidation wraps field validation failures.
	ErrValidation = errors.New("validation failed")
)
