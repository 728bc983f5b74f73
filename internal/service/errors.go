package service

import (
	"errors"

	"kurtis-boutique/internal/store"
)

var (
	ErrNotFound          = store.ErrNotFound
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrPaymentInvalid    = errors.New("payment verification failed")
	ErrOutOfStock        = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyCart         = errors.New("cart is empty")
)
