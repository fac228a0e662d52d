package service

import "errors"

var (
	ErrValidation       = errors.New("validation")
	ErrNotFound         = errors.New("not found")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrAlreadyInCart    = errors.New("already in cart")
	ErrInvalidSelection = errors.New("invalid selection")
)
