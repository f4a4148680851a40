package service

import "errors"

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrAlreadyPaid       = errors.New("job is already paid")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrForbidden         = errors.New("permission denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrStore             = errors.New("store failure")
)
