package repository

import "errors"

var (
	ErrJobAlreadyPaid    = errors.New("job already paid")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
