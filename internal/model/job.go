package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Job struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Description string
	Price       decimal.Decimal
	Paid        bool
	PaymentDate *time.Time
	CreatedAt   time.Time
}

// JobWithParties is a job joined with its contract's client and contractor,
// as needed for receipts and statements.
type JobWithParties struct {
	Job        Job
	Client     Profile
	Contractor Profile
}
