package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProfileRole string

const (
	ProfileRoleClient     ProfileRole = "client"
	ProfileRoleContractor ProfileRole = "contractor"
)

type Profile struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Profession string
	Balance    decimal.Decimal
	Role       ProfileRole
}

func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
