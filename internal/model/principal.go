package model

import "github.com/google/uuid"

// Principal is the authenticated profile extracted from the access token.
type Principal struct {
	ProfileID uuid.UUID
	Role      ProfileRole
}

func (p Principal) IsClient() bool {
	return p.Role == ProfileRoleClient
}

func (p Principal) IsContractor() bool {
	return p.Role == ProfileRoleContractor
}
