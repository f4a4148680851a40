package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/gigpay/internal/model"
)

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type claims struct {
	ProfileID string `json:"profile_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("invalid token")
	}

	profileID, err := uuid.Parse(c.ProfileID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid profile_id claim: %w", err)
	}

	role := model.ProfileRole(c.Role)
	switch role {
	case model.ProfileRoleClient, model.ProfileRoleContractor:
	default:
		return model.Principal{}, fmt.Errorf("invalid role claim: %q", c.Role)
	}

	return model.Principal{ProfileID: profileID, Role: role}, nil
}
