package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/gigpay/internal/auth"
	"github.com/nurpe/gigpay/internal/model"
)

func signToken(t *testing.T, secret, profileID, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"profile_id": profileID,
		"role":       role,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParse(t *testing.T) {
	parser := auth.NewParser("secret")
	profileID := uuid.New()

	principal, err := parser.Parse(signToken(t, "secret", profileID.String(), "client"))
	require.NoError(t, err)
	assert.Equal(t, profileID, principal.ProfileID)
	assert.Equal(t, model.ProfileRoleClient, principal.Role)
	assert.True(t, principal.IsClient())
	assert.False(t, principal.IsContractor())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	parser := auth.NewParser("secret")

	_, err := parser.Parse(signToken(t, "other-secret", uuid.New().String(), "client"))
	require.Error(t, err)
}

func TestParseRejectsBadClaims(t *testing.T) {
	parser := auth.NewParser("secret")

	_, err := parser.Parse(signToken(t, "secret", "not-a-uuid", "client"))
	require.Error(t, err)

	_, err = parser.Parse(signToken(t, "secret", uuid.New().String(), "admin"))
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	parser := auth.NewParser("secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"profile_id": uuid.New().String(),
		"role":       "client",
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = parser.Parse(signed)
	require.Error(t, err)
}
