package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsapp/backend/pkg/constants"
)

func testSession() UserSession {
	return UserSession{
		ID:       "user-1",
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Role:     constants.RoleUser,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testSession())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.User.ID)
	assert.Equal(t, "jane@example.com", claims.User.Email)
	assert.Equal(t, "jane@example.com", claims.RegisteredClaims.Subject)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.jwt")
	assert.Error(t, err)
}

func TestDecodeTokenExtractsJTI(t *testing.T) {
	token, err := GenerateToken(testSession())
	require.NoError(t, err)

	claims, err := DecodeToken(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	_, err := DecodeToken("not.a.jwt")
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, testSession().IsAdmin())

	admin := testSession()
	admin.Role = constants.RoleAdmin
	assert.True(t, admin.IsAdmin())
}

func TestActionTokenRoundTrip(t *testing.T) {
	token, err := GenerateActionToken("jane@example.com", constants.TokenScopeEmailConfirm, time.Hour)
	require.NoError(t, err)

	email, err := ValidateActionToken(token, constants.TokenScopeEmailConfirm)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)
}

func TestActionTokenScopeMismatch(t *testing.T) {
	token, err := GenerateActionToken("jane@example.com", constants.TokenScopePasswordReset, time.Hour)
	require.NoError(t, err)

	// A reset token must not confirm an email address
	_, err = ValidateActionToken(token, constants.TokenScopeEmailConfirm)
	assert.Error(t, err)
}

func TestActionTokenExpiry(t *testing.T) {
	token, err := GenerateActionToken("jane@example.com", constants.TokenScopePasswordReset, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateActionToken(token, constants.TokenScopePasswordReset)
	assert.Error(t, err)
}
