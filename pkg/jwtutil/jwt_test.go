package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidateToken(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	tenantID := uint(7)

	token, err := util.GenerateToken(42, "ada@example.com", "TENANT_ADMIN", &tenantID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "TENANT_ADMIN", claims.Role)
	assert.Equal(t, tenantID, *claims.TenantID)
}

func TestValidateToken_NilTenant(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := util.GenerateToken(1, "root@example.com", "SUPER_ADMIN", nil)
	assert.NoError(t, err)

	claims, err := util.ValidateToken(token)
	assert.NoError(t, err)
	assert.Nil(t, claims.TenantID)
}

func TestValidateToken_WrongKeyRejected(t *testing.T) {
	issuer := NewJWTUtil(&JWTConfig{SigningKey: "key-a", ExpirationHours: 1})
	verifier := NewJWTUtil(&JWTConfig{SigningKey: "key-b", ExpirationHours: 1})

	token, err := issuer.GenerateToken(1, "ada@example.com", "ATTENDEE", nil)
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_ExpiredRejected(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: -1})

	token, err := util.GenerateToken(1, "ada@example.com", "ATTENDEE", nil)
	assert.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	_, err := util.ValidateToken("not.a.token")
	assert.Error(t, err)
}
