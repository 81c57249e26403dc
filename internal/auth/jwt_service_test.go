package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService("unit-test-secret")

	token, err := svc.GenerateToken("alice", "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTServiceRejectsForeignSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken("alice", "USER")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTServiceRejectsGarbage(t *testing.T) {
	svc := NewJWTService("unit-test-secret")
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestCallContextFromClaims(t *testing.T) {
	call := CallContextFromClaims(&Claims{Username: "alice", Role: "ADMIN"})
	assert.Equal(t, "alice", call.Username)
	assert.True(t, call.IsAdmin())
	assert.True(t, call.Authenticated())

	user := CallContextFromClaims(&Claims{Username: "bob", Role: "USER"})
	assert.False(t, user.IsAdmin())
	assert.True(t, user.HasAuthority(AuthorityUser))
}

func TestCallContextZeroValue(t *testing.T) {
	var call CallContext
	assert.False(t, call.Authenticated())
	assert.False(t, call.IsAdmin())
}
