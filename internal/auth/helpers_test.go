package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	t.Setenv("JWT_KEY", "test-signing-key")

	session := &Session{ID: "sess-1", AccountID: 42, Role: RoleAdmin, CreatedAt: time.Now()}
	token, err := GenerateJWT(session, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	t.Setenv("JWT_KEY", "test-signing-key")

	session := &Session{ID: "sess-2", AccountID: 7, Role: RoleParticipant}
	token, err := GenerateJWT(session, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongKey(t *testing.T) {
	t.Setenv("JWT_KEY", "key-one")
	session := &Session{ID: "sess-3", AccountID: 7, Role: RoleInstructor}
	token, err := GenerateJWT(session, time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_KEY", "key-two")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}
