package services

import (
	"testing"
	"time"

	"review-backend/internal/models"
	"review-backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", "review-backend", time.Hour)
	user := &models.User{ID: 42, Username: "alice", Role: policy.RoleModerator}

	token, err := svc.Issue(user)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenService_Rejects(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", Role: policy.RoleUser}
	issued, err := NewTokenService("secret", "review-backend", time.Hour).Issue(user)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenService("other", "review-backend", time.Hour).Verify(issued)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewTokenService("secret", "someone-else", time.Hour).Verify(issued)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		svc := NewTokenService("secret", "review-backend", time.Hour).(*tokenService)
		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := svc.Verify(issued)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := NewTokenService("secret", "review-backend", time.Hour).Verify("not.a.token")
		assert.Error(t, err)
	})

	t.Run("no secret", func(t *testing.T) {
		_, err := NewTokenService("", "review-backend", time.Hour).Issue(user)
		assert.Error(t, err)
	})
}
