package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "cadastre/pkg/domain-errors"
)

func TestJWTService(t *testing.T) {
	svc := NewJWTService("test-signing-key", "cadastre", "cadastre-api")

	t.Run("round trips principal claim", func(t *testing.T) {
		token, err := svc.GenerateAccessToken("alice", time.Minute)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Principal)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken("alice", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("rejects token signed with another key", func(t *testing.T) {
		other := NewJWTService("different-key", "cadastre", "cadastre-api")
		token, err := other.GenerateAccessToken("alice", time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		require.Error(t, err)
	})
}
