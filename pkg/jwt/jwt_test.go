package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderkit/orderkit/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("test-signing-key-with-enough-entropy")
	require.NoError(t, err)

	t.Run("round trip preserves claims", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		claims := jwt.StandardClaims{
			Issuer:    "backend@orders.test",
			Subject:   "backend@orders.test",
			Audience:  "realtime-store",
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Minute).Unix(),
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)
		require.Len(t, strings.Split(token, "."), 3)

		var parsed jwt.StandardClaims
		require.NoError(t, svc.Parse(token, &parsed))
		assert.Equal(t, claims, parsed)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("rejects a tampered signature", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Minute).Unix(),
		})
		require.NoError(t, err)

		other, err := jwt.NewFromString("a-completely-different-signing-key")
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, other.Parse(token, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		t.Parallel()

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse("not-a-token", &parsed), jwt.ErrInvalidToken)
	})
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := jwt.NewFromString("")
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	_, err = jwt.New(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
}
