package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-session-testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		secret   string
		ttl      time.Duration
	}{
		{
			name:     "Valid token generation",
			userName: "Peter",
			secret:   testSecret,
			ttl:      time.Hour,
		},
		{
			name:     "Name with spaces",
			userName: "Aunt Marge",
			secret:   testSecret,
			ttl:      time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := Generate(tt.userName, tt.secret, tt.ttl)
			require.NoError(t, err)
			assert.NotEmpty(t, tok)
		})
	}
}

func TestValidate(t *testing.T) {
	tok, err := Generate("Peter", testSecret, time.Hour)
	require.NoError(t, err)

	t.Run("Valid token", func(t *testing.T) {
		claims, err := Validate(tok, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "Peter", claims.UserName)
		assert.Equal(t, "Peter", claims.Subject)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		claims, err := Validate(tok, "other-secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Garbage token", func(t *testing.T) {
		claims, err := Validate("not.a.token", testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired, err := Generate("Peter", testSecret, -time.Minute)
		require.NoError(t, err)

		claims, err := Validate(expired, testSecret)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Nil(t, claims)
	})
}
