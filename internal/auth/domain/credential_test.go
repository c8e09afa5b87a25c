package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessTokenValid(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(time.Minute)

	assert.True(t, (&Credential{AccessToken: "a", ExpiresAt: &later}).AccessTokenValid(now))
	assert.False(t, (&Credential{AccessToken: "a", ExpiresAt: &now}).AccessTokenValid(now))
	assert.True(t, (&Credential{AccessToken: "a"}).AccessTokenValid(now))
	assert.False(t, (&Credential{ExpiresAt: &later}).AccessTokenValid(now))
}

func TestAuthErrorMatching(t *testing.T) {
	cause := errors.New("invalid_grant")
	err := fmt.Errorf("sync: %w", &AuthError{Kind: AuthRefreshFailed, Err: cause})

	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.NotErrorIs(t, err, ErrNotLinked)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invalid_grant")
}
