package usecase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	v := NewSessionValidator("s3cret")

	token, err := IssueToken("s3cret", "user-42", time.Hour)
	require.NoError(t, err)
	userID, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)

	forged, err := IssueToken("other", "user-42", time.Hour)
	require.NoError(t, err)
	_, err = v.ValidateToken(forged)
	assert.Error(t, err)

	expired, err := IssueToken("s3cret", "user-42", -time.Minute)
	require.NoError(t, err)
	_, err = v.ValidateToken(expired)
	assert.Error(t, err)
}

func TestValidateTokenRequiresUserClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
	signed, err := token.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = NewSessionValidator("s3cret").ValidateToken(signed)
	assert.Error(t, err)
}
