package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Generate_And_Validate_Token(t *testing.T) {
	req := require.New(t)
	service := NewTokenService("test-secret", time.Hour)

	token, err := service.GenerateToken("u1", "alice", "user")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := service.ValidateToken(token)
	req.NoError(err)
	req.Equal("u1", claims.UserID)
	req.Equal("alice", claims.Username)
	req.Equal("user", claims.Role)
	req.Equal("chat-hub", claims.Issuer)
}

func Test_Expired_Token_Is_Rejected(t *testing.T) {
	req := require.New(t)
	service := NewTokenService("test-secret", -time.Minute)

	token, err := service.GenerateToken("u1", "alice", "user")
	req.NoError(err)

	_, err = service.ValidateToken(token)
	req.Error(err)
}

func Test_Token_Signed_With_Another_Secret_Is_Rejected(t *testing.T) {
	req := require.New(t)
	signer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := signer.GenerateToken("u1", "alice", "user")
	req.NoError(err)

	_, err = verifier.ValidateToken(token)
	req.Error(err)
}
