package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	errs "chat-hub/errors"
)

func Test_Register_Validation(t *testing.T) {
	req := require.New(t)

	valid := RegisterRequest{
		Username: "alice42",
		Email:    "alice@example.com",
		Password: "Str0ng&Secret!pw",
	}
	req.NoError(ValidateRegister(valid))

	short := valid
	short.Password = "Sh0rt&pw"
	req.Error(ValidateRegister(short))

	badEmail := valid
	badEmail.Email = "not-an-email"
	req.Error(ValidateRegister(badEmail))

	badUsername := valid
	badUsername.Username = "al"
	req.Error(ValidateRegister(badUsername))
}

func Test_Register_Requires_Complex_Password(t *testing.T) {
	req := require.New(t)

	weak := RegisterRequest{
		Username: "alice42",
		Email:    "alice@example.com",
		Password: "alllowercasebutlong",
	}
	req.ErrorIs(ValidateRegister(weak), errs.ErrInvalidPassword)
}

func Test_Login_Validation(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateLogin(LoginRequest{Username: "alice", Password: "whatever"}))
	req.Error(ValidateLogin(LoginRequest{Username: "", Password: "whatever"}))
	req.Error(ValidateLogin(LoginRequest{Username: "alice", Password: ""}))
}
