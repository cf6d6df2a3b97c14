package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type InvitePlayerRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

func (req *InvitePlayerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Nickname, nicknameRules()...),
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type InviteTokenRequest struct {
	Token string `json:"token"`
}

func (req *InviteTokenRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Token, validation.Required),
	)
}
