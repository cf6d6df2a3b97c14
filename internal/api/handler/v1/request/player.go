package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Nicknames are 2 to 25 characters, must not be purely numeric so they can't
// be mistaken for a player ID, and carry no surrounding whitespace.
const nicknameRegexPattern = `^(?!\d+$)\S(.{0,23}\S)?$`

var (
	nicknameExp        = regexp2.MustCompile(nicknameRegexPattern, regexp2.None)
	errInvalidNickname = errors.New("must be 2 to 25 characters and not only digits")
)

var nicknameRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	ok, err := nicknameExp.MatchString(s)
	if err != nil || !ok {
		return errInvalidNickname
	}

	return nil
})

func nicknameRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.RuneLength(2, 25), nicknameRule}
}

type CreatePlayerRequest struct {
	Nickname string `json:"nickname"`
}

func (req *CreatePlayerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Nickname, nicknameRules()...),
	)
}

type UpdatePlayerRequest struct {
	Nickname string `json:"nickname"`
}

func (req *UpdatePlayerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Nickname, nicknameRules()...),
	)
}

type ConvertGuestRequest struct {
	Email string `json:"email"`
}

func (req *ConvertGuestRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, is.Email),
	)
}

type RegisterRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Nickname, nicknameRules()...),
		validation.Field(&req.Email, is.Email),
	)
}
