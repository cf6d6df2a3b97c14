package request

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/jasstafel/jass-api/internal/domain"
)

type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *GroupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(2, 50)),
		validation.Field(&req.Description, validation.RuneLength(0, 200)),
	)
}

type ReplaceAdminsRequest struct {
	PlayerIDs []uint `json:"player_ids"`
}

func (req *ReplaceAdminsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PlayerIDs, validation.Required, validation.By(nonZeroIDs)),
	)
}

type AddGroupPlayerRequest struct {
	PlayerID uint `json:"player_id"`
}

func (req *AddGroupPlayerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PlayerID, validation.Required),
	)
}

type JoinGroupRequest struct {
	Token string `json:"token"`
}

func (req *JoinGroupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Token, validation.Required),
	)
}

// FarbenRequest maps farbe names to multiplier overrides, e.g.
// {"farben": {"Rose": 5}}.
type FarbenRequest struct {
	Farben map[string]float64 `json:"farben"`
}

func (req *FarbenRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Farben, validation.NotNil, validation.By(validFarben)),
	)
}

func validFarben(value interface{}) error {
	farben, _ := value.(map[string]float64)
	for name, multiplier := range farben {
		if _, ok := domain.ParseFarbe(name); !ok {
			return fmt.Errorf("unknown farbe %q", name)
		}
		if multiplier <= 0 {
			return fmt.Errorf("multiplier for %s must be greater than 0", name)
		}
	}

	return nil
}

func nonZeroIDs(value interface{}) error {
	ids, _ := value.([]uint)
	for _, id := range ids {
		if id == 0 {
			return errors.New("ids must be greater than 0")
		}
	}

	return nil
}
