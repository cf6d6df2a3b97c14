package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/jasstafel/jass-api/internal/domain"
)

type RoundRequest struct {
	Farbe              string   `json:"farbe"`
	Team1Score         int      `json:"team1_score"`
	Team2Score         int      `json:"team2_score"`
	Multiplier         *float64 `json:"multiplier"`
	StoeckTeam1Player1 bool     `json:"stoeck_team1_player1"`
	StoeckTeam1Player2 bool     `json:"stoeck_team1_player2"`
	StoeckTeam2Player1 bool     `json:"stoeck_team2_player1"`
	StoeckTeam2Player2 bool     `json:"stoeck_team2_player2"`
}

func (req *RoundRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Farbe, validation.Required, validation.In(domain.FarbeNames()...)),
		validation.Field(&req.Team1Score, validation.Min(0)),
		validation.Field(&req.Team2Score, validation.Min(0)),
		validation.Field(&req.Multiplier, validation.By(positive)),
	)
}

type WeisRequest struct {
	PlayerID uint   `json:"player_id"`
	Typ      string `json:"typ"`
	Anzahl   int    `json:"anzahl"`
	Punkte   int    `json:"punkte"`
}

func (req *WeisRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PlayerID, validation.Required),
		validation.Field(&req.Typ, validation.Required, validation.In(domain.WeisTypNames()...)),
		validation.Field(&req.Anzahl, validation.Min(0)),
		validation.Field(&req.Punkte, validation.Min(0)),
	)
}

func positive(value interface{}) error {
	m, _ := value.(*float64)
	if m != nil && *m <= 0 {
		return domain.ErrInvalidMultiplier
	}

	return nil
}
