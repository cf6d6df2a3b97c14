package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/jasstafel/jass-api/internal/domain"
)

type CreateSessionRequest struct {
	GroupID   uint     `json:"group_id"`
	Mode      string   `json:"mode"`
	Date      string   `json:"date" format:"RFC3339"`
	PlayerIDs []uint   `json:"players"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (req *CreateSessionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GroupID, validation.Required),
		validation.Field(&req.Mode, validation.Required, validation.RuneLength(1, 50)),
		validation.Field(&req.Date, validation.Date(time.RFC3339)),
		validation.Field(&req.PlayerIDs, validation.By(nonZeroIDs)),
		validation.Field(&req.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// StartedAt returns the parsed date, zero when none was sent.
func (req *CreateSessionRequest) StartedAt() time.Time {
	t, _ := time.Parse(time.RFC3339, req.Date)
	return t
}

type SessionStatusRequest struct {
	Status string `json:"status"`
}

func (req *SessionStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(
			string(domain.SessionPending),
			string(domain.SessionActive),
			string(domain.SessionCompleted),
			string(domain.SessionAbandoned),
		)),
	)
}

type CreateTeamRequest struct {
	Name      string `json:"name"`
	Position  int    `json:"position"`
	PlayerIDs []uint `json:"player_ids"`
}

func (req *CreateTeamRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.RuneLength(0, 50)),
		validation.Field(&req.Position, validation.Required, validation.In(1, 2)),
		validation.Field(&req.PlayerIDs, validation.Required, validation.By(nonZeroIDs)),
	)
}
