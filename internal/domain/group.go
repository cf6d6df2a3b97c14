package domain

import "time"

// Group (JassGroup) is a circle of players that meet for sessions.
type Group struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Players       []Player           `json:"players,omitempty"`
	Admins        []Player           `json:"admins,omitempty"`
	FarbeSettings map[string]float64 `json:"farbe_settings,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (g Group) IsAdmin(playerID uint) bool {
	for _, a := range g.Admins {
		if a.ID == playerID {
			return true
		}
	}

	return false
}

func (g Group) HasPlayer(playerID uint) bool {
	for _, p := range g.Players {
		if p.ID == playerID {
			return true
		}
	}

	return false
}

// Multipliers applies the group's farbe overrides on top of base.
func (g Group) Multipliers(base MultiplierTable) MultiplierTable {
	return base.WithOverrides(g.FarbeSettings)
}

// GroupInvite is a join link for a group. Only a digest of the secret token
// is kept.
type GroupInvite struct {
	ID          uint      `json:"id"`
	GroupID     uint      `json:"group_id"`
	TokenDigest string    `json:"-"`
	CreatedByID uint      `json:"created_by"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i GroupInvite) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
