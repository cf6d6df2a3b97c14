package domain

import "time"

type Player struct {
	ID             uint      `json:"id"`
	Nickname       string    `json:"nickname"`
	Subject        string    `json:"-"`
	Email          string    `json:"email,omitempty"`
	IsGuest        bool      `json:"is_guest"`
	EmailConfirmed bool      `json:"email_confirmed"`
	InvitedByID    *uint     `json:"invited_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsRegistered reports whether the player is bound to an identity-provider
// account.
func (p Player) IsRegistered() bool {
	return p.Subject != "" && !p.IsGuest
}
