package response

import "time"

// GroupInviteResponse carries the plain join token. It is shown only once.
type GroupInviteResponse struct {
	GroupID   uint      `json:"group_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
