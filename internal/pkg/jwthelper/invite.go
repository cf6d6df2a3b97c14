package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const inviteAudience = "player-invite"

// InviteClaims identify the player an invite email was sent for.
type InviteClaims struct {
	jwt.RegisteredClaims
	PlayerID  uint   `json:"player_id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	InvitedBy uint   `json:"invited_by"`
}

// InviteIssuer signs and decodes the confirmation tokens sent with player
// invites.
type InviteIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewInviteIssuer(key []byte, ttl time.Duration) *InviteIssuer {
	return &InviteIssuer{
		key: key,
		ttl: ttl,
		now: time.Now,
	}
}

func (i *InviteIssuer) Issue(playerID, invitedBy uint, email, nickname string) (string, error) {
	now := i.now()
	claims := InviteClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{inviteAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		PlayerID:  playerID,
		Email:     email,
		Nickname:  nickname,
		InvitedBy: invitedBy,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

func (i *InviteIssuer) Decode(token string) (*InviteClaims, error) {
	claims := &InviteClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(inviteAudience),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.PlayerID == 0 {
		return nil, fmt.Errorf("%w: missing player", ErrInvalidToken)
	}

	return claims, nil
}
