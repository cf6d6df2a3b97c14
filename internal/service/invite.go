package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jasstafel/jass-api/internal/config"
	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/pkg/jwthelper"
	"github.com/jasstafel/jass-api/internal/pkg/mailer"
)

var (
	ErrInvalidInviteToken = jwthelper.ErrInvalidToken
	ErrInviteTokenExpired = jwthelper.ErrTokenExpired
	ErrInviteAlreadyUsed  = errors.New("invite was already accepted")
)

type InviteTokenIssuer interface {
	Issue(playerID, invitedBy uint, email, nickname string) (string, error)
	Decode(token string) (*jwthelper.InviteClaims, error)
}

// InviteDetails is what an invited user learns from decoding their token.
type InviteDetails struct {
	PlayerID  uint   `json:"player_id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	InvitedBy uint   `json:"invited_by"`
}

type InviteService struct {
	repo    PlayerRepository
	players *PlayerService
	issuer  InviteTokenIssuer
	mailer  mailer.Mailer
	conf    *config.MailConfig
}

func NewInviteService(repo PlayerRepository, issuer InviteTokenIssuer, m mailer.Mailer, conf *config.MailConfig) *InviteService {
	return &InviteService{
		repo:    repo,
		players: NewPlayerService(repo),
		issuer:  issuer,
		mailer:  m,
		conf:    conf,
	}
}

// InvitePlayer adds a guest player on behalf of inviter. With an email
// address, a confirmation link is mailed so the invitee can claim the
// player later.
func (s *InviteService) InvitePlayer(ctx context.Context, inviter domain.Player, nickname, email string) (domain.Player, error) {
	player, err := s.repo.Create(ctx, domain.Player{
		Nickname:    nickname,
		Email:       email,
		IsGuest:     true,
		InvitedByID: &inviter.ID,
	})
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if email == "" {
		return player, nil
	}

	token, err := s.issuer.Issue(player.ID, inviter.ID, email, nickname)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.issuer.Issue -> %w", err)
	}

	if err = s.mailer.Send(ctx, s.inviteMessage(inviter, player, token)); err != nil {
		return domain.Player{}, fmt.Errorf("s.mailer.Send -> %w", err)
	}

	return player, nil
}

func (s *InviteService) ConfirmInvite(ctx context.Context, token string) (InviteDetails, error) {
	claims, err := s.issuer.Decode(token)
	if err != nil {
		return InviteDetails{}, fmt.Errorf("s.issuer.Decode -> %w", err)
	}

	player, err := s.repo.FindByID(ctx, claims.PlayerID)
	if err != nil {
		return InviteDetails{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !player.IsGuest {
		return InviteDetails{}, ErrInviteAlreadyUsed
	}

	return InviteDetails{
		PlayerID:  player.ID,
		Email:     claims.Email,
		Nickname:  player.Nickname,
		InvitedBy: claims.InvitedBy,
	}, nil
}

// FinalizeInvite binds subject to the player the token was issued for.
func (s *InviteService) FinalizeInvite(ctx context.Context, token, subject string) (domain.Player, error) {
	claims, err := s.issuer.Decode(token)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.issuer.Decode -> %w", err)
	}

	player, err := s.repo.FindByID(ctx, claims.PlayerID)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	bound, err := s.players.bindSubject(ctx, player, subject, claims.Email)
	if err != nil {
		if errors.Is(err, ErrPlayerNotGuest) {
			return domain.Player{}, ErrInviteAlreadyUsed
		}
		return domain.Player{}, err
	}

	return bound, nil
}

func (s *InviteService) inviteMessage(inviter, player domain.Player, token string) mailer.Message {
	link := s.conf.ConfirmBaseURL + "?token=" + url.QueryEscape(token)

	return mailer.Message{
		From:    s.conf.From,
		To:      player.Email,
		Subject: fmt.Sprintf("%s hat dich zur Jasstafel eingeladen", inviter.Nickname),
		Body: fmt.Sprintf(
			"Hoi %s\n\n%s hat dich als Mitspieler erfasst. Bestätige deine Einladung hier:\n%s\n",
			player.Nickname, inviter.Nickname, link,
		),
	}
}
