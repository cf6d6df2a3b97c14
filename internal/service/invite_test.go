package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jasstafel/jass-api/internal/config"
	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/pkg/jwthelper"
	"github.com/jasstafel/jass-api/internal/pkg/mailer"
)

type outbox struct {
	sent []mailer.Message
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.sent = append(o.sent, msg)
	return nil
}

func newInviteService(repo PlayerRepository) (*InviteService, *outbox) {
	box := &outbox{}
	svc := NewInviteService(repo, jwthelper.NewInviteIssuer([]byte("secret"), time.Hour), box, &config.MailConfig{
		From:           "noreply@jasstafel.ch",
		ConfirmBaseURL: "https://jasstafel.ch/confirm",
	})

	return svc, box
}

func TestInviteService_InvitePlayer_SendsMail(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc, box := newInviteService(repo)
	inviter := domain.Player{ID: 3, Nickname: "Sepp"}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p domain.Player) bool {
		return p.Nickname == "Anna" && p.Email == "anna@example.com" && p.IsGuest && *p.InvitedByID == 3
	})).Return(domain.Player{ID: 7, Nickname: "Anna", Email: "anna@example.com", IsGuest: true}, nil)

	player, err := svc.InvitePlayer(context.Background(), inviter, "Anna", "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(7), player.ID)

	require.Len(t, box.sent, 1)
	msg := box.sent[0]
	assert.Equal(t, "anna@example.com", msg.To)
	assert.Equal(t, "noreply@jasstafel.ch", msg.From)
	assert.Contains(t, msg.Subject, "Sepp")
	assert.Contains(t, msg.Body, "https://jasstafel.ch/confirm?token=")
}

func TestInviteService_InvitePlayer_WithoutEmail(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc, box := newInviteService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.Player{ID: 7, Nickname: "Anna", IsGuest: true}, nil)

	_, err := svc.InvitePlayer(context.Background(), domain.Player{ID: 3}, "Anna", "")
	require.NoError(t, err)
	assert.Empty(t, box.sent)
}

func tokenFrom(t *testing.T, msg mailer.Message) string {
	t.Helper()

	_, token, found := strings.Cut(msg.Body, "?token=")
	require.True(t, found)

	return strings.TrimSpace(token)
}

func TestInviteService_ConfirmAndFinalize(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc, box := newInviteService(repo)
	guest := domain.Player{ID: 7, Nickname: "Anna", Email: "anna@example.com", IsGuest: true}

	repo.On("Create", mock.Anything, mock.Anything).Return(guest, nil)
	_, err := svc.InvitePlayer(context.Background(), domain.Player{ID: 3, Nickname: "Sepp"}, "Anna", "anna@example.com")
	require.NoError(t, err)
	token := tokenFrom(t, box.sent[0])

	repo.On("FindByID", mock.Anything, uint(7)).Return(guest, nil)

	details, err := svc.ConfirmInvite(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, InviteDetails{PlayerID: 7, Email: "anna@example.com", Nickname: "Anna", InvitedBy: 3}, details)

	repo.On("FindBySubject", mock.Anything, "uid-anna").Return(domain.Player{}, notFound("FindBySubject"))
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p domain.Player) bool {
		return p.ID == 7 && p.Subject == "uid-anna" && !p.IsGuest && p.EmailConfirmed
	})).Return(domain.Player{ID: 7, Nickname: "Anna", Subject: "uid-anna", EmailConfirmed: true}, nil)

	player, err := svc.FinalizeInvite(context.Background(), token, "uid-anna")
	require.NoError(t, err)
	assert.Equal(t, "uid-anna", player.Subject)
}

func TestInviteService_FinalizeTwice(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc, box := newInviteService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.Player{ID: 7, Email: "anna@example.com", IsGuest: true}, nil)
	_, err := svc.InvitePlayer(context.Background(), domain.Player{ID: 3}, "Anna", "anna@example.com")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, uint(7)).Return(domain.Player{ID: 7, Subject: "uid-anna"}, nil)

	_, err = svc.FinalizeInvite(context.Background(), tokenFrom(t, box.sent[0]), "uid-other")
	assert.ErrorIs(t, err, ErrInviteAlreadyUsed)

	_, err = svc.ConfirmInvite(context.Background(), tokenFrom(t, box.sent[0]))
	assert.ErrorIs(t, err, ErrInviteAlreadyUsed)
}

func TestInviteService_InvalidToken(t *testing.T) {
	svc, _ := newInviteService(&mockPlayerRepo{})

	_, err := svc.ConfirmInvite(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidInviteToken)
}
