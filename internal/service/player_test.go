package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jasstafel/jass-api/internal/domain"
)

type mockPlayerRepo struct {
	mock.Mock
}

func (m *mockPlayerRepo) Create(ctx context.Context, player domain.Player) (domain.Player, error) {
	args := m.Called(ctx, player)
	return args.Get(0).(domain.Player), args.Error(1)
}

func (m *mockPlayerRepo) Update(ctx context.Context, player domain.Player) (domain.Player, error) {
	args := m.Called(ctx, player)
	return args.Get(0).(domain.Player), args.Error(1)
}

func (m *mockPlayerRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPlayerRepo) FindByID(ctx context.Context, id uint) (domain.Player, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Player), args.Error(1)
}

func (m *mockPlayerRepo) FindBySubject(ctx context.Context, subject string) (domain.Player, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(domain.Player), args.Error(1)
}

func (m *mockPlayerRepo) FindByIdentifier(ctx context.Context, identifier string) (domain.Player, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(domain.Player), args.Error(1)
}

func (m *mockPlayerRepo) FindAll(ctx context.Context) ([]domain.Player, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *mockPlayerRepo) Search(ctx context.Context, term string, limit int) ([]domain.Player, error) {
	args := m.Called(ctx, term, limit)
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *mockPlayerRepo) FindGroups(ctx context.Context, playerID uint) ([]domain.Group, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).([]domain.Group), args.Error(1)
}

func notFound(what string) error {
	return fmt.Errorf("r.dao.%s -> %w", what, ErrPlayerNotFound)
}

func TestPlayerService_CreateGuest(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc := NewPlayerService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p domain.Player) bool {
		return p.Nickname == "Ruedi" && p.IsGuest && p.InvitedByID != nil && *p.InvitedByID == 3
	})).Return(domain.Player{ID: 8, Nickname: "Ruedi", IsGuest: true}, nil)

	player, err := svc.CreateGuest(context.Background(), "Ruedi", 3)
	require.NoError(t, err)

	assert.Equal(t, uint(8), player.ID)
	repo.AssertExpectations(t)
}

func TestPlayerService_CreateGuest_NicknameTaken(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc := NewPlayerService(repo)

	repo.On("Create", mock.Anything, mock.Anything).
		Return(domain.Player{}, fmt.Errorf("r.dao.Insert -> %w", ErrNicknameExists))

	_, err := svc.CreateGuest(context.Background(), "Ruedi", 3)
	assert.ErrorIs(t, err, ErrNicknameExists)
}

func TestPlayerService_SearchPlayers(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc := NewPlayerService(repo)

	_, err := svc.SearchPlayers(context.Background(), "R", 5)
	assert.ErrorIs(t, err, ErrSearchTermTooShort)

	repo.On("Search", mock.Anything, "Ru", defaultSearchLimit).
		Return([]domain.Player{{ID: 1, Nickname: "Ruedi"}}, nil)

	players, err := svc.SearchPlayers(context.Background(), "Ru", 500)
	require.NoError(t, err)
	assert.Len(t, players, 1)
	repo.AssertExpectations(t)
}

func TestPlayerService_UpdateNickname(t *testing.T) {
	inviter := uint(3)
	guest := domain.Player{ID: 8, Nickname: "Ruedi", IsGuest: true, InvitedByID: &inviter}

	tests := []struct {
		name    string
		caller  domain.Player
		wantErr error
	}{
		{name: "inviter renames guest", caller: domain.Player{ID: 3}},
		{name: "player renames self", caller: domain.Player{ID: 8}},
		{name: "stranger is rejected", caller: domain.Player{ID: 4}, wantErr: ErrNotPlayerOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPlayerRepo{}
			svc := NewPlayerService(repo)

			repo.On("FindByIdentifier", mock.Anything, "Ruedi").Return(guest, nil)
			if tt.wantErr == nil {
				renamed := guest
				renamed.Nickname = "Ruedi2"
				repo.On("Update", mock.Anything, renamed).Return(renamed, nil)
			}

			got, err := svc.UpdateNickname(context.Background(), tt.caller, "Ruedi", "Ruedi2")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Ruedi2", got.Nickname)
		})
	}
}

func TestPlayerService_DeletePlayer(t *testing.T) {
	inviter := uint(3)
	repo := &mockPlayerRepo{}
	svc := NewPlayerService(repo)

	repo.On("FindByIdentifier", mock.Anything, "8").
		Return(domain.Player{ID: 8, IsGuest: true, InvitedByID: &inviter}, nil)
	repo.On("FindByIdentifier", mock.Anything, "9").
		Return(domain.Player{ID: 9, Subject: "uid-9"}, nil)
	repo.On("Delete", mock.Anything, uint(8)).Return(nil)

	require.NoError(t, svc.DeletePlayer(context.Background(), domain.Player{ID: 3}, "8"))
	assert.ErrorIs(t, svc.DeletePlayer(context.Background(), domain.Player{ID: 9}, "9"), ErrPlayerRegistered)
	repo.AssertExpectations(t)
}

func TestPlayerService_ConvertGuest(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc := NewPlayerService(repo)

	guest := domain.Player{ID: 8, Nickname: "Ruedi", IsGuest: true}
	repo.On("FindByIdentifier", mock.Anything, "Ruedi").Return(guest, nil)
	repo.On("FindBySubject", mock.Anything, "uid-8").Return(domain.Player{}, notFound("FindBySubject"))
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p domain.Player) bool {
		return p.ID == 8 && p.Subject == "uid-8" && !p.IsGuest && p.EmailConfirmed
	})).Return(domain.Player{ID: 8, Subject: "uid-8", Email: "r@example.com", EmailConfirmed: true}, nil)

	player, err := svc.ConvertGuest(context.Background(), "Ruedi", "uid-8", "r@example.com")
	require.NoError(t, err)

	assert.True(t, player.IsRegistered())
	repo.AssertExpectations(t)
}

func TestPlayerService_ConvertGuest_Errors(t *testing.T) {
	t.Run("already registered player", func(t *testing.T) {
		repo := &mockPlayerRepo{}
		repo.On("FindByIdentifier", mock.Anything, "Anna").Return(domain.Player{ID: 1, Subject: "uid-1"}, nil)

		_, err := NewPlayerService(repo).ConvertGuest(context.Background(), "Anna", "uid-2", "")
		assert.ErrorIs(t, err, ErrPlayerNotGuest)
	})

	t.Run("identity already has a player", func(t *testing.T) {
		repo := &mockPlayerRepo{}
		repo.On("FindByIdentifier", mock.Anything, "Ruedi").Return(domain.Player{ID: 8, IsGuest: true}, nil)
		repo.On("FindBySubject", mock.Anything, "uid-1").Return(domain.Player{ID: 1}, nil)

		_, err := NewPlayerService(repo).ConvertGuest(context.Background(), "Ruedi", "uid-1", "")
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})
}

func TestPlayerService_RegisterJassname(t *testing.T) {
	repo := &mockPlayerRepo{}
	svc := NewPlayerService(repo)

	repo.On("FindBySubject", mock.Anything, "uid-5").Return(domain.Player{}, notFound("FindBySubject")).Once()
	repo.On("Create", mock.Anything, domain.Player{Nickname: "Anna", Subject: "uid-5", Email: "a@example.com", EmailConfirmed: true}).
		Return(domain.Player{ID: 5, Nickname: "Anna", Subject: "uid-5"}, nil)

	player, err := svc.RegisterJassname(context.Background(), "uid-5", "Anna", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(5), player.ID)

	repo.On("FindBySubject", mock.Anything, "uid-5").Return(domain.Player{ID: 5}, nil)
	_, err = svc.RegisterJassname(context.Background(), "uid-5", "Anna", "")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}
