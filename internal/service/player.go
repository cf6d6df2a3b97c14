package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/repository"
)

var (
	ErrNicknameExists = repository.ErrNicknameExists
	ErrSubjectExists  = repository.ErrSubjectExists
	ErrPlayerNotFound = repository.ErrPlayerNotFound
	ErrPlayerInUse    = repository.ErrPlayerInUse

	ErrPlayerNotGuest     = errors.New("player is already registered")
	ErrAlreadyRegistered  = errors.New("identity already has a player")
	ErrNotPlayerOwner     = errors.New("player can only be changed by its owner or inviter")
	ErrPlayerRegistered   = errors.New("registered players cannot be deleted")
	ErrSearchTermTooShort = errors.New("search term too short")
)

const (
	defaultSearchLimit  = 20
	minSearchTermLength = 2
)

type PlayerRepository interface {
	Create(ctx context.Context, player domain.Player) (domain.Player, error)
	Update(ctx context.Context, player domain.Player) (domain.Player, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Player, error)
	FindBySubject(ctx context.Context, subject string) (domain.Player, error)
	FindByIdentifier(ctx context.Context, identifier string) (domain.Player, error)
	FindAll(ctx context.Context) ([]domain.Player, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Player, error)
	FindGroups(ctx context.Context, playerID uint) ([]domain.Group, error)
}

type PlayerService struct {
	repo PlayerRepository
}

func NewPlayerService(repo PlayerRepository) *PlayerService {
	return &PlayerService{
		repo: repo,
	}
}

// CreateGuest adds a player without an identity, on behalf of invitedBy.
func (s *PlayerService) CreateGuest(ctx context.Context, nickname string, invitedBy uint) (domain.Player, error) {
	player, err := s.repo.Create(ctx, domain.Player{
		Nickname:    nickname,
		IsGuest:     true,
		InvitedByID: &invitedBy,
	})
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return player, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, identifier string) (domain.Player, error) {
	player, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.FindByIdentifier -> %w", err)
	}

	return player, nil
}

func (s *PlayerService) GetBySubject(ctx context.Context, subject string) (domain.Player, error) {
	player, err := s.repo.FindBySubject(ctx, subject)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.FindBySubject -> %w", err)
	}

	return player, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	players, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return players, nil
}

func (s *PlayerService) SearchPlayers(ctx context.Context, term string, limit int) ([]domain.Player, error) {
	if len([]rune(term)) < minSearchTermLength {
		return nil, ErrSearchTermTooShort
	}
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	players, err := s.repo.Search(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Search -> %w", err)
	}

	return players, nil
}

// UpdateNickname renames a player. Registered players rename themselves;
// guests can also be renamed by whoever invited them.
func (s *PlayerService) UpdateNickname(ctx context.Context, caller domain.Player, identifier, nickname string) (domain.Player, error) {
	player, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.FindByIdentifier -> %w", err)
	}
	if !canManage(caller, player) {
		return domain.Player{}, ErrNotPlayerOwner
	}

	player.Nickname = nickname
	updated, err := s.repo.Update(ctx, player)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeletePlayer removes a guest the caller manages.
func (s *PlayerService) DeletePlayer(ctx context.Context, caller domain.Player, identifier string) error {
	player, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return fmt.Errorf("s.repo.FindByIdentifier -> %w", err)
	}
	if player.IsRegistered() {
		return ErrPlayerRegistered
	}
	if !canManage(caller, player) {
		return ErrNotPlayerOwner
	}

	if err = s.repo.Delete(ctx, player.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *PlayerService) GetPlayerGroups(ctx context.Context, identifier string) ([]domain.Group, error) {
	player, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByIdentifier -> %w", err)
	}

	groups, err := s.repo.FindGroups(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindGroups -> %w", err)
	}

	return groups, nil
}

// ConvertGuest binds subject to a guest player, turning it into a
// registered one.
func (s *PlayerService) ConvertGuest(ctx context.Context, identifier, subject, email string) (domain.Player, error) {
	player, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.FindByIdentifier -> %w", err)
	}

	return s.bindSubject(ctx, player, subject, email)
}

// RegisterJassname creates the player for a freshly signed-up identity.
func (s *PlayerService) RegisterJassname(ctx context.Context, subject, nickname, email string) (domain.Player, error) {
	if _, err := s.repo.FindBySubject(ctx, subject); err == nil {
		return domain.Player{}, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrPlayerNotFound) {
		return domain.Player{}, fmt.Errorf("s.repo.FindBySubject -> %w", err)
	}

	player, err := s.repo.Create(ctx, domain.Player{
		Nickname:       nickname,
		Subject:        subject,
		Email:          email,
		EmailConfirmed: email != "",
	})
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return player, nil
}

func (s *PlayerService) bindSubject(ctx context.Context, player domain.Player, subject, email string) (domain.Player, error) {
	if !player.IsGuest {
		return domain.Player{}, ErrPlayerNotGuest
	}

	if _, err := s.repo.FindBySubject(ctx, subject); err == nil {
		return domain.Player{}, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrPlayerNotFound) {
		return domain.Player{}, fmt.Errorf("s.repo.FindBySubject -> %w", err)
	}

	player.Subject = subject
	player.IsGuest = false
	if email != "" {
		player.Email = email
		player.EmailConfirmed = true
	}

	updated, err := s.repo.Update(ctx, player)
	if err != nil {
		return domain.Player{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func canManage(caller, player domain.Player) bool {
	if caller.ID == player.ID {
		return true
	}

	return player.IsGuest && player.InvitedByID != nil && *player.InvitedByID == caller.ID
}
