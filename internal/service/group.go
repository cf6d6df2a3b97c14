package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/repository"
)

var (
	ErrGroupNotFound       = repository.ErrGroupNotFound
	ErrPlayerAlreadyMember = repository.ErrPlayerAlreadyMember
	ErrInviteNotFound      = repository.ErrInviteNotFound
	ErrGroupHasSessions    = repository.ErrGroupHasSessions

	ErrNotGroupAdmin       = errors.New("only group admins can do this")
	ErrNotGroupMember      = errors.New("player is not a member of the group")
	ErrAdminsRequired      = errors.New("a group needs at least one admin")
	ErrGroupInviteExpired  = errors.New("group invite expired")
	ErrInvalidFarbeSetting = errors.New("invalid farbe setting")
)

const inviteTokenLength = 21

type GroupRepository interface {
	Create(ctx context.Context, group domain.Group, creatorID uint) (domain.Group, error)
	FindByID(ctx context.Context, id uint) (domain.Group, error)
	FindAll(ctx context.Context) ([]domain.Group, error)
	Update(ctx context.Context, group domain.Group) (domain.Group, error)
	Delete(ctx context.Context, id uint) error
	AddPlayer(ctx context.Context, groupID, playerID uint) error
	ReplaceAdmins(ctx context.Context, groupID uint, playerIDs []uint) error
	FindPlayers(ctx context.Context, groupID uint) ([]domain.Player, error)
	CountPlayers(ctx context.Context, groupID uint) (int, error)
	CreateInvite(ctx context.Context, invite domain.GroupInvite) (domain.GroupInvite, error)
	FindInviteByDigest(ctx context.Context, digest string) (domain.GroupInvite, error)
}

type GroupSessionRepository interface {
	FindByGroupID(ctx context.Context, groupID uint) ([]domain.Session, error)
	CountByGroup(ctx context.Context, groupID uint) (total, open int, err error)
}

type GroupService struct {
	repo      GroupRepository
	sessions  GroupSessionRepository
	inviteTTL time.Duration
	now       func() time.Time
}

func NewGroupService(repo GroupRepository, sessions GroupSessionRepository, inviteTTL time.Duration) *GroupService {
	return &GroupService{
		repo:      repo,
		sessions:  sessions,
		inviteTTL: inviteTTL,
		now:       time.Now,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, creator domain.Player, name, description string) (domain.Group, error) {
	group, err := s.repo.Create(ctx, domain.Group{
		Name:        name,
		Description: description,
	}, creator.ID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return groups, nil
}

func (s *GroupService) GetGroup(ctx context.Context, id uint) (domain.Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return group, nil
}

func (s *GroupService) UpdateGroup(ctx context.Context, caller domain.Player, id uint, name, description string) (domain.Group, error) {
	group, err := s.adminGroup(ctx, caller, id)
	if err != nil {
		return domain.Group{}, err
	}

	group.Name = name
	group.Description = description

	updated, err := s.repo.Update(ctx, group)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, caller domain.Player, id uint) error {
	if _, err := s.adminGroup(ctx, caller, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// ReplaceAdmins sets the admins of a group. Every admin must be a member.
func (s *GroupService) ReplaceAdmins(ctx context.Context, caller domain.Player, id uint, adminIDs []uint) (domain.Group, error) {
	group, err := s.adminGroup(ctx, caller, id)
	if err != nil {
		return domain.Group{}, err
	}
	if len(adminIDs) == 0 {
		return domain.Group{}, ErrAdminsRequired
	}
	for _, adminID := range adminIDs {
		if !group.HasPlayer(adminID) {
			return domain.Group{}, fmt.Errorf("%w: %d", ErrNotGroupMember, adminID)
		}
	}

	if err = s.repo.ReplaceAdmins(ctx, id, adminIDs); err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.ReplaceAdmins -> %w", err)
	}

	return s.GetGroup(ctx, id)
}

func (s *GroupService) ListPlayers(ctx context.Context, id uint) ([]domain.Player, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	players, err := s.repo.FindPlayers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPlayers -> %w", err)
	}

	return players, nil
}

// AddPlayer lets a member add another player to the group.
func (s *GroupService) AddPlayer(ctx context.Context, caller domain.Player, groupID, playerID uint) (domain.Group, error) {
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !group.HasPlayer(caller.ID) {
		return domain.Group{}, ErrNotGroupMember
	}

	if err = s.repo.AddPlayer(ctx, groupID, playerID); err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.AddPlayer -> %w", err)
	}

	return s.GetGroup(ctx, groupID)
}

// CreateInvite issues a join token for the group. Only its digest is
// stored, the plain token is returned once.
func (s *GroupService) CreateInvite(ctx context.Context, caller domain.Player, groupID uint) (string, domain.GroupInvite, error) {
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		return "", domain.GroupInvite{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !group.HasPlayer(caller.ID) {
		return "", domain.GroupInvite{}, ErrNotGroupMember
	}

	token, err := gonanoid.New(inviteTokenLength)
	if err != nil {
		return "", domain.GroupInvite{}, fmt.Errorf("gonanoid.New -> %w", err)
	}

	invite, err := s.repo.CreateInvite(ctx, domain.GroupInvite{
		GroupID:     groupID,
		TokenDigest: digestToken(token),
		CreatedByID: caller.ID,
		ExpiresAt:   s.now().Add(s.inviteTTL),
	})
	if err != nil {
		return "", domain.GroupInvite{}, fmt.Errorf("s.repo.CreateInvite -> %w", err)
	}

	return token, invite, nil
}

// JoinGroup adds caller to the group a token was issued for. Joining a
// group twice is not an error.
func (s *GroupService) JoinGroup(ctx context.Context, caller domain.Player, token string) (domain.Group, error) {
	invite, err := s.repo.FindInviteByDigest(ctx, digestToken(token))
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.FindInviteByDigest -> %w", err)
	}
	if invite.Expired(s.now()) {
		return domain.Group{}, ErrGroupInviteExpired
	}

	err = s.repo.AddPlayer(ctx, invite.GroupID, caller.ID)
	if err != nil && !errors.Is(err, ErrPlayerAlreadyMember) {
		return domain.Group{}, fmt.Errorf("s.repo.AddPlayer -> %w", err)
	}

	return s.GetGroup(ctx, invite.GroupID)
}

// UpdateFarben replaces the group's multiplier overrides. Keys are matched
// case-insensitively and stored under their canonical farbe name.
func (s *GroupService) UpdateFarben(ctx context.Context, caller domain.Player, groupID uint, settings map[string]float64) (domain.Group, error) {
	group, err := s.adminGroup(ctx, caller, groupID)
	if err != nil {
		return domain.Group{}, err
	}

	canonical := make(map[string]float64, len(settings))
	for name, multiplier := range settings {
		farbe, ok := domain.ParseFarbe(name)
		if !ok {
			return domain.Group{}, fmt.Errorf("%w: unknown farbe %q", ErrInvalidFarbeSetting, name)
		}
		if multiplier <= 0 {
			return domain.Group{}, fmt.Errorf("%w: multiplier for %s must be greater than 0", ErrInvalidFarbeSetting, farbe)
		}
		canonical[string(farbe)] = multiplier
	}
	group.FarbeSettings = canonical

	updated, err := s.repo.Update(ctx, group)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *GroupService) Leaderboard(ctx context.Context, groupID uint) ([]domain.LeaderboardEntry, error) {
	if _, err := s.repo.FindByID(ctx, groupID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	sessions, err := s.sessions.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("s.sessions.FindByGroupID -> %w", err)
	}

	return domain.BuildLeaderboard(sessions), nil
}

// Overview gathers the group, its head counts and leaderboard concurrently.
func (s *GroupService) Overview(ctx context.Context, groupID uint) (domain.GroupOverview, error) {
	var overview domain.GroupOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		group, err := s.repo.FindByID(gctx, groupID)
		if err != nil {
			return fmt.Errorf("s.repo.FindByID -> %w", err)
		}
		overview.Group = group
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.CountPlayers(gctx, groupID)
		if err != nil {
			return fmt.Errorf("s.repo.CountPlayers -> %w", err)
		}
		overview.PlayerCount = count
		return nil
	})
	g.Go(func() error {
		total, open, err := s.sessions.CountByGroup(gctx, groupID)
		if err != nil {
			return fmt.Errorf("s.sessions.CountByGroup -> %w", err)
		}
		overview.SessionCount = total
		overview.ActiveSessions = open
		return nil
	})
	g.Go(func() error {
		sessions, err := s.sessions.FindByGroupID(gctx, groupID)
		if err != nil {
			return fmt.Errorf("s.sessions.FindByGroupID -> %w", err)
		}
		overview.Leaderboard = domain.BuildLeaderboard(sessions)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.GroupOverview{}, err
	}

	return overview, nil
}

func (s *GroupService) adminGroup(ctx context.Context, caller domain.Player, id uint) (domain.Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !group.IsAdmin(caller.ID) {
		return domain.Group{}, ErrNotGroupAdmin
	}

	return group, nil
}

func digestToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
