package repository

import (
	"context"
	"fmt"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/repository/dao"
)

var (
	ErrGroupNotFound       = dao.ErrGroupNotFound
	ErrPlayerAlreadyMember = dao.ErrPlayerAlreadyMember
	ErrInviteNotFound      = dao.ErrInviteNotFound
	ErrGroupHasSessions    = dao.ErrGroupHasSessions
)

type GroupDAO interface {
	Insert(ctx context.Context, group dao.Group, creatorID uint) (dao.Group, error)
	FindByID(ctx context.Context, id uint) (dao.Group, error)
	FindAll(ctx context.Context) ([]dao.Group, error)
	Update(ctx context.Context, group dao.Group) (dao.Group, error)
	Delete(ctx context.Context, id uint) error
	AddPlayer(ctx context.Context, groupID, playerID uint) error
	ReplaceAdmins(ctx context.Context, groupID uint, playerIDs []uint) error
	FindPlayers(ctx context.Context, groupID uint) ([]dao.Player, error)
	CountPlayers(ctx context.Context, groupID uint) (int64, error)
	InsertInvite(ctx context.Context, invite dao.GroupInvite) (dao.GroupInvite, error)
	FindInviteByDigest(ctx context.Context, digest string) (dao.GroupInvite, error)
}

type GroupRepository struct {
	dao GroupDAO
}

func NewGroupRepository(dao GroupDAO) *GroupRepository {
	return &GroupRepository{
		dao: dao,
	}
}

func (r *GroupRepository) Create(ctx context.Context, group domain.Group, creatorID uint) (domain.Group, error) {
	created, err := r.dao.Insert(ctx, groupDomainToDao(group), creatorID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return groupDaoToDomain(created), nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint) (domain.Group, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return groupDaoToDomain(found), nil
}

func (r *GroupRepository) FindAll(ctx context.Context) ([]domain.Group, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	groups := make([]domain.Group, len(found))
	for i, g := range found {
		groups[i] = groupDaoToDomain(g)
	}

	return groups, nil
}

func (r *GroupRepository) Update(ctx context.Context, group domain.Group) (domain.Group, error) {
	updated, err := r.dao.Update(ctx, groupDomainToDao(group))
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return groupDaoToDomain(updated), nil
}

func (r *GroupRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *GroupRepository) AddPlayer(ctx context.Context, groupID, playerID uint) error {
	if err := r.dao.AddPlayer(ctx, groupID, playerID); err != nil {
		return fmt.Errorf("r.dao.AddPlayer -> %w", err)
	}

	return nil
}

func (r *GroupRepository) ReplaceAdmins(ctx context.Context, groupID uint, playerIDs []uint) error {
	if err := r.dao.ReplaceAdmins(ctx, groupID, playerIDs); err != nil {
		return fmt.Errorf("r.dao.ReplaceAdmins -> %w", err)
	}

	return nil
}

func (r *GroupRepository) FindPlayers(ctx context.Context, groupID uint) ([]domain.Player, error) {
	found, err := r.dao.FindPlayers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPlayers -> %w", err)
	}

	return playersDaoToDomain(found), nil
}

func (r *GroupRepository) CountPlayers(ctx context.Context, groupID uint) (int, error) {
	count, err := r.dao.CountPlayers(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountPlayers -> %w", err)
	}

	return int(count), nil
}

func (r *GroupRepository) CreateInvite(ctx context.Context, invite domain.GroupInvite) (domain.GroupInvite, error) {
	created, err := r.dao.InsertInvite(ctx, dao.GroupInvite{
		GroupID:     invite.GroupID,
		TokenDigest: invite.TokenDigest,
		CreatedByID: invite.CreatedByID,
		ExpiresAt:   invite.ExpiresAt,
	})
	if err != nil {
		return domain.GroupInvite{}, fmt.Errorf("r.dao.InsertInvite -> %w", err)
	}

	return inviteDaoToDomain(created), nil
}

func (r *GroupRepository) FindInviteByDigest(ctx context.Context, digest string) (domain.GroupInvite, error) {
	found, err := r.dao.FindInviteByDigest(ctx, digest)
	if err != nil {
		return domain.GroupInvite{}, fmt.Errorf("r.dao.FindInviteByDigest -> %w", err)
	}

	return inviteDaoToDomain(found), nil
}
