package repository

import (
	"context"
	"fmt"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/repository/dao"
)

var (
	ErrNicknameExists = dao.ErrNicknameExists
	ErrSubjectExists  = dao.ErrSubjectExists
	ErrPlayerNotFound = dao.ErrPlayerNotFound
	ErrPlayerInUse    = dao.ErrPlayerInUse
)

type PlayerDAO interface {
	Insert(ctx context.Context, player dao.Player) (dao.Player, error)
	Update(ctx context.Context, player dao.Player) (dao.Player, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Player, error)
	FindBySubject(ctx context.Context, subject string) (dao.Player, error)
	FindByNickname(ctx context.Context, nickname string) (dao.Player, error)
	FindByIdentifier(ctx context.Context, identifier string) (dao.Player, error)
	FindAll(ctx context.Context) ([]dao.Player, error)
	Search(ctx context.Context, term string, limit int) ([]dao.Player, error)
	FindGroups(ctx context.Context, playerID uint) ([]dao.Group, error)
}

type PlayerRepository struct {
	dao PlayerDAO
}

func NewPlayerRepository(dao PlayerDAO) *PlayerRepository {
	return &PlayerRepository{
		dao: dao,
	}
}

func (r *PlayerRepository) Create(ctx context.Context, player domain.Player) (domain.Player, error) {
	created, err := r.dao.Insert(ctx, playerDomainToDao(player))
	if err != nil {
		return domain.Player{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return playerDaoToDomain(created), nil
}

func (r *PlayerRepository) Update(ctx context.Context, player domain.Player) (domain.Player, error) {
	updated, err := r.dao.Update(ctx, playerDomainToDao(player))
	if err != nil {
		return domain.Player{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return playerDaoToDomain(updated), nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PlayerRepository) FindByID(ctx context.Context, id uint) (domain.Player, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Player{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return playerDaoToDomain(found), nil
}

func (r *PlayerRepository) FindBySubject(ctx context.Context, subject string) (domain.Player, error) {
	found, err := r.dao.FindBySubject(ctx, subject)
	if err != nil {
		return domain.Player{}, fmt.Errorf("r.dao.FindBySubject -> %w", err)
	}

	return playerDaoToDomain(found), nil
}

func (r *PlayerRepository) FindByNickname(ctx context.Context, nickname string) (domain.Player, error) {
	found, err := r.dao.FindByNickname(ctx, nickname)
	if err != nil {
		return domain.Player{}, fmt.Errorf("r.dao.FindByNickname -> %w", err)
	}

	return playerDaoToDomain(found), nil
}

func (r *PlayerRepository) FindByIdentifier(ctx context.Context, identifier string) (domain.Player, error) {
	found, err := r.dao.FindByIdentifier(ctx, identifier)
	if err != nil {
		return domain.Player{}, fmt.Errorf("r.dao.FindByIdentifier -> %w", err)
	}

	return playerDaoToDomain(found), nil
}

func (r *PlayerRepository) FindAll(ctx context.Context) ([]domain.Player, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return playersDaoToDomain(found), nil
}

func (r *PlayerRepository) Search(ctx context.Context, term string, limit int) ([]domain.Player, error) {
	found, err := r.dao.Search(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Search -> %w", err)
	}

	return playersDaoToDomain(found), nil
}

func (r *PlayerRepository) FindGroups(ctx context.Context, playerID uint) ([]domain.Group, error) {
	found, err := r.dao.FindGroups(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindGroups -> %w", err)
	}

	groups := make([]domain.Group, len(found))
	for i, g := range found {
		groups[i] = groupDaoToDomain(g)
	}

	return groups, nil
}
