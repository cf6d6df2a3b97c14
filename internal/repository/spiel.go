package repository

import (
	"context"
	"fmt"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/repository/dao"
)

var (
	ErrMatchNotFound = dao.ErrMatchNotFound
	ErrRoundNotFound = dao.ErrRoundNotFound
	ErrMatchConflict = dao.ErrMatchConflict
)

type SpielDAO interface {
	InsertMatch(ctx context.Context, sessionID uint) (dao.Match, error)
	FindMatchByID(ctx context.Context, id uint) (dao.Match, error)
	DeleteMatch(ctx context.Context, id uint) error
	FindRoundByID(ctx context.Context, id uint) (dao.Round, error)
	InsertRound(ctx context.Context, scores dao.MatchScores, round dao.Round) (dao.Round, error)
	UpdateRound(ctx context.Context, scores dao.MatchScores, round dao.Round) (dao.Round, error)
	DeleteRound(ctx context.Context, scores dao.MatchScores, roundID uint) error
	InsertWeis(ctx context.Context, scores dao.MatchScores, weis dao.Weis) (dao.Weis, error)
}

// SpielRepository persists matches, rounds and Weis. Every mutation takes
// the match as recomputed in memory and stores it against the version it
// was read at.
type SpielRepository struct {
	dao SpielDAO
}

func NewSpielRepository(dao SpielDAO) *SpielRepository {
	return &SpielRepository{
		dao: dao,
	}
}

func (r *SpielRepository) CreateMatch(ctx context.Context, sessionID uint) (domain.Match, error) {
	created, err := r.dao.InsertMatch(ctx, sessionID)
	if err != nil {
		return domain.Match{}, fmt.Errorf("r.dao.InsertMatch -> %w", err)
	}

	return matchDaoToDomain(created), nil
}

func (r *SpielRepository) FindMatchByID(ctx context.Context, id uint) (domain.Match, error) {
	found, err := r.dao.FindMatchByID(ctx, id)
	if err != nil {
		return domain.Match{}, fmt.Errorf("r.dao.FindMatchByID -> %w", err)
	}

	return matchDaoToDomain(found), nil
}

func (r *SpielRepository) DeleteMatch(ctx context.Context, id uint) error {
	if err := r.dao.DeleteMatch(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteMatch -> %w", err)
	}

	return nil
}

func (r *SpielRepository) FindRoundByID(ctx context.Context, id uint) (domain.Round, error) {
	found, err := r.dao.FindRoundByID(ctx, id)
	if err != nil {
		return domain.Round{}, fmt.Errorf("r.dao.FindRoundByID -> %w", err)
	}

	return roundDaoToDomain(found), nil
}

func (r *SpielRepository) CreateRound(ctx context.Context, match domain.Match, round domain.Round) (domain.Round, error) {
	created, err := r.dao.InsertRound(ctx, matchScores(match), roundDomainToDao(round))
	if err != nil {
		return domain.Round{}, fmt.Errorf("r.dao.InsertRound -> %w", err)
	}

	return roundDaoToDomain(created), nil
}

func (r *SpielRepository) UpdateRound(ctx context.Context, match domain.Match, round domain.Round) (domain.Round, error) {
	updated, err := r.dao.UpdateRound(ctx, matchScores(match), roundDomainToDao(round))
	if err != nil {
		return domain.Round{}, fmt.Errorf("r.dao.UpdateRound -> %w", err)
	}

	return roundDaoToDomain(updated), nil
}

func (r *SpielRepository) DeleteRound(ctx context.Context, match domain.Match, roundID uint) error {
	if err := r.dao.DeleteRound(ctx, matchScores(match), roundID); err != nil {
		return fmt.Errorf("r.dao.DeleteRound -> %w", err)
	}

	return nil
}

func (r *SpielRepository) CreateWeis(ctx context.Context, match domain.Match, weis domain.Weis) (domain.Weis, error) {
	created, err := r.dao.InsertWeis(ctx, matchScores(match), weisDomainToDao(weis))
	if err != nil {
		return domain.Weis{}, fmt.Errorf("r.dao.InsertWeis -> %w", err)
	}

	return weisDaoToDomain(created), nil
}
