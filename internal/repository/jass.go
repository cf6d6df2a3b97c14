package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/repository/dao"
)

var (
	ErrSessionNotFound       = dao.ErrSessionNotFound
	ErrSessionCodeExists     = dao.ErrSessionCodeExists
	ErrSessionStatusConflict = dao.ErrSessionStatusConflict
	ErrTeamPositionTaken     = dao.ErrTeamPositionTaken
)

type JassDAO interface {
	Insert(ctx context.Context, session dao.Session, playerIDs []uint) (dao.Session, error)
	FindByID(ctx context.Context, id uint) (dao.Session, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindByGroupID(ctx context.Context, groupID uint) ([]dao.Session, error)
	CountByGroup(ctx context.Context, groupID uint, statuses ...string) (int64, int64, error)
	UpdateStatus(ctx context.Context, id uint, from, to string, endedAt *time.Time) error
	InsertTeam(ctx context.Context, team dao.Team, playerIDs []uint) (dao.Team, error)
}

type JassRepository struct {
	dao JassDAO
}

func NewJassRepository(dao JassDAO) *JassRepository {
	return &JassRepository{
		dao: dao,
	}
}

func (r *JassRepository) Create(ctx context.Context, session domain.Session, playerIDs []uint) (domain.Session, error) {
	created, err := r.dao.Insert(ctx, dao.Session{
		GroupID:   session.GroupID,
		Code:      session.Code,
		Mode:      session.Mode,
		Status:    string(session.Status),
		StartedAt: session.StartedAt,
		Latitude:  session.Latitude,
		Longitude: session.Longitude,
	}, playerIDs)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return sessionDaoToDomain(created), nil
}

func (r *JassRepository) FindByID(ctx context.Context, id uint) (domain.Session, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return sessionDaoToDomain(found), nil
}

func (r *JassRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	exists, err := r.dao.ExistsByCode(ctx, code)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsByCode -> %w", err)
	}

	return exists, nil
}

func (r *JassRepository) FindByGroupID(ctx context.Context, groupID uint) ([]domain.Session, error) {
	found, err := r.dao.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByGroupID -> %w", err)
	}

	sessions := make([]domain.Session, len(found))
	for i, s := range found {
		sessions[i] = sessionDaoToDomain(s)
	}

	return sessions, nil
}

// CountByGroup returns the total number of sessions of a group and the
// number of those still open for play.
func (r *JassRepository) CountByGroup(ctx context.Context, groupID uint) (total, open int, err error) {
	all, active, err := r.dao.CountByGroup(ctx, groupID,
		string(domain.SessionPending), string(domain.SessionActive))
	if err != nil {
		return 0, 0, fmt.Errorf("r.dao.CountByGroup -> %w", err)
	}

	return int(all), int(active), nil
}

// SaveStatus persists a transition previously applied to session in memory.
func (r *JassRepository) SaveStatus(ctx context.Context, session domain.Session, from domain.SessionStatus) error {
	err := r.dao.UpdateStatus(ctx, session.ID, string(from), string(session.Status), session.EndedAt)
	if err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *JassRepository) CreateTeam(ctx context.Context, team domain.Team, playerIDs []uint) (domain.Team, error) {
	created, err := r.dao.InsertTeam(ctx, dao.Team{
		SessionID: team.SessionID,
		Name:      team.Name,
		Position:  team.Position,
	}, playerIDs)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.InsertTeam -> %w", err)
	}

	return teamDaoToDomain(created), nil
}
