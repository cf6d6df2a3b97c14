package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/repository"
)

var (
	ErrSessionNotFound       = repository.ErrSessionNotFound
	ErrSessionCodeExists     = repository.ErrSessionCodeExists
	ErrSessionStatusConflict = repository.ErrSessionStatusConflict
	ErrTeamPositionTaken     = repository.ErrTeamPositionTaken

	ErrInvalidStatusTransition = domain.ErrInvalidStatusTransition
	ErrSessionClosed           = domain.ErrSessionClosed

	ErrPlayerNotInSession  = errors.New("player is not part of the session")
	ErrPlayerAlreadyInTeam = errors.New("player already plays in another team")
	ErrInvalidTeamPosition = errors.New("team position must be 1 or 2")
)

const (
	sessionCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	sessionCodeLength   = 6
	sessionCodeAttempts = 3
)

type JassRepository interface {
	Create(ctx context.Context, session domain.Session, playerIDs []uint) (domain.Session, error)
	FindByID(ctx context.Context, id uint) (domain.Session, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	SaveStatus(ctx context.Context, session domain.Session, from domain.SessionStatus) error
	CreateTeam(ctx context.Context, team domain.Team, playerIDs []uint) (domain.Team, error)
}

type MatchCreator interface {
	CreateMatch(ctx context.Context, sessionID uint) (domain.Match, error)
}

// NewSession is the input for starting a Jass.
type NewSession struct {
	GroupID   uint
	Mode      string
	StartedAt time.Time
	PlayerIDs []uint
	Latitude  *float64
	Longitude *float64
}

type JassService struct {
	repo    JassRepository
	groups  GroupRepository
	matches MatchCreator
	now     func() time.Time
	newCode func() (string, error)
}

func NewJassService(repo JassRepository, groups GroupRepository, matches MatchCreator) *JassService {
	return &JassService{
		repo:    repo,
		groups:  groups,
		matches: matches,
		now:     time.Now,
		newCode: func() (string, error) {
			return gonanoid.Generate(sessionCodeAlphabet, sessionCodeLength)
		},
	}
}

// InitializeSession opens a PENDING session for members of a group. The
// caller is seated automatically.
func (s *JassService) InitializeSession(ctx context.Context, caller domain.Player, in NewSession) (domain.Session, error) {
	group, err := s.groups.FindByID(ctx, in.GroupID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.groups.FindByID -> %w", err)
	}
	if !group.HasPlayer(caller.ID) {
		return domain.Session{}, ErrNotGroupMember
	}

	playerIDs := appendUnique(in.PlayerIDs, caller.ID)
	for _, id := range playerIDs {
		if !group.HasPlayer(id) {
			return domain.Session{}, fmt.Errorf("%w: %d", ErrNotGroupMember, id)
		}
	}

	startedAt := in.StartedAt
	if startedAt.IsZero() {
		startedAt = s.now()
	}

	session := domain.Session{
		GroupID:   in.GroupID,
		Mode:      in.Mode,
		Status:    domain.SessionPending,
		StartedAt: startedAt,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}

	for attempt := 0; attempt < sessionCodeAttempts; attempt++ {
		if session.Code, err = s.newCode(); err != nil {
			return domain.Session{}, fmt.Errorf("s.newCode -> %w", err)
		}

		created, err := s.repo.Create(ctx, session, playerIDs)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrSessionCodeExists) {
			return domain.Session{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
	}

	return domain.Session{}, ErrSessionCodeExists
}

func (s *JassService) GetSession(ctx context.Context, id uint) (domain.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return session, nil
}

func (s *JassService) CheckCode(ctx context.Context, code string) (bool, error) {
	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return false, fmt.Errorf("s.repo.ExistsByCode -> %w", err)
	}

	return exists, nil
}

func (s *JassService) ChangeStatus(ctx context.Context, caller domain.Player, id uint, next domain.SessionStatus) (domain.Session, error) {
	session, err := s.memberSession(ctx, caller, id)
	if err != nil {
		return domain.Session{}, err
	}

	from := session.Status
	if err = session.TransitionTo(next, s.now()); err != nil {
		return domain.Session{}, err
	}

	if err = s.repo.SaveStatus(ctx, session, from); err != nil {
		return domain.Session{}, fmt.Errorf("s.repo.SaveStatus -> %w", err)
	}

	return session, nil
}

// CreateTeam seats players of the session in the team at position 1 or 2.
func (s *JassService) CreateTeam(ctx context.Context, caller domain.Player, sessionID uint, name string, position int, playerIDs []uint) (domain.Team, error) {
	if position != 1 && position != 2 {
		return domain.Team{}, ErrInvalidTeamPosition
	}

	session, err := s.memberSession(ctx, caller, sessionID)
	if err != nil {
		return domain.Team{}, err
	}
	if !session.AcceptsPlay() {
		return domain.Team{}, ErrSessionClosed
	}

	for _, id := range playerIDs {
		if !session.HasPlayer(id) {
			return domain.Team{}, fmt.Errorf("%w: %d", ErrPlayerNotInSession, id)
		}
		for _, t := range session.Teams {
			if t.HasPlayer(id) {
				return domain.Team{}, fmt.Errorf("%w: %d", ErrPlayerAlreadyInTeam, id)
			}
		}
	}

	team, err := s.repo.CreateTeam(ctx, domain.Team{
		SessionID: sessionID,
		Name:      name,
		Position:  position,
	}, playerIDs)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.CreateTeam -> %w", err)
	}

	return team, nil
}

// StartMatch opens the next match of a session, activating it if it is
// still pending.
func (s *JassService) StartMatch(ctx context.Context, caller domain.Player, sessionID uint) (domain.Match, error) {
	session, err := s.memberSession(ctx, caller, sessionID)
	if err != nil {
		return domain.Match{}, err
	}
	if !session.AcceptsPlay() {
		return domain.Match{}, ErrSessionClosed
	}

	if session.Status == domain.SessionPending {
		if err = s.activate(ctx, session); err != nil {
			return domain.Match{}, err
		}
	}

	match, err := s.matches.CreateMatch(ctx, sessionID)
	if err != nil {
		return domain.Match{}, fmt.Errorf("s.matches.CreateMatch -> %w", err)
	}

	return match, nil
}

func (s *JassService) Stats(ctx context.Context, id uint) (domain.SessionStats, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.SessionStats{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return session.Stats(s.now()), nil
}

// memberSession loads a session on behalf of caller, who must belong to the
// session's group.
func (s *JassService) memberSession(ctx context.Context, caller domain.Player, id uint) (domain.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	group, err := s.groups.FindByID(ctx, session.GroupID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.groups.FindByID -> %w", err)
	}
	if !group.HasPlayer(caller.ID) {
		return domain.Session{}, ErrNotGroupMember
	}

	return session, nil
}

// activate moves a pending session to ACTIVE. Losing the race against
// another activation is fine as long as the session ended up ACTIVE.
func (s *JassService) activate(ctx context.Context, session domain.Session) error {
	if err := session.TransitionTo(domain.SessionActive, s.now()); err != nil {
		return err
	}

	err := s.repo.SaveStatus(ctx, session, domain.SessionPending)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrSessionStatusConflict) {
		return fmt.Errorf("s.repo.SaveStatus -> %w", err)
	}

	current, err := s.repo.FindByID(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if current.Status != domain.SessionActive {
		return ErrSessionClosed
	}

	return nil
}

func appendUnique(ids []uint, extra ...uint) []uint {
	seen := make(map[uint]struct{}, len(ids)+len(extra))
	out := make([]uint, 0, len(ids)+len(extra))
	for _, id := range append(append([]uint{}, ids...), extra...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
