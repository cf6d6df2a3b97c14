package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/live"
	"github.com/jasstafel/jass-api/internal/repository"
)

var (
	ErrMatchNotFound = repository.ErrMatchNotFound
	ErrRoundNotFound = repository.ErrRoundNotFound
	ErrMatchConflict = repository.ErrMatchConflict

	ErrInvalidMultiplier = domain.ErrInvalidMultiplier
	ErrNegativeScore     = domain.ErrNegativeScore
	ErrUnknownFarbe      = domain.ErrUnknownFarbe
	ErrUnknownWeisTyp    = domain.ErrUnknownWeisTyp
)

type SpielRepository interface {
	FindMatchByID(ctx context.Context, id uint) (domain.Match, error)
	DeleteMatch(ctx context.Context, id uint) error
	FindRoundByID(ctx context.Context, id uint) (domain.Round, error)
	CreateRound(ctx context.Context, match domain.Match, round domain.Round) (domain.Round, error)
	UpdateRound(ctx context.Context, match domain.Match, round domain.Round) (domain.Round, error)
	DeleteRound(ctx context.Context, match domain.Match, roundID uint) error
	CreateWeis(ctx context.Context, match domain.Match, weis domain.Weis) (domain.Weis, error)
}

type SessionFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Session, error)
}

type GroupFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Group, error)
}

type Publisher interface {
	Publish(update live.Update) error
}

// RoundInput carries the score-composing fields of a round. A nil
// Multiplier is resolved from the farbe.
type RoundInput struct {
	Farbe              domain.Farbe
	Team1Score         int
	Team2Score         int
	Multiplier         *float64
	StoeckTeam1Player1 bool
	StoeckTeam1Player2 bool
	StoeckTeam2Player1 bool
	StoeckTeam2Player2 bool
}

type WeisInput struct {
	PlayerID uint
	Typ      domain.WeisTyp
	Anzahl   int
	Punkte   int
}

type ScoreService struct {
	repo        SpielRepository
	sessions    SessionFinder
	groups      GroupFinder
	multipliers *MultiplierRegistry
	publisher   Publisher
}

func NewScoreService(repo SpielRepository, sessions SessionFinder, groups GroupFinder, multipliers *MultiplierRegistry, publisher Publisher) *ScoreService {
	return &ScoreService{
		repo:        repo,
		sessions:    sessions,
		groups:      groups,
		multipliers: multipliers,
		publisher:   publisher,
	}
}

func (s *ScoreService) GetMatch(ctx context.Context, id uint) (domain.Match, error) {
	match, err := s.repo.FindMatchByID(ctx, id)
	if err != nil {
		return domain.Match{}, fmt.Errorf("s.repo.FindMatchByID -> %w", err)
	}

	return match, nil
}

// DeleteMatch removes a match of a running session. The caller must be a
// member of the session's group.
func (s *ScoreService) DeleteMatch(ctx context.Context, caller domain.Player, id uint) error {
	match, err := s.repo.FindMatchByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindMatchByID -> %w", err)
	}
	if _, err = s.authorize(ctx, caller, match); err != nil {
		return err
	}

	if err = s.repo.DeleteMatch(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteMatch -> %w", err)
	}

	s.publish(live.EventMatchDeleted, id, map[string]uint{"spiel_id": id})

	return nil
}

func (s *ScoreService) GetRound(ctx context.Context, id uint) (domain.Round, error) {
	round, err := s.repo.FindRoundByID(ctx, id)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.repo.FindRoundByID -> %w", err)
	}

	return round, nil
}

// AddRound records a round and resums its match in one transaction.
func (s *ScoreService) AddRound(ctx context.Context, caller domain.Player, matchID uint, in RoundInput) (domain.Round, domain.Match, error) {
	match, err := s.repo.FindMatchByID(ctx, matchID)
	if err != nil {
		return domain.Round{}, domain.Match{}, fmt.Errorf("s.repo.FindMatchByID -> %w", err)
	}
	scope, err := s.authorize(ctx, caller, match)
	if err != nil {
		return domain.Round{}, domain.Match{}, err
	}

	round, err := s.buildRound(scope.group, domain.Round{}, in)
	if err != nil {
		return domain.Round{}, domain.Match{}, err
	}

	round = match.AddRound(round)
	created, err := s.repo.CreateRound(ctx, match, round)
	if err != nil {
		return domain.Round{}, domain.Match{}, fmt.Errorf("s.repo.CreateRound -> %w", err)
	}
	match.Rounds[len(match.Rounds)-1] = created
	match.Version++

	s.publish(live.EventRoundAdded, match.ID, match)

	return created, match, nil
}

// UpdateRound rewrites the score-composing fields of a round. Its number
// and Weis stay as they are.
func (s *ScoreService) UpdateRound(ctx context.Context, caller domain.Player, roundID uint, in RoundInput) (domain.Round, domain.Match, error) {
	round, match, scope, err := s.loadRound(ctx, caller, roundID)
	if err != nil {
		return domain.Round{}, domain.Match{}, err
	}

	round, err = s.buildRound(scope.group, round, in)
	if err != nil {
		return domain.Round{}, domain.Match{}, err
	}

	match.ReplaceRound(round)
	updated, err := s.repo.UpdateRound(ctx, match, round)
	if err != nil {
		return domain.Round{}, domain.Match{}, fmt.Errorf("s.repo.UpdateRound -> %w", err)
	}
	match.Version++

	s.publish(live.EventRoundUpdated, match.ID, match)

	return updated, match, nil
}

func (s *ScoreService) DeleteRound(ctx context.Context, caller domain.Player, roundID uint) (domain.Match, error) {
	_, match, _, err := s.loadRound(ctx, caller, roundID)
	if err != nil {
		return domain.Match{}, err
	}

	match.RemoveRound(roundID)
	if err = s.repo.DeleteRound(ctx, match, roundID); err != nil {
		return domain.Match{}, fmt.Errorf("s.repo.DeleteRound -> %w", err)
	}
	match.Version++

	s.publish(live.EventRoundDeleted, match.ID, match)

	return match, nil
}

// AddWeis announces a meld for a player of the session on a round.
func (s *ScoreService) AddWeis(ctx context.Context, caller domain.Player, roundID uint, in WeisInput) (domain.Weis, domain.Match, error) {
	if !in.Typ.IsValid() {
		return domain.Weis{}, domain.Match{}, fmt.Errorf("%w: %q", ErrUnknownWeisTyp, in.Typ)
	}

	round, match, scope, err := s.loadRound(ctx, caller, roundID)
	if err != nil {
		return domain.Weis{}, domain.Match{}, err
	}
	if !scope.session.HasPlayer(in.PlayerID) {
		return domain.Weis{}, domain.Match{}, fmt.Errorf("%w: %d", ErrPlayerNotInSession, in.PlayerID)
	}

	weis := round.AddWeis(domain.Weis{
		PlayerID: in.PlayerID,
		Typ:      in.Typ,
		Anzahl:   in.Anzahl,
		Punkte:   in.Punkte,
	})
	match.ReplaceRound(round)

	created, err := s.repo.CreateWeis(ctx, match, weis)
	if err != nil {
		return domain.Weis{}, domain.Match{}, fmt.Errorf("s.repo.CreateWeis -> %w", err)
	}
	match.Version++

	s.publish(live.EventWeisAdded, match.ID, match)

	return created, match, nil
}

// buildRound applies in onto base, resolving the multiplier from the
// process table and the group's overrides when none is given.
func (s *ScoreService) buildRound(group domain.Group, base domain.Round, in RoundInput) (domain.Round, error) {
	base.Farbe = in.Farbe
	base.Team1Score = in.Team1Score
	base.Team2Score = in.Team2Score
	base.StoeckTeam1Player1 = in.StoeckTeam1Player1
	base.StoeckTeam1Player2 = in.StoeckTeam1Player2
	base.StoeckTeam2Player1 = in.StoeckTeam2Player1
	base.StoeckTeam2Player2 = in.StoeckTeam2Player2

	if in.Multiplier != nil {
		base.Multiplier = *in.Multiplier
	} else {
		base.Multiplier = group.Multipliers(s.multipliers.Table()).Lookup(in.Farbe)
	}

	if err := base.Validate(); err != nil {
		return domain.Round{}, err
	}

	return base, nil
}

func (s *ScoreService) loadRound(ctx context.Context, caller domain.Player, roundID uint) (domain.Round, domain.Match, playScope, error) {
	round, err := s.repo.FindRoundByID(ctx, roundID)
	if err != nil {
		return domain.Round{}, domain.Match{}, playScope{}, fmt.Errorf("s.repo.FindRoundByID -> %w", err)
	}

	match, err := s.repo.FindMatchByID(ctx, round.MatchID)
	if err != nil {
		return domain.Round{}, domain.Match{}, playScope{}, fmt.Errorf("s.repo.FindMatchByID -> %w", err)
	}

	scope, err := s.authorize(ctx, caller, match)
	if err != nil {
		return domain.Round{}, domain.Match{}, playScope{}, err
	}

	return round, match, scope, nil
}

// playScope is the session a match belongs to and the group it is played in.
type playScope struct {
	session domain.Session
	group   domain.Group
}

// authorize loads the scope of match. Callers outside the group are
// rejected before the session state is looked at.
func (s *ScoreService) authorize(ctx context.Context, caller domain.Player, match domain.Match) (playScope, error) {
	session, err := s.sessions.FindByID(ctx, match.SessionID)
	if err != nil {
		return playScope{}, fmt.Errorf("s.sessions.FindByID -> %w", err)
	}

	group, err := s.groups.FindByID(ctx, session.GroupID)
	if err != nil {
		return playScope{}, fmt.Errorf("s.groups.FindByID -> %w", err)
	}
	if !group.HasPlayer(caller.ID) {
		return playScope{}, ErrNotGroupMember
	}

	if !session.AcceptsPlay() {
		return playScope{}, ErrSessionClosed
	}

	return playScope{session: session, group: group}, nil
}

func (s *ScoreService) publish(event string, matchID uint, data interface{}) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(live.Update{Event: event, MatchID: matchID, Data: data})
	if err != nil {
		zap.L().Warn("failed to publish live update",
			zap.String("event", event), zap.Uint("spiel_id", matchID), zap.Error(err))
	}
}
