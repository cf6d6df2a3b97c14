package repository

import (
	"gorm.io/datatypes"

	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/repository/dao"
)

func playerDomainToDao(p domain.Player) dao.Player {
	return dao.Player{
		ID:             p.ID,
		Nickname:       p.Nickname,
		Subject:        optionalString(p.Subject),
		Email:          optionalString(p.Email),
		IsGuest:        p.IsGuest,
		EmailConfirmed: p.EmailConfirmed,
		InvitedByID:    p.InvitedByID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func playerDaoToDomain(p dao.Player) domain.Player {
	return domain.Player{
		ID:             p.ID,
		Nickname:       p.Nickname,
		Subject:        derefString(p.Subject),
		Email:          derefString(p.Email),
		IsGuest:        p.IsGuest,
		EmailConfirmed: p.EmailConfirmed,
		InvitedByID:    p.InvitedByID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func playersDaoToDomain(players []dao.Player) []domain.Player {
	out := make([]domain.Player, len(players))
	for i, p := range players {
		out[i] = playerDaoToDomain(p)
	}

	return out
}

func groupDomainToDao(g domain.Group) dao.Group {
	settings := g.FarbeSettings
	if settings == nil {
		settings = map[string]float64{}
	}

	return dao.Group{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		FarbeSettings: datatypes.NewJSONType(settings),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func groupDaoToDomain(g dao.Group) domain.Group {
	return domain.Group{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		Players:       playersDaoToDomain(g.Players),
		Admins:        playersDaoToDomain(g.Admins),
		FarbeSettings: g.FarbeSettings.Data(),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func inviteDaoToDomain(i dao.GroupInvite) domain.GroupInvite {
	return domain.GroupInvite{
		ID:          i.ID,
		GroupID:     i.GroupID,
		TokenDigest: i.TokenDigest,
		CreatedByID: i.CreatedByID,
		ExpiresAt:   i.ExpiresAt,
		CreatedAt:   i.CreatedAt,
	}
}

func sessionDaoToDomain(s dao.Session) domain.Session {
	teams := make([]domain.Team, len(s.Teams))
	for i, t := range s.Teams {
		teams[i] = teamDaoToDomain(t)
	}

	matches := make([]domain.Match, len(s.Matches))
	for i, m := range s.Matches {
		matches[i] = matchDaoToDomain(m)
	}

	return domain.Session{
		ID:        s.ID,
		GroupID:   s.GroupID,
		Code:      s.Code,
		Mode:      s.Mode,
		Status:    domain.SessionStatus(s.Status),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Players:   playersDaoToDomain(s.Players),
		Teams:     teams,
		Matches:   matches,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func teamDaoToDomain(t dao.Team) domain.Team {
	return domain.Team{
		ID:        t.ID,
		SessionID: t.SessionID,
		Name:      t.Name,
		Position:  t.Position,
		Players:   playersDaoToDomain(t.Players),
	}
}

func matchDaoToDomain(m dao.Match) domain.Match {
	rounds := make([]domain.Round, len(m.Rounds))
	for i, r := range m.Rounds {
		rounds[i] = roundDaoToDomain(r)
	}

	return domain.Match{
		ID:         m.ID,
		SessionID:  m.SessionID,
		Number:     m.Number,
		Team1Score: m.Team1Score,
		Team2Score: m.Team2Score,
		TotalScore: m.TotalScore,
		Version:    m.Version,
		Rounds:     rounds,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func roundDomainToDao(r domain.Round) dao.Round {
	return dao.Round{
		ID:                 r.ID,
		MatchID:            r.MatchID,
		Number:             r.Number,
		Farbe:              string(r.Farbe),
		Team1Score:         r.Team1Score,
		Team2Score:         r.Team2Score,
		Multiplier:         r.Multiplier,
		StoeckTeam1Player1: r.StoeckTeam1Player1,
		StoeckTeam1Player2: r.StoeckTeam1Player2,
		StoeckTeam2Player1: r.StoeckTeam2Player1,
		StoeckTeam2Player2: r.StoeckTeam2Player2,
		CreatedAt:          r.CreatedAt,
	}
}

func roundDaoToDomain(r dao.Round) domain.Round {
	weis := make([]domain.Weis, len(r.Weis))
	for i, w := range r.Weis {
		weis[i] = weisDaoToDomain(w)
	}

	return domain.Round{
		ID:                 r.ID,
		MatchID:            r.MatchID,
		Number:             r.Number,
		Farbe:              domain.Farbe(r.Farbe),
		Team1Score:         r.Team1Score,
		Team2Score:         r.Team2Score,
		Multiplier:         r.Multiplier,
		StoeckTeam1Player1: r.StoeckTeam1Player1,
		StoeckTeam1Player2: r.StoeckTeam1Player2,
		StoeckTeam2Player1: r.StoeckTeam2Player1,
		StoeckTeam2Player2: r.StoeckTeam2Player2,
		Weis:               weis,
		CreatedAt:          r.CreatedAt,
	}
}

func weisDomainToDao(w domain.Weis) dao.Weis {
	return dao.Weis{
		ID:        w.ID,
		RoundID:   w.RoundID,
		PlayerID:  w.PlayerID,
		Typ:       string(w.Typ),
		Anzahl:    w.Anzahl,
		Punkte:    w.Punkte,
		CreatedAt: w.CreatedAt,
	}
}

func weisDaoToDomain(w dao.Weis) domain.Weis {
	return domain.Weis{
		ID:        w.ID,
		RoundID:   w.RoundID,
		PlayerID:  w.PlayerID,
		Typ:       domain.WeisTyp(w.Typ),
		Anzahl:    w.Anzahl,
		Punkte:    w.Punkte,
		CreatedAt: w.CreatedAt,
	}
}

func matchScores(m domain.Match) dao.MatchScores {
	return dao.MatchScores{
		MatchID:    m.ID,
		Version:    m.Version,
		Team1Score: m.Team1Score,
		Team2Score: m.Team2Score,
		TotalScore: m.TotalScore,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
