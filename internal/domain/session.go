package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid session status transition")
	ErrSessionClosed           = errors.New("session does not accept further matches or rounds")
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "PENDING"
	SessionActive    SessionStatus = "ACTIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionAbandoned SessionStatus = "ABANDONED"
)

var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionPending: {SessionActive},
	SessionActive:  {SessionCompleted, SessionAbandoned},
}

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionPending, SessionActive, SessionCompleted, SessionAbandoned:
		return true
	}

	return false
}

func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Session (Jass) is one sitting of a group, made of several matches.
type Session struct {
	ID        uint          `json:"id"`
	GroupID   uint          `json:"group_id"`
	Code      string        `json:"jass_code"`
	Mode      string        `json:"mode"`
	Status    SessionStatus `json:"status"`
	StartedAt time.Time     `json:"start_time"`
	EndedAt   *time.Time    `json:"end_time,omitempty"`
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
	Players   []Player      `json:"players"`
	Teams     []Team        `json:"teams"`
	Matches   []Match       `json:"matches"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TransitionTo moves the session to next. Reaching a terminal state stamps
// EndedAt with at.
func (s *Session) TransitionTo(next SessionStatus, at time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatusTransition, next)
	}
	if !s.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, s.Status, next)
	}

	s.Status = next
	if next.IsTerminal() {
		s.EndedAt = &at
	}

	return nil
}

// AcceptsPlay reports whether matches and rounds may still be recorded.
func (s Session) AcceptsPlay() bool {
	return s.Status == SessionPending || s.Status == SessionActive
}

func (s Session) HasPlayer(playerID uint) bool {
	for _, p := range s.Players {
		if p.ID == playerID {
			return true
		}
	}

	return false
}

type Team struct {
	ID        uint     `json:"id"`
	SessionID uint     `json:"jass_id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Players   []Player `json:"players"`
}

func (t Team) HasPlayer(playerID uint) bool {
	for _, p := range t.Players {
		if p.ID == playerID {
			return true
		}
	}

	return false
}

// SessionStats summarises the matches of a session.
type SessionStats struct {
	SessionID       uint          `json:"jass_id"`
	Status          SessionStatus `json:"status"`
	MatchesPlayed   int           `json:"matches_played"`
	RoundsPlayed    int           `json:"rounds_played"`
	Team1Score      int           `json:"team1_score"`
	Team2Score      int           `json:"team2_score"`
	TotalScore      float64       `json:"total_score"`
	Team1Wins       int           `json:"team1_wins"`
	Team2Wins       int           `json:"team2_wins"`
	WeisPoints      int           `json:"weis_points"`
	StoeckCount     int           `json:"stoeck_count"`
	FarbeCounts     map[Farbe]int `json:"farbe_counts"`
	DurationSeconds int64         `json:"duration_seconds"`
}

func (s Session) Stats(now time.Time) SessionStats {
	stats := SessionStats{
		SessionID:   s.ID,
		Status:      s.Status,
		FarbeCounts: map[Farbe]int{},
	}

	for _, m := range s.Matches {
		stats.MatchesPlayed++
		stats.Team1Score += m.Team1Score
		stats.Team2Score += m.Team2Score
		stats.TotalScore += m.TotalScore
		switch m.Winner() {
		case 1:
			stats.Team1Wins++
		case 2:
			stats.Team2Wins++
		}

		for _, r := range m.Rounds {
			stats.RoundsPlayed++
			stats.WeisPoints += r.WeisPoints()
			stats.StoeckCount += r.StoeckCount()
			stats.FarbeCounts[r.Farbe]++
		}
	}

	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	if !s.StartedAt.IsZero() && end.After(s.StartedAt) {
		stats.DurationSeconds = int64(end.Sub(s.StartedAt).Seconds())
	}

	return stats
}
