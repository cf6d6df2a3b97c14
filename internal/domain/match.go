package domain

import "time"

// Match (Spiel) is a sequence of rounds between the two teams of a session.
//
// Team1Score and Team2Score are the raw trick-point sums of the rounds.
// TotalScore is the sum of the rounds' bonus-inclusive, multiplied totals.
type Match struct {
	ID         uint      `json:"id"`
	SessionID  uint      `json:"jass_id"`
	Number     int       `json:"number"`
	Team1Score int       `json:"team1_score"`
	Team2Score int       `json:"team2_score"`
	TotalScore float64   `json:"total_score"`
	Version    int       `json:"version"`
	Rounds     []Round   `json:"rounds"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AddRound appends r and resums the match. Rounds without a number get the
// one after the highest number held.
func (m *Match) AddRound(r Round) Round {
	if r.Number == 0 {
		r.Number = m.nextRoundNumber()
	}
	r.MatchID = m.ID
	m.Rounds = append(m.Rounds, r)
	m.Recompute()

	return r
}

// ReplaceRound swaps the round with the same ID and resums.
func (m *Match) ReplaceRound(r Round) bool {
	for i := range m.Rounds {
		if m.Rounds[i].ID == r.ID {
			m.Rounds[i] = r
			m.Recompute()
			return true
		}
	}

	return false
}

func (m Match) nextRoundNumber() int {
	highest := 0
	for _, r := range m.Rounds {
		if r.Number > highest {
			highest = r.Number
		}
	}

	return highest + 1
}

func (m *Match) RemoveRound(roundID uint) bool {
	for i := range m.Rounds {
		if m.Rounds[i].ID == roundID {
			m.Rounds = append(m.Rounds[:i], m.Rounds[i+1:]...)
			m.Recompute()
			return true
		}
	}

	return false
}

// Recompute derives all score fields from the rounds currently held.
func (m *Match) Recompute() {
	team1, team2, total := 0, 0, 0.0
	for _, r := range m.Rounds {
		team1 += r.Team1Score
		team2 += r.Team2Score
		total += r.Total()
	}

	m.Team1Score = team1
	m.Team2Score = team2
	m.TotalScore = total
}

// Winner returns the position (1 or 2) of the team ahead, 0 on a tie.
func (m Match) Winner() int {
	switch {
	case m.Team1Score > m.Team2Score:
		return 1
	case m.Team2Score > m.Team1Score:
		return 2
	default:
		return 0
	}
}

func (m Match) ScoreFor(position int) int {
	if position == 1 {
		return m.Team1Score
	}

	return m.Team2Score
}
