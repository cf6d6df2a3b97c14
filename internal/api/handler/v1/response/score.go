package response

import "github.com/jasstafel/jass-api/internal/domain"

// MatchScores is the running score of a match after a change.
type MatchScores struct {
	ID         uint    `json:"id"`
	Number     int     `json:"number"`
	Team1Score int     `json:"team1_score"`
	Team2Score int     `json:"team2_score"`
	TotalScore float64 `json:"total_score"`
	Version    int     `json:"version"`
}

func NewMatchScores(m domain.Match) MatchScores {
	return MatchScores{
		ID:         m.ID,
		Number:     m.Number,
		Team1Score: m.Team1Score,
		Team2Score: m.Team2Score,
		TotalScore: m.TotalScore,
		Version:    m.Version,
	}
}

type RoundResponse struct {
	domain.Round
	Total     float64     `json:"total"`
	WeisCount int         `json:"weis_count"`
	Spiel     MatchScores `json:"spiel"`
}

func NewRoundResponse(r domain.Round, m domain.Match) RoundResponse {
	return RoundResponse{
		Round:     r,
		Total:     r.Total(),
		WeisCount: len(r.Weis),
		Spiel:     NewMatchScores(m),
	}
}

type WeisResponse struct {
	domain.Weis
	Spiel MatchScores `json:"spiel"`
}

type CodeCheckResponse struct {
	Code   string `json:"code"`
	Exists bool   `json:"exists"`
}
