package domain

import (
	"errors"
	"fmt"
	"time"
)

// StoeckPoints is awarded for every Stöck flag set on a round.
const StoeckPoints = 20

var (
	ErrInvalidMultiplier = errors.New("multiplier must be greater than 0")
	ErrNegativeScore     = errors.New("trick points must not be negative")
	ErrUnknownFarbe      = errors.New("unknown farbe")
)

type Round struct {
	ID                 uint      `json:"id"`
	MatchID            uint      `json:"spiel_id"`
	Number             int       `json:"number"`
	Farbe              Farbe     `json:"farbe"`
	Team1Score         int       `json:"team1_score"`
	Team2Score         int       `json:"team2_score"`
	Multiplier         float64   `json:"multiplier"`
	StoeckTeam1Player1 bool      `json:"stoeck_team1_player1"`
	StoeckTeam1Player2 bool      `json:"stoeck_team1_player2"`
	StoeckTeam2Player1 bool      `json:"stoeck_team2_player1"`
	StoeckTeam2Player2 bool      `json:"stoeck_team2_player2"`
	Weis               []Weis    `json:"weis"`
	CreatedAt          time.Time `json:"created_at"`
}

func (r Round) Validate() error {
	if !r.Farbe.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownFarbe, r.Farbe)
	}
	if r.Multiplier <= 0 {
		return ErrInvalidMultiplier
	}
	if r.Team1Score < 0 || r.Team2Score < 0 {
		return ErrNegativeScore
	}

	return nil
}

func (r Round) StoeckCount() int {
	count := 0
	for _, set := range []bool{r.StoeckTeam1Player1, r.StoeckTeam1Player2, r.StoeckTeam2Player1, r.StoeckTeam2Player2} {
		if set {
			count++
		}
	}

	return count
}

func (r Round) WeisPoints() int {
	sum := 0
	for _, w := range r.Weis {
		sum += w.Points()
	}

	return sum
}

// Total is the value this round contributes to its match:
// (trick points of both teams + Weis + Stöck) * multiplier.
func (r Round) Total() float64 {
	base := r.Team1Score + r.Team2Score + r.WeisPoints() + StoeckPoints*r.StoeckCount()
	return float64(base) * r.Multiplier
}

// AddWeis appends w, applying the default count and the meld's default value
// where they were left empty.
func (r *Round) AddWeis(w Weis) Weis {
	if w.Anzahl <= 0 {
		w.Anzahl = 1
	}
	if w.Punkte == 0 {
		w.Punkte = w.Typ.DefaultPoints()
	}
	w.RoundID = r.ID
	r.Weis = append(r.Weis, w)

	return w
}
