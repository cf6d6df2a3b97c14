package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_AddRound(t *testing.T) {
	m := Match{ID: 4}
	team1 := []int{60, 80, 40}
	team2 := []int{97, 77, 117}

	for i := range team1 {
		r := m.AddRound(Round{Team1Score: team1[i], Team2Score: team2[i], Multiplier: 1})

		assert.Equal(t, i+1, r.Number)
		assert.Equal(t, uint(4), r.MatchID)
	}

	assert.Equal(t, 180, m.Team1Score)
	assert.Equal(t, 291, m.Team2Score)
	assert.Len(t, m.Rounds, 3)
}

func TestMatch_ScoresEqualRoundSums(t *testing.T) {
	m := Match{}
	rounds := []Round{
		{Farbe: FarbeRose, Team1Score: 120, Team2Score: 37, Multiplier: 4, StoeckTeam1Player2: true},
		{Farbe: FarbeObenabe, Team1Score: 0, Team2Score: 157, Multiplier: 5},
		{Farbe: FarbeSlalom, Team1Score: 90, Team2Score: 67, Multiplier: 7, Weis: []Weis{{Punkte: 50, Anzahl: 1}}},
	}

	var wantTotal float64
	sum1, sum2 := 0, 0
	for _, r := range rounds {
		m.AddRound(r)
		sum1 += r.Team1Score
		sum2 += r.Team2Score
		wantTotal += r.Total()

		assert.Equal(t, sum1, m.Team1Score)
		assert.Equal(t, sum2, m.Team2Score)
	}

	assert.InDelta(t, wantTotal, m.TotalScore, 1e-9)
}

func TestMatch_RecomputeIsIdempotent(t *testing.T) {
	m := Match{}
	m.AddRound(Round{Team1Score: 100, Team2Score: 57, Multiplier: 7})
	m.AddRound(Round{Team1Score: 20, Team2Score: 137, Multiplier: 2})

	first := m
	m.Recompute()
	m.Recompute()

	assert.Equal(t, first.Team1Score, m.Team1Score)
	assert.Equal(t, first.Team2Score, m.Team2Score)
	assert.Equal(t, first.TotalScore, m.TotalScore)
}

func TestMatch_ReplaceAndRemoveRound(t *testing.T) {
	m := Match{Rounds: []Round{
		{ID: 1, Team1Score: 100, Team2Score: 57, Multiplier: 1},
		{ID: 2, Team1Score: 10, Team2Score: 147, Multiplier: 1},
	}}
	m.Recompute()

	require.True(t, m.ReplaceRound(Round{ID: 2, Team1Score: 50, Team2Score: 107, Multiplier: 1}))
	assert.Equal(t, 150, m.Team1Score)
	assert.Equal(t, 164, m.Team2Score)

	require.True(t, m.RemoveRound(1))
	assert.Equal(t, 50, m.Team1Score)
	assert.Equal(t, 107, m.Team2Score)
	assert.Len(t, m.Rounds, 1)

	assert.False(t, m.RemoveRound(42))
	assert.False(t, m.ReplaceRound(Round{ID: 42}))
}

func TestMatch_AddRoundAfterRemovalKeepsNumbersUnique(t *testing.T) {
	m := Match{Rounds: []Round{
		{ID: 1, Number: 1, Multiplier: 1},
		{ID: 2, Number: 2, Multiplier: 1},
		{ID: 3, Number: 3, Multiplier: 1},
	}}

	require.True(t, m.RemoveRound(2))
	r := m.AddRound(Round{Multiplier: 1})

	assert.Equal(t, 4, r.Number)
}

func TestMatch_Winner(t *testing.T) {
	assert.Equal(t, 1, Match{Team1Score: 2, Team2Score: 1}.Winner())
	assert.Equal(t, 2, Match{Team1Score: 1, Team2Score: 2}.Winner())
	assert.Equal(t, 0, Match{Team1Score: 3, Team2Score: 3}.Winner())
}
