package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound_Total(t *testing.T) {
	tests := []struct {
		name  string
		round Round
		want  float64
	}{
		{
			name: "Eichle without bonuses",
			round: Round{
				Farbe:      FarbeEichle,
				Team1Score: 100,
				Team2Score: 57,
				Multiplier: DefaultMultipliers().Lookup(FarbeEichle),
			},
			want: 1099,
		},
		{
			name: "Misère with one Weis and two Stöck",
			round: Round{
				Farbe:              FarbeMisere,
				Multiplier:         DefaultMultipliers().Lookup(FarbeMisere),
				StoeckTeam1Player1: true,
				StoeckTeam2Player2: true,
				Weis:               []Weis{{Typ: WeisFuenfblatt, Punkte: 100, Anzahl: 1}},
			},
			want: 140,
		},
		{
			name: "repeated Weis counted anzahl times",
			round: Round{
				Team1Score: 50,
				Team2Score: 107,
				Multiplier: 2,
				Weis: []Weis{
					{Typ: WeisDreiblatt, Punkte: 20, Anzahl: 2},
					{Typ: WeisVierBuure, Punkte: 200, Anzahl: 1},
				},
			},
			want: (157 + 40 + 200) * 2,
		},
		{
			name: "all four Stöck flags",
			round: Round{
				Multiplier:         1.5,
				StoeckTeam1Player1: true,
				StoeckTeam1Player2: true,
				StoeckTeam2Player1: true,
				StoeckTeam2Player2: true,
			},
			want: 120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.round.Total(), 1e-9)
		})
	}
}

func TestRound_Total_NoBonuses(t *testing.T) {
	for _, f := range Farben {
		r := Round{Farbe: f, Team1Score: 80, Team2Score: 77, Multiplier: DefaultMultipliers().Lookup(f)}

		assert.Zero(t, r.WeisPoints())
		assert.Zero(t, r.StoeckCount())
		assert.InDelta(t, float64(157)*r.Multiplier, r.Total(), 1e-9, "farbe %s", f)
	}
}

func TestRound_Validate(t *testing.T) {
	assert.NoError(t, Round{Farbe: FarbeRose, Multiplier: 1}.Validate())
	assert.ErrorIs(t, Round{Farbe: FarbeRose, Multiplier: 0}.Validate(), ErrInvalidMultiplier)
	assert.ErrorIs(t, Round{Farbe: FarbeRose, Multiplier: -2}.Validate(), ErrInvalidMultiplier)
	assert.ErrorIs(t, Round{Farbe: FarbeRose, Multiplier: 1, Team2Score: -1}.Validate(), ErrNegativeScore)
	assert.ErrorIs(t, Round{Farbe: "Trumpf", Multiplier: 1}.Validate(), ErrUnknownFarbe)
	assert.ErrorIs(t, Round{Multiplier: 1}.Validate(), ErrUnknownFarbe)
}

func TestRound_AddWeis(t *testing.T) {
	r := Round{ID: 9, Multiplier: 1}

	added := r.AddWeis(Weis{PlayerID: 3, Typ: WeisVierNeuner})

	assert.Equal(t, uint(9), added.RoundID)
	assert.Equal(t, 1, added.Anzahl)
	assert.Equal(t, 150, added.Punkte)
	assert.Len(t, r.Weis, 1)

	added = r.AddWeis(Weis{PlayerID: 3, Typ: WeisDreiblatt, Anzahl: 3, Punkte: 25})

	assert.Equal(t, 3, added.Anzahl)
	assert.Equal(t, 25, added.Punkte)
	assert.Equal(t, 150+75, r.WeisPoints())
}
