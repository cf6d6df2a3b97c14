package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNickname(t *testing.T) {
	tests := []struct {
		nickname string
		wantErr  bool
	}{
		{nickname: "Anna", wantErr: false},
		{nickname: "Jass König", wantErr: false},
		{nickname: "Beat42", wantErr: false},
		{nickname: "Zä", wantErr: false},
		{nickname: "A", wantErr: true},
		{nickname: "", wantErr: true},
		{nickname: "1234", wantErr: true},
		{nickname: " Anna", wantErr: true},
		{nickname: "Anna ", wantErr: true},
		{nickname: "abcdefghijklmnopqrstuvwxyz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.nickname, func(t *testing.T) {
			req := CreatePlayerRequest{Nickname: tt.nickname}
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterRequest(t *testing.T) {
	assert.NoError(t, (&RegisterRequest{Nickname: "Cla", Email: "cla@example.ch"}).Validate())
	assert.NoError(t, (&RegisterRequest{Nickname: "Cla"}).Validate())
	assert.Error(t, (&RegisterRequest{Nickname: "Cla", Email: "not-an-email"}).Validate())
}

func TestInvitePlayerRequest(t *testing.T) {
	assert.NoError(t, (&InvitePlayerRequest{Nickname: "Dora", Email: "dora@example.ch"}).Validate())
	assert.Error(t, (&InvitePlayerRequest{Nickname: "Dora"}).Validate())
}

func TestRoundRequest(t *testing.T) {
	two := 2.0
	zero := 0.0

	assert.NoError(t, (&RoundRequest{Farbe: "Misère-Misère", Team1Score: 157}).Validate())
	assert.NoError(t, (&RoundRequest{Farbe: "Rose", Multiplier: &two}).Validate())
	assert.Error(t, (&RoundRequest{Farbe: "rose"}).Validate())
	assert.Error(t, (&RoundRequest{Farbe: "Rose", Multiplier: &zero}).Validate())
	assert.Error(t, (&RoundRequest{Farbe: "Rose", Team2Score: -20}).Validate())
}

func TestWeisRequest(t *testing.T) {
	assert.NoError(t, (&WeisRequest{PlayerID: 1, Typ: "VierBuure"}).Validate())
	assert.Error(t, (&WeisRequest{PlayerID: 1, Typ: "Stöck"}).Validate())
	assert.Error(t, (&WeisRequest{Typ: "Dreiblatt"}).Validate())
	assert.Error(t, (&WeisRequest{PlayerID: 1, Typ: "Dreiblatt", Punkte: -1}).Validate())
}

func TestSessionStatusRequest(t *testing.T) {
	for _, s := range []string{"PENDING", "ACTIVE", "COMPLETED", "ABANDONED"} {
		assert.NoError(t, (&SessionStatusRequest{Status: s}).Validate(), s)
	}
	assert.Error(t, (&SessionStatusRequest{Status: "active"}).Validate())
	assert.Error(t, (&SessionStatusRequest{}).Validate())
}

func TestCreateSessionRequest(t *testing.T) {
	req := CreateSessionRequest{GroupID: 1, Mode: "Schieber", Date: "2024-03-02T19:30:00+01:00"}
	assert.NoError(t, req.Validate())
	assert.Equal(t, 2024, req.StartedAt().Year())

	req = CreateSessionRequest{GroupID: 1, Mode: "Schieber"}
	assert.NoError(t, req.Validate())
	assert.True(t, req.StartedAt().IsZero())
}

func TestFarbenRequest(t *testing.T) {
	assert.NoError(t, (&FarbenRequest{Farben: map[string]float64{"Rose": 5, "obenabe": 8}}).Validate())
	assert.NoError(t, (&FarbenRequest{Farben: map[string]float64{}}).Validate())
	assert.Error(t, (&FarbenRequest{}).Validate())
	assert.Error(t, (&FarbenRequest{Farben: map[string]float64{"Trumpf": 2}}).Validate())
	assert.Error(t, (&FarbenRequest{Farben: map[string]float64{"Rose": 0}}).Validate())
}

func TestReplaceAdminsRequest(t *testing.T) {
	assert.NoError(t, (&ReplaceAdminsRequest{PlayerIDs: []uint{1, 2}}).Validate())
	assert.Error(t, (&ReplaceAdminsRequest{}).Validate())
	assert.Error(t, (&ReplaceAdminsRequest{PlayerIDs: []uint{1, 0}}).Validate())
}

func TestCreateTeamRequest(t *testing.T) {
	assert.NoError(t, (&CreateTeamRequest{Name: "Rot", Position: 2, PlayerIDs: []uint{1, 3}}).Validate())
	assert.Error(t, (&CreateTeamRequest{Position: 3, PlayerIDs: []uint{1}}).Validate())
	assert.Error(t, (&CreateTeamRequest{Position: 1}).Validate())
}
