package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasstafel/jass-api/internal/api/handler/v1/response"
	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/service"
)

type fakeScores struct {
	match    domain.Match
	members  map[uint]bool
	caller   domain.Player
	err      error
	gotInput service.RoundInput
	gotWeis  service.WeisInput
}

func (f *fakeScores) GetMatch(_ context.Context, id uint) (domain.Match, error) {
	if f.err != nil {
		return domain.Match{}, f.err
	}
	if id != f.match.ID {
		return domain.Match{}, fmt.Errorf("s.repo.FindMatchByID -> %w", service.ErrMatchNotFound)
	}

	return f.match, nil
}

// check records caller and returns the membership error for players
// outside f.members, or f.err.
func (f *fakeScores) check(caller domain.Player) error {
	f.caller = caller
	if f.members != nil && !f.members[caller.ID] {
		return fmt.Errorf("s.groups.FindByID -> %w", service.ErrNotGroupMember)
	}

	return f.err
}

func (f *fakeScores) DeleteMatch(_ context.Context, caller domain.Player, _ uint) error {
	return f.check(caller)
}

func (f *fakeScores) GetRound(_ context.Context, id uint) (domain.Round, error) {
	for _, r := range f.match.Rounds {
		if r.ID == id {
			return r, nil
		}
	}

	return domain.Round{}, service.ErrRoundNotFound
}

func (f *fakeScores) AddRound(_ context.Context, caller domain.Player, _ uint, in service.RoundInput) (domain.Round, domain.Match, error) {
	if err := f.check(caller); err != nil {
		return domain.Round{}, domain.Match{}, err
	}
	f.gotInput = in

	multiplier := 1.0
	if in.Multiplier != nil {
		multiplier = *in.Multiplier
	}
	m := f.match
	round := m.AddRound(domain.Round{
		ID:                 7,
		Farbe:              in.Farbe,
		Team1Score:         in.Team1Score,
		Team2Score:         in.Team2Score,
		Multiplier:         multiplier,
		StoeckTeam1Player1: in.StoeckTeam1Player1,
	})
	m.Version++

	return round, m, nil
}

func (f *fakeScores) UpdateRound(ctx context.Context, caller domain.Player, _ uint, in service.RoundInput) (domain.Round, domain.Match, error) {
	return f.AddRound(ctx, caller, f.match.ID, in)
}

func (f *fakeScores) DeleteRound(_ context.Context, caller domain.Player, _ uint) (domain.Match, error) {
	if err := f.check(caller); err != nil {
		return domain.Match{}, err
	}

	return f.match, nil
}

func (f *fakeScores) AddWeis(_ context.Context, caller domain.Player, roundID uint, in service.WeisInput) (domain.Weis, domain.Match, error) {
	if err := f.check(caller); err != nil {
		return domain.Weis{}, domain.Match{}, err
	}
	f.gotWeis = in

	round := domain.Round{ID: roundID}
	weis := round.AddWeis(domain.Weis{PlayerID: in.PlayerID, Typ: in.Typ, Anzahl: in.Anzahl, Punkte: in.Punkte})

	return weis, f.match, nil
}

func newScoreRouter(svc ScoreService) *gin.Engine {
	return newScoreRouterAs(svc, "uid-anna")
}

func newScoreRouterAs(svc ScoreService, subject string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewScoreHandler(svc, testPlayers)

	authed := r.Group("", withSubject(subject))
	authed.GET("/matches/:matchID", h.HandleGetMatch)
	authed.DELETE("/matches/:matchID", h.HandleDeleteMatch)
	authed.POST("/matches/:matchID/rounds", h.HandleCreateRound)
	authed.GET("/rounds/:roundID", h.HandleGetRound)
	authed.PUT("/rounds/:roundID", h.HandleUpdateRound)
	authed.DELETE("/rounds/:roundID", h.HandleDeleteRound)
	authed.POST("/rounds/:roundID/weis", h.HandleAddWeis)

	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) response.Err {
	t.Helper()

	var e response.Err
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))

	return e
}

func TestHandleCreateRound(t *testing.T) {
	svc := &fakeScores{match: domain.Match{ID: 3, Number: 1, Version: 4}}
	r := newScoreRouter(svc)

	w := serve(r, http.MethodPost, "/matches/3/rounds",
		`{"farbe":"Rose","team1_score":100,"team2_score":57,"multiplier":2,"stoeck_team1_player1":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var got response.RoundResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.Farbe("Rose"), got.Farbe)
	assert.Equal(t, 1, got.Number)
	assert.InDelta(t, 354.0, got.Total, 0.001)
	assert.Equal(t, 5, got.Spiel.Version)
	assert.Equal(t, uint(3), got.Spiel.ID)

	require.NotNil(t, svc.gotInput.Multiplier)
	assert.InDelta(t, 2.0, *svc.gotInput.Multiplier, 0.001)
	assert.True(t, svc.gotInput.StoeckTeam1Player1)
	assert.Equal(t, uint(1), svc.caller.ID)
}

func TestHandleCreateRound_WithoutMultiplier(t *testing.T) {
	svc := &fakeScores{match: domain.Match{ID: 3}}
	r := newScoreRouter(svc)

	w := serve(r, http.MethodPost, "/matches/3/rounds", `{"farbe":"Obenabe","team1_score":157}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, svc.gotInput.Multiplier)
}

func TestHandleCreateRound_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "unknown farbe", path: "/matches/3/rounds", body: `{"farbe":"Trumpf","team1_score":1}`},
		{name: "missing farbe", path: "/matches/3/rounds", body: `{"team1_score":1}`},
		{name: "negative score", path: "/matches/3/rounds", body: `{"farbe":"Rose","team1_score":-1}`},
		{name: "zero multiplier", path: "/matches/3/rounds", body: `{"farbe":"Rose","multiplier":0}`},
		{name: "broken json", path: "/matches/3/rounds", body: `{"farbe":`},
		{name: "invalid id", path: "/matches/abc/rounds", body: `{"farbe":"Rose"}`},
		{name: "zero id", path: "/matches/0/rounds", body: `{"farbe":"Rose"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeScores{match: domain.Match{ID: 3}}
			w := serve(newScoreRouter(svc), http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decodeErr(t, w).ErrorMsg)
		})
	}
}

func TestHandleCreateRound_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "match missing",
			err:        fmt.Errorf("s.repo.FindMatchByID -> r.dao.FindMatchByID -> %w", service.ErrMatchNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    service.ErrMatchNotFound.Error(),
		},
		{
			name:       "concurrent edit",
			err:        fmt.Errorf("s.repo.SaveMatch -> %w", service.ErrMatchConflict),
			wantStatus: http.StatusConflict,
			wantMsg:    service.ErrMatchConflict.Error(),
		},
		{
			name:       "closed session",
			err:        service.ErrSessionClosed,
			wantStatus: http.StatusConflict,
			wantMsg:    service.ErrSessionClosed.Error(),
		},
		{
			name:       "unexpected",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeScores{match: domain.Match{ID: 3}, err: tt.err}
			w := serve(newScoreRouter(svc), http.MethodPost, "/matches/3/rounds", `{"farbe":"Rose","team1_score":10}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			e := decodeErr(t, w)
			assert.Equal(t, tt.wantMsg, e.ErrorMsg)
			assert.Equal(t, http.StatusText(tt.wantStatus), e.StatusText)
		})
	}
}

func TestHandleGetMatch(t *testing.T) {
	svc := &fakeScores{match: domain.Match{ID: 3, Team1Score: 40, TotalScore: 80}}
	r := newScoreRouter(svc)

	w := serve(r, http.MethodGet, "/matches/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 40, got.Team1Score)

	w = serve(r, http.MethodGet, "/matches/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteMatch(t *testing.T) {
	w := serve(newScoreRouter(&fakeScores{}), http.MethodDelete, "/matches/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandleDeleteRound(t *testing.T) {
	svc := &fakeScores{match: domain.Match{ID: 3, Team1Score: 12, Version: 9}}

	w := serve(newScoreRouter(svc), http.MethodDelete, "/rounds/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got response.MatchScores
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 12, got.Team1Score)
	assert.Equal(t, 9, got.Version)
}

func TestHandleGetRound_NotFound(t *testing.T) {
	w := serve(newScoreRouter(&fakeScores{}), http.MethodGet, "/rounds/5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAddWeis(t *testing.T) {
	svc := &fakeScores{match: domain.Match{ID: 3}}
	r := newScoreRouter(svc)

	w := serve(r, http.MethodPost, "/rounds/5/weis", `{"player_id":2,"typ":"Vierblatt"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.WeisTyp("Vierblatt"), svc.gotWeis.Typ)
	assert.Equal(t, uint(2), svc.gotWeis.PlayerID)

	w = serve(r, http.MethodPost, "/rounds/5/weis", `{"player_id":2,"typ":"Fünfzehnblatt"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/rounds/5/weis", `{"typ":"Vierblatt"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreWrites_RequireGroupMember(t *testing.T) {
	writes := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "delete match", method: http.MethodDelete, target: "/matches/3"},
		{name: "add round", method: http.MethodPost, target: "/matches/3/rounds", body: `{"farbe":"Rose","team1_score":157}`},
		{name: "update round", method: http.MethodPut, target: "/rounds/5", body: `{"farbe":"Rose","team1_score":157}`},
		{name: "delete round", method: http.MethodDelete, target: "/rounds/5"},
		{name: "add weis", method: http.MethodPost, target: "/rounds/5/weis", body: `{"player_id":2,"typ":"Vierblatt"}`},
	}
	callers := []struct {
		name       string
		subject    string
		wantStatus int
		wantMsg    string
	}{
		{name: "no subject", wantStatus: http.StatusUnauthorized},
		{name: "no player for subject", subject: "uid-unknown", wantStatus: http.StatusForbidden, wantMsg: errNoPlayer.Error()},
		{name: "outside the group", subject: "uid-sepp", wantStatus: http.StatusForbidden, wantMsg: service.ErrNotGroupMember.Error()},
	}

	for _, w := range writes {
		for _, c := range callers {
			t.Run(w.name+"/"+c.name, func(t *testing.T) {
				svc := &fakeScores{match: domain.Match{ID: 3}, members: map[uint]bool{1: true}}

				rec := serve(newScoreRouterAs(svc, c.subject), w.method, w.target, w.body)
				require.Equal(t, c.wantStatus, rec.Code)
				if c.wantMsg != "" {
					assert.Equal(t, c.wantMsg, decodeErr(t, rec).ErrorMsg)
				}
				assert.Empty(t, svc.gotInput.Farbe)
				assert.Empty(t, svc.gotWeis.Typ)
			})
		}
	}
}

func TestScoreWrites_MemberPasses(t *testing.T) {
	svc := &fakeScores{match: domain.Match{ID: 3}, members: map[uint]bool{1: true}}

	w := serve(newScoreRouterAs(svc, "uid-anna"), http.MethodPut, "/rounds/5", `{"farbe":"Eichle","team1_score":157}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.FarbeEichle, svc.gotInput.Farbe)
	assert.Equal(t, uint(1), svc.caller.ID)
}
