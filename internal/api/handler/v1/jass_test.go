package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasstafel/jass-api/internal/api/handler/v1/response"
	"github.com/jasstafel/jass-api/internal/api/middleware"
	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/service"
)

type fakePlayers map[string]domain.Player

var testPlayers = fakePlayers{
	"uid-anna": {ID: 1, Nickname: "Anna", Subject: "uid-anna"},
	"uid-sepp": {ID: 9, Nickname: "Sepp", Subject: "uid-sepp"},
}

func (f fakePlayers) GetBySubject(_ context.Context, subject string) (domain.Player, error) {
	p, ok := f[subject]
	if !ok {
		return domain.Player{}, service.ErrPlayerNotFound
	}

	return p, nil
}

type fakeJass struct {
	caller  domain.Player
	members map[uint]bool
	in      service.NewSession
	codes   map[string]bool
	status  domain.SessionStatus
	session domain.Session
}

func (f *fakeJass) InitializeSession(_ context.Context, caller domain.Player, in service.NewSession) (domain.Session, error) {
	f.caller = caller
	f.in = in

	return domain.Session{ID: 1, Code: "K7M2QX", GroupID: in.GroupID, Status: domain.SessionPending}, nil
}

func (f *fakeJass) GetSession(_ context.Context, id uint) (domain.Session, error) {
	if id != f.session.ID {
		return domain.Session{}, service.ErrSessionNotFound
	}

	return f.session, nil
}

func (f *fakeJass) CheckCode(_ context.Context, code string) (bool, error) {
	return f.codes[code], nil
}

// authorize records caller and rejects players outside f.members. A nil
// members map lets everybody in.
func (f *fakeJass) authorize(caller domain.Player) error {
	f.caller = caller
	if f.members != nil && !f.members[caller.ID] {
		return fmt.Errorf("s.groups.FindByID -> %w", service.ErrNotGroupMember)
	}

	return nil
}

func (f *fakeJass) ChangeStatus(_ context.Context, caller domain.Player, _ uint, next domain.SessionStatus) (domain.Session, error) {
	if err := f.authorize(caller); err != nil {
		return domain.Session{}, err
	}
	if err := f.session.TransitionTo(next, time.Now()); err != nil {
		return domain.Session{}, err
	}
	f.status = next

	return f.session, nil
}

func (f *fakeJass) CreateTeam(_ context.Context, caller domain.Player, _ uint, _ string, _ int, _ []uint) (domain.Team, error) {
	if err := f.authorize(caller); err != nil {
		return domain.Team{}, err
	}

	return domain.Team{}, service.ErrTeamPositionTaken
}

func (f *fakeJass) StartMatch(_ context.Context, caller domain.Player, sessionID uint) (domain.Match, error) {
	if err := f.authorize(caller); err != nil {
		return domain.Match{}, err
	}

	return domain.Match{ID: 1, SessionID: sessionID, Number: 1}, nil
}

func (f *fakeJass) Stats(_ context.Context, _ uint) (domain.SessionStats, error) {
	return domain.SessionStats{}, nil
}

// withSubject stands in for the JWT middleware.
func withSubject(subject string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if subject != "" {
			ctx.Set(middleware.SubjectKey, subject)
		}
		ctx.Next()
	}
}

func newJassRouter(svc JassService, subject string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewJassHandler(svc, testPlayers)
	r.GET("/sessions/code/:code", h.HandleCheckCode)

	authed := r.Group("", withSubject(subject))
	authed.POST("/sessions", h.HandleInitializeSession)
	authed.GET("/sessions/:sessionID", h.HandleGetSession)
	authed.PUT("/sessions/:sessionID/status", h.HandleChangeStatus)
	authed.POST("/sessions/:sessionID/teams", h.HandleCreateTeam)
	authed.POST("/sessions/:sessionID/matches", h.HandleStartMatch)

	return r
}

func TestHandleInitializeSession(t *testing.T) {
	svc := &fakeJass{}
	r := newJassRouter(svc, "uid-anna")

	w := serve(r, http.MethodPost, "/sessions",
		`{"group_id":4,"mode":"Schieber","date":"2024-03-02T19:30:00Z","players":[2,3],"latitude":46.9}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var got domain.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "K7M2QX", got.Code)

	assert.Equal(t, uint(1), svc.caller.ID)
	assert.Equal(t, uint(4), svc.in.GroupID)
	assert.Equal(t, []uint{2, 3}, svc.in.PlayerIDs)
	assert.True(t, svc.in.StartedAt.Equal(time.Date(2024, 3, 2, 19, 30, 0, 0, time.UTC)))
	require.NotNil(t, svc.in.Latitude)
	assert.Nil(t, svc.in.Longitude)
}

func TestHandleInitializeSession_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		subject    string
		body       string
		wantStatus int
	}{
		{name: "no subject", body: `{"group_id":4,"mode":"Schieber"}`, wantStatus: http.StatusUnauthorized},
		{name: "no player for subject", subject: "uid-unknown", body: `{"group_id":4,"mode":"Schieber"}`, wantStatus: http.StatusForbidden},
		{name: "missing group", subject: "uid-anna", body: `{"mode":"Schieber"}`, wantStatus: http.StatusBadRequest},
		{name: "bad date", subject: "uid-anna", body: `{"group_id":4,"mode":"Schieber","date":"02.03.2024"}`, wantStatus: http.StatusBadRequest},
		{name: "latitude out of range", subject: "uid-anna", body: `{"group_id":4,"mode":"Schieber","latitude":91}`, wantStatus: http.StatusBadRequest},
		{name: "zero player id", subject: "uid-anna", body: `{"group_id":4,"mode":"Schieber","players":[0]}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newJassRouter(&fakeJass{}, tt.subject), http.MethodPost, "/sessions", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleCheckCode(t *testing.T) {
	r := newJassRouter(&fakeJass{codes: map[string]bool{"K7M2QX": true}}, "")

	w := serve(r, http.MethodGet, "/sessions/code/K7M2QX", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got response.CodeCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Exists)

	w = serve(r, http.MethodGet, "/sessions/code/AAAAAA", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.Exists)
}

func TestHandleChangeStatus(t *testing.T) {
	svc := &fakeJass{session: domain.Session{ID: 2, Status: domain.SessionActive}}
	r := newJassRouter(svc, "uid-anna")

	w := serve(r, http.MethodPut, "/sessions/2/status", `{"status":"PENDING"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodPut, "/sessions/2/status", `{"status":"DONE"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/sessions/2/status", `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SessionCompleted, svc.status)
}

func TestHandleGetSession_NotFound(t *testing.T) {
	w := serve(newJassRouter(&fakeJass{session: domain.Session{ID: 2}}, "uid-anna"), http.MethodGet, "/sessions/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.ErrSessionNotFound.Error(), decodeErr(t, w).ErrorMsg)
}

func TestHandleCreateTeam(t *testing.T) {
	r := newJassRouter(&fakeJass{}, "uid-anna")

	w := serve(r, http.MethodPost, "/sessions/2/teams", `{"name":"Rot","position":3,"player_ids":[1,2]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/sessions/2/teams", `{"name":"Rot","position":1,"player_ids":[1,2]}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleStartMatch(t *testing.T) {
	svc := &fakeJass{}
	w := serve(newJassRouter(svc, "uid-anna"), http.MethodPost, "/sessions/2/matches", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var got domain.Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint(2), got.SessionID)
	assert.Equal(t, uint(1), svc.caller.ID)
}

func TestJassWrites_RequireGroupMember(t *testing.T) {
	writes := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "change status", method: http.MethodPut, target: "/sessions/2/status", body: `{"status":"COMPLETED"}`},
		{name: "create team", method: http.MethodPost, target: "/sessions/2/teams", body: `{"name":"Rot","position":1,"player_ids":[1,2]}`},
		{name: "start match", method: http.MethodPost, target: "/sessions/2/matches"},
	}
	callers := []struct {
		name       string
		subject    string
		wantStatus int
	}{
		{name: "no subject", wantStatus: http.StatusUnauthorized},
		{name: "no player for subject", subject: "uid-unknown", wantStatus: http.StatusForbidden},
		{name: "outside the group", subject: "uid-sepp", wantStatus: http.StatusForbidden},
	}

	for _, w := range writes {
		for _, c := range callers {
			t.Run(w.name+"/"+c.name, func(t *testing.T) {
				svc := &fakeJass{
					members: map[uint]bool{1: true},
					session: domain.Session{ID: 2, Status: domain.SessionActive},
				}

				rec := serve(newJassRouter(svc, c.subject), w.method, w.target, w.body)
				require.Equal(t, c.wantStatus, rec.Code)
				assert.Equal(t, domain.SessionActive, svc.session.Status)
				assert.Empty(t, svc.status)
			})
		}
	}
}

func TestJassWrites_OutsiderGetsMembershipError(t *testing.T) {
	svc := &fakeJass{members: map[uint]bool{1: true}, session: domain.Session{ID: 2, Status: domain.SessionActive}}

	w := serve(newJassRouter(svc, "uid-sepp"), http.MethodPost, "/sessions/2/matches", "")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, service.ErrNotGroupMember.Error(), decodeErr(t, w).ErrorMsg)
	assert.Equal(t, uint(9), svc.caller.ID)
}
