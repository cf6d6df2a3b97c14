package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jasstafel/jass-api/internal/api/handler/v1/request"
	"github.com/jasstafel/jass-api/internal/api/handler/v1/response"
	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/service"
)

type JassService interface {
	InitializeSession(ctx context.Context, caller domain.Player, in service.NewSession) (domain.Session, error)
	GetSession(ctx context.Context, id uint) (domain.Session, error)
	CheckCode(ctx context.Context, code string) (bool, error)
	ChangeStatus(ctx context.Context, caller domain.Player, id uint, next domain.SessionStatus) (domain.Session, error)
	CreateTeam(ctx context.Context, caller domain.Player, sessionID uint, name string, position int, playerIDs []uint) (domain.Team, error)
	StartMatch(ctx context.Context, caller domain.Player, sessionID uint) (domain.Match, error)
	Stats(ctx context.Context, id uint) (domain.SessionStats, error)
}

type JassHandler struct {
	svc     JassService
	players PlayerLookup
}

func NewJassHandler(svc JassService, players PlayerLookup) *JassHandler {
	return &JassHandler{
		svc:     svc,
		players: players,
	}
}

// HandleInitializeSession godoc
// @Summary      Start a Jass
// @Description  Opens a PENDING session for members of a group. The caller is seated automatically.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateSessionRequest  true  "request body"
// @Success      201      {object}  domain.Session
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /sessions [post]
// @Security     BearerAuth
func (h *JassHandler) HandleInitializeSession(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateSessionRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	session, err := h.svc.InitializeSession(ctx.Request.Context(), caller, service.NewSession{
		GroupID:   req.GroupID,
		Mode:      req.Mode,
		StartedAt: req.StartedAt(),
		PlayerIDs: req.PlayerIDs,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleInitializeSession -> h.svc.InitializeSession"))
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

// HandleCheckCode godoc
// @Summary      Check a session code
// @Tags         sessions
// @Produce      json
// @Param        code  path      string  true  "Session code"
// @Success      200   {object}  response.CodeCheckResponse
// @Router       /sessions/code/{code} [get]
func (h *JassHandler) HandleCheckCode(ctx *gin.Context) {
	code := ctx.Param("code")

	exists, err := h.svc.CheckCode(ctx.Request.Context(), code)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleCheckCode -> h.svc.CheckCode"))
		return
	}

	ctx.JSON(http.StatusOK, response.CodeCheckResponse{
		Code:   code,
		Exists: exists,
	})
}

// HandleGetSession godoc
// @Summary      Get a session
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  domain.Session
// @Failure      404        {object}  response.Err
// @Router       /sessions/{sessionID} [get]
// @Security     BearerAuth
func (h *JassHandler) HandleGetSession(ctx *gin.Context) {
	sessionID, respErr := parseID(ctx, "sessionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	session, err := h.svc.GetSession(ctx.Request.Context(), sessionID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleGetSession -> h.svc.GetSession"))
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// HandleChangeStatus godoc
// @Summary      Change the status of a session
// @Description  PENDING -> ACTIVE -> COMPLETED or ABANDONED.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                           true  "Session ID"
// @Param        request    body      request.SessionStatusRequest  true  "request body"
// @Success      200        {object}  domain.Session
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Router       /sessions/{sessionID}/status [put]
// @Security     BearerAuth
func (h *JassHandler) HandleChangeStatus(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sessionID, respErr := parseID(ctx, "sessionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SessionStatusRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	session, err := h.svc.ChangeStatus(ctx.Request.Context(), caller, sessionID, domain.SessionStatus(req.Status))
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleChangeStatus -> h.svc.ChangeStatus"))
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// HandleCreateTeam godoc
// @Summary      Seat a team
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                        true  "Session ID"
// @Param        request    body      request.CreateTeamRequest  true  "request body"
// @Success      201        {object}  domain.Team
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Router       /sessions/{sessionID}/teams [post]
// @Security     BearerAuth
func (h *JassHandler) HandleCreateTeam(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sessionID, respErr := parseID(ctx, "sessionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTeamRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	team, err := h.svc.CreateTeam(ctx.Request.Context(), caller, sessionID, req.Name, req.Position, req.PlayerIDs)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleCreateTeam -> h.svc.CreateTeam"))
		return
	}

	ctx.JSON(http.StatusCreated, team)
}

// HandleStartMatch godoc
// @Summary      Start the next match of a session
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      201        {object}  domain.Match
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Router       /sessions/{sessionID}/matches [post]
// @Security     BearerAuth
func (h *JassHandler) HandleStartMatch(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sessionID, respErr := parseID(ctx, "sessionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	match, err := h.svc.StartMatch(ctx.Request.Context(), caller, sessionID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleStartMatch -> h.svc.StartMatch"))
		return
	}

	ctx.JSON(http.StatusCreated, match)
}

// HandleSessionStats godoc
// @Summary      Statistics of a session
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  domain.SessionStats
// @Failure      404        {object}  response.Err
// @Router       /sessions/{sessionID}/stats [get]
// @Security     BearerAuth
func (h *JassHandler) HandleSessionStats(ctx *gin.Context) {
	sessionID, respErr := parseID(ctx, "sessionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stats, err := h.svc.Stats(ctx.Request.Context(), sessionID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleSessionStats -> h.svc.Stats"))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
