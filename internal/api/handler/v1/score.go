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

type ScoreService interface {
	GetMatch(ctx context.Context, id uint) (domain.Match, error)
	DeleteMatch(ctx context.Context, caller domain.Player, id uint) error
	GetRound(ctx context.Context, id uint) (domain.Round, error)
	AddRound(ctx context.Context, caller domain.Player, matchID uint, in service.RoundInput) (domain.Round, domain.Match, error)
	UpdateRound(ctx context.Context, caller domain.Player, roundID uint, in service.RoundInput) (domain.Round, domain.Match, error)
	DeleteRound(ctx context.Context, caller domain.Player, roundID uint) (domain.Match, error)
	AddWeis(ctx context.Context, caller domain.Player, roundID uint, in service.WeisInput) (domain.Weis, domain.Match, error)
}

// ScoreHandler serves matches and rounds. Writes are limited to members of
// the group the match is played in.
type ScoreHandler struct {
	svc     ScoreService
	players PlayerLookup
}

func NewScoreHandler(svc ScoreService, players PlayerLookup) *ScoreHandler {
	return &ScoreHandler{
		svc:     svc,
		players: players,
	}
}

// HandleGetMatch godoc
// @Summary      Get a match with its rounds
// @Tags         matches
// @Produce      json
// @Param        matchID  path      int  true  "Match ID"
// @Success      200      {object}  domain.Match
// @Failure      404      {object}  response.Err
// @Router       /matches/{matchID} [get]
// @Security     BearerAuth
func (h *ScoreHandler) HandleGetMatch(ctx *gin.Context) {
	matchID, respErr := parseID(ctx, "matchID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	match, err := h.svc.GetMatch(ctx.Request.Context(), matchID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleGetMatch -> h.svc.GetMatch"))
		return
	}

	ctx.JSON(http.StatusOK, match)
}

// HandleDeleteMatch godoc
// @Summary      Delete a match and its rounds
// @Tags         matches
// @Param        matchID  path  int  true  "Match ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /matches/{matchID} [delete]
// @Security     BearerAuth
func (h *ScoreHandler) HandleDeleteMatch(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	matchID, respErr := parseID(ctx, "matchID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteMatch(ctx.Request.Context(), caller, matchID); err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleDeleteMatch -> h.svc.DeleteMatch"))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCreateRound godoc
// @Summary      Record a round
// @Description  Without a multiplier, the one configured for the farbe (and group) is used.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        matchID  path      int                   true  "Match ID"
// @Param        request  body      request.RoundRequest  true  "request body"
// @Success      201      {object}  response.RoundResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /matches/{matchID}/rounds [post]
// @Security     BearerAuth
func (h *ScoreHandler) HandleCreateRound(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	matchID, respErr := parseID(ctx, "matchID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RoundRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	round, match, err := h.svc.AddRound(ctx.Request.Context(), caller, matchID, roundInput(req))
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleCreateRound -> h.svc.AddRound"))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewRoundResponse(round, match))
}

// HandleGetRound godoc
// @Summary      Get a round
// @Tags         rounds
// @Produce      json
// @Param        roundID  path      int  true  "Round ID"
// @Success      200      {object}  domain.Round
// @Failure      404      {object}  response.Err
// @Router       /rounds/{roundID} [get]
// @Security     BearerAuth
func (h *ScoreHandler) HandleGetRound(ctx *gin.Context) {
	roundID, respErr := parseID(ctx, "roundID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	round, err := h.svc.GetRound(ctx.Request.Context(), roundID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleGetRound -> h.svc.GetRound"))
		return
	}

	ctx.JSON(http.StatusOK, round)
}

// HandleUpdateRound godoc
// @Summary      Correct a round
// @Description  Rewrites the farbe, trick points, multiplier and Stöck of a round.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        roundID  path      int                   true  "Round ID"
// @Param        request  body      request.RoundRequest  true  "request body"
// @Success      200      {object}  response.RoundResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /rounds/{roundID} [put]
// @Security     BearerAuth
func (h *ScoreHandler) HandleUpdateRound(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	roundID, respErr := parseID(ctx, "roundID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RoundRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	round, match, err := h.svc.UpdateRound(ctx.Request.Context(), caller, roundID, roundInput(req))
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleUpdateRound -> h.svc.UpdateRound"))
		return
	}

	ctx.JSON(http.StatusOK, response.NewRoundResponse(round, match))
}

// HandleDeleteRound godoc
// @Summary      Delete a round
// @Tags         rounds
// @Produce      json
// @Param        roundID  path      int  true  "Round ID"
// @Success      200      {object}  response.MatchScores
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /rounds/{roundID} [delete]
// @Security     BearerAuth
func (h *ScoreHandler) HandleDeleteRound(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	roundID, respErr := parseID(ctx, "roundID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	match, err := h.svc.DeleteRound(ctx.Request.Context(), caller, roundID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleDeleteRound -> h.svc.DeleteRound"))
		return
	}

	ctx.JSON(http.StatusOK, response.NewMatchScores(match))
}

// HandleAddWeis godoc
// @Summary      Announce a Weis
// @Description  Without punkte, the default value of the typ is used. Anzahl defaults to 1.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        roundID  path      int                  true  "Round ID"
// @Param        request  body      request.WeisRequest  true  "request body"
// @Success      201      {object}  response.WeisResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /rounds/{roundID}/weis [post]
// @Security     BearerAuth
func (h *ScoreHandler) HandleAddWeis(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	roundID, respErr := parseID(ctx, "roundID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.WeisRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	weis, match, err := h.svc.AddWeis(ctx.Request.Context(), caller, roundID, service.WeisInput{
		PlayerID: req.PlayerID,
		Typ:      domain.WeisTyp(req.Typ),
		Anzahl:   req.Anzahl,
		Punkte:   req.Punkte,
	})
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleAddWeis -> h.svc.AddWeis"))
		return
	}

	ctx.JSON(http.StatusCreated, response.WeisResponse{
		Weis:  weis,
		Spiel: response.NewMatchScores(match),
	})
}

func roundInput(req request.RoundRequest) service.RoundInput {
	return service.RoundInput{
		Farbe:              domain.Farbe(req.Farbe),
		Team1Score:         req.Team1Score,
		Team2Score:         req.Team2Score,
		Multiplier:         req.Multiplier,
		StoeckTeam1Player1: req.StoeckTeam1Player1,
		StoeckTeam1Player2: req.StoeckTeam1Player2,
		StoeckTeam2Player1: req.StoeckTeam2Player1,
		StoeckTeam2Player2: req.StoeckTeam2Player2,
	}
}
