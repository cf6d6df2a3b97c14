package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jasstafel/jass-api/internal/api/handler/v1/request"
	"github.com/jasstafel/jass-api/internal/api/handler/v1/response"
	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/service"
)

type PlayerService interface {
	PlayerLookup
	CreateGuest(ctx context.Context, nickname string, invitedBy uint) (domain.Player, error)
	GetPlayer(ctx context.Context, identifier string) (domain.Player, error)
	ListPlayers(ctx context.Context) ([]domain.Player, error)
	SearchPlayers(ctx context.Context, term string, limit int) ([]domain.Player, error)
	UpdateNickname(ctx context.Context, caller domain.Player, identifier, nickname string) (domain.Player, error)
	DeletePlayer(ctx context.Context, caller domain.Player, identifier string) error
	GetPlayerGroups(ctx context.Context, identifier string) ([]domain.Group, error)
	ConvertGuest(ctx context.Context, identifier, subject, email string) (domain.Player, error)
	RegisterJassname(ctx context.Context, subject, nickname, email string) (domain.Player, error)
}

type PlayerHandler struct {
	svc PlayerService
}

func NewPlayerHandler(svc PlayerService) *PlayerHandler {
	return &PlayerHandler{
		svc: svc,
	}
}

// HandleListPlayers godoc
// @Summary      List players
// @Tags         players
// @Produce      json
// @Success      200  {array}   domain.Player
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /players [get]
// @Security     BearerAuth
func (h *PlayerHandler) HandleListPlayers(ctx *gin.Context) {
	players, err := h.svc.ListPlayers(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleListPlayers -> h.svc.ListPlayers"))
		return
	}

	ctx.JSON(http.StatusOK, players)
}

// HandleCreateGuest godoc
// @Summary      Add a guest player
// @Description  Creates a player without an account, invited by the caller.
// @Tags         players
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreatePlayerRequest  true  "request body"
// @Success      201      {object}  domain.Player
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /players [post]
// @Security     BearerAuth
func (h *PlayerHandler) HandleCreateGuest(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePlayerRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	player, err := h.svc.CreateGuest(ctx.Request.Context(), req.Nickname, caller.ID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleCreateGuest -> h.svc.CreateGuest"))
		return
	}

	ctx.JSON(http.StatusCreated, player)
}

// HandleSearchPlayers godoc
// @Summary      Search players by nickname
// @Tags         players
// @Produce      json
// @Param        q      query     string  true   "part of the nickname"
// @Param        limit  query     int     false  "max results"
// @Success      200    {array}   domain.Player
// @Failure      400    {object}  response.Err
// @Router       /players/search [get]
// @Security     BearerAuth
func (h *PlayerHandler) HandleSearchPlayers(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	players, err := h.svc.SearchPlayers(ctx.Request.Context(), ctx.Query("q"), limit)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleSearchPlayers -> h.svc.SearchPlayers"))
		return
	}

	ctx.JSON(http.StatusOK, players)
}

// HandleGetPlayer godoc
// @Summary      Get a player
// @Description  Looks a player up by ID, account subject or nickname.
// @Tags         players
// @Produce      json
// @Param        identifier  path      string  true  "ID, subject or nickname"
// @Success      200         {object}  domain.Player
// @Failure      404         {object}  response.Err
// @Router       /players/{identifier} [get]
// @Security     BearerAuth
func (h *PlayerHandler) HandleGetPlayer(ctx *gin.Context) {
	identifier := ctx.Param("identifier")

	player, err := h.svc.GetPlayer(ctx.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("player", "identifier", identifier))
			return
		}

		response.RenderErr(ctx, toRespErr(err, "HandleGetPlayer -> h.svc.GetPlayer"))
		return
	}

	ctx.JSON(http.StatusOK, player)
}

// HandleUpdatePlayer godoc
// @Summary      Change a nickname
// @Tags         players
// @Accept       json
// @Produce      json
// @Param        identifier  path      string                       true  "ID, subject or nickname"
// @Param        request     body      request.UpdatePlayerRequest  true  "request body"
// @Success      200         {object}  domain.Player
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Router       /players/{identifier} [put]
// @Security     BearerAuth
func (h *PlayerHandler) HandleUpdatePlayer(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdatePlayerRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	player, err := h.svc.UpdateNickname(ctx.Request.Context(), caller, ctx.Param("identifier"), req.Nickname)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleUpdatePlayer -> h.svc.UpdateNickname"))
		return
	}

	ctx.JSON(http.StatusOK, player)
}

// HandleDeletePlayer godoc
// @Summary      Delete a guest player
// @Tags         players
// @Param        identifier  path  string  true  "ID, subject or nickname"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /players/{identifier} [delete]
// @Security     BearerAuth
func (h *PlayerHandler) HandleDeletePlayer(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeletePlayer(ctx.Request.Context(), caller, ctx.Param("identifier")); err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleDeletePlayer -> h.svc.DeletePlayer"))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetPlayerGroups godoc
// @Summary      Groups of a player
// @Tags         players
// @Produce      json
// @Param        identifier  path      string  true  "ID, subject or nickname"
// @Success      200         {array}   domain.Group
// @Failure      404         {object}  response.Err
// @Router       /players/{identifier}/groups [get]
// @Security     BearerAuth
func (h *PlayerHandler) HandleGetPlayerGroups(ctx *gin.Context) {
	groups, err := h.svc.GetPlayerGroups(ctx.Request.Context(), ctx.Param("identifier"))
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleGetPlayerGroups -> h.svc.GetPlayerGroups"))
		return
	}

	ctx.JSON(http.StatusOK, groups)
}

// HandleConvertGuest godoc
// @Summary      Claim a guest player
// @Description  Binds the caller's account to a guest player.
// @Tags         players
// @Accept       json
// @Produce      json
// @Param        identifier  path      string                       true  "ID, subject or nickname"
// @Param        request     body      request.ConvertGuestRequest  true  "request body"
// @Success      200         {object}  domain.Player
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Router       /players/{identifier}/convert [post]
// @Security     BearerAuth
func (h *PlayerHandler) HandleConvertGuest(ctx *gin.Context) {
	subject, respErr := getSubjectFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ConvertGuestRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	player, err := h.svc.ConvertGuest(ctx.Request.Context(), ctx.Param("identifier"), subject, req.Email)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleConvertGuest -> h.svc.ConvertGuest"))
		return
	}

	ctx.JSON(http.StatusOK, player)
}

// HandleMe godoc
// @Summary      The caller's player
// @Tags         players
// @Produce      json
// @Success      200  {object}  domain.Player
// @Failure      404  {object}  response.Err
// @Router       /me [get]
// @Security     BearerAuth
func (h *PlayerHandler) HandleMe(ctx *gin.Context) {
	subject, respErr := getSubjectFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	player, err := h.svc.GetBySubject(ctx.Request.Context(), subject)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleMe -> h.svc.GetBySubject"))
		return
	}

	ctx.JSON(http.StatusOK, player)
}

// HandleRegister godoc
// @Summary      Register a jassname
// @Description  Creates the player for the caller's account.
// @Tags         players
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterRequest  true  "request body"
// @Success      201      {object}  domain.Player
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /me/register [post]
// @Security     BearerAuth
func (h *PlayerHandler) HandleRegister(ctx *gin.Context) {
	subject, respErr := getSubjectFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	player, err := h.svc.RegisterJassname(ctx.Request.Context(), subject, req.Nickname, req.Email)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleRegister -> h.svc.RegisterJassname"))
		return
	}

	ctx.JSON(http.StatusCreated, player)
}
