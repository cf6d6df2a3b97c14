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

type InviteService interface {
	InvitePlayer(ctx context.Context, inviter domain.Player, nickname, email string) (domain.Player, error)
	ConfirmInvite(ctx context.Context, token string) (service.InviteDetails, error)
	FinalizeInvite(ctx context.Context, token, subject string) (domain.Player, error)
}

type AuthHandler struct {
	svc     InviteService
	players PlayerLookup
}

func NewAuthHandler(svc InviteService, players PlayerLookup) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		players: players,
	}
}

// HandleInvite godoc
// @Summary      Invite a player
// @Description  Adds a guest player. With an email address, a confirmation link is sent.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.InvitePlayerRequest  true  "request body"
// @Success      201      {object}  domain.Player
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /auth/invite [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleInvite(ctx *gin.Context) {
	inviter, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.InvitePlayerRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	player, err := h.svc.InvitePlayer(ctx.Request.Context(), inviter, req.Nickname, req.Email)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleInvite -> h.svc.InvitePlayer"))
		return
	}

	ctx.JSON(http.StatusCreated, player)
}

// HandleConfirmInvite godoc
// @Summary      Decode an invite token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.InviteTokenRequest  true  "request body"
// @Success      200      {object}  service.InviteDetails
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /auth/confirm-invite [post]
func (h *AuthHandler) HandleConfirmInvite(ctx *gin.Context) {
	var req request.InviteTokenRequest
	if respErr := bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	details, err := h.svc.ConfirmInvite(ctx.Request.Context(), req.Token)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleConfirmInvite -> h.svc.ConfirmInvite"))
		return
	}

	ctx.JSON(http.StatusOK, details)
}

// HandleFinalizeInvite godoc
// @Summary      Accept an invite
// @Description  Binds the caller's account to the invited player.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.InviteTokenRequest  true  "request body"
// @Success      200      {object}  domain.Player
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /auth/finalize-invite [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleFinalizeInvite(ctx *gin.Context) {
	subject, respErr := getSubjectFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.InviteTokenRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	player, err := h.svc.FinalizeInvite(ctx.Request.Context(), req.Token, subject)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleFinalizeInvite -> h.svc.FinalizeInvite"))
		return
	}

	ctx.JSON(http.StatusOK, player)
}
