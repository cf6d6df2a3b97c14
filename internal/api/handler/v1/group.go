package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jasstafel/jass-api/internal/api/handler/v1/request"
	"github.com/jasstafel/jass-api/internal/api/handler/v1/response"
	"github.com/jasstafel/jass-api/internal/domain"
)

type GroupService interface {
	CreateGroup(ctx context.Context, creator domain.Player, name, description string) (domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
	GetGroup(ctx context.Context, id uint) (domain.Group, error)
	UpdateGroup(ctx context.Context, caller domain.Player, id uint, name, description string) (domain.Group, error)
	DeleteGroup(ctx context.Context, caller domain.Player, id uint) error
	ReplaceAdmins(ctx context.Context, caller domain.Player, id uint, adminIDs []uint) (domain.Group, error)
	ListPlayers(ctx context.Context, id uint) ([]domain.Player, error)
	AddPlayer(ctx context.Context, caller domain.Player, groupID, playerID uint) (domain.Group, error)
	CreateInvite(ctx context.Context, caller domain.Player, groupID uint) (string, domain.GroupInvite, error)
	JoinGroup(ctx context.Context, caller domain.Player, token string) (domain.Group, error)
	UpdateFarben(ctx context.Context, caller domain.Player, groupID uint, settings map[string]float64) (domain.Group, error)
	Leaderboard(ctx context.Context, groupID uint) ([]domain.LeaderboardEntry, error)
	Overview(ctx context.Context, groupID uint) (domain.GroupOverview, error)
}

type PlayerGroupsLookup interface {
	PlayerLookup
	GetPlayerGroups(ctx context.Context, identifier string) ([]domain.Group, error)
}

type GroupHandler struct {
	svc     GroupService
	players PlayerGroupsLookup
}

func NewGroupHandler(svc GroupService, players PlayerGroupsLookup) *GroupHandler {
	return &GroupHandler{
		svc:     svc,
		players: players,
	}
}

// HandleListGroups godoc
// @Summary      List groups
// @Tags         groups
// @Produce      json
// @Success      200  {array}   domain.Group
// @Router       /groups [get]
// @Security     BearerAuth
func (h *GroupHandler) HandleListGroups(ctx *gin.Context) {
	groups, err := h.svc.ListGroups(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleListGroups -> h.svc.ListGroups"))
		return
	}

	ctx.JSON(http.StatusOK, groups)
}

// HandleMyGroups godoc
// @Summary      Groups of the caller
// @Tags         groups
// @Produce      json
// @Success      200  {array}   domain.Group
// @Failure      403  {object}  response.Err
// @Router       /groups/mine [get]
// @Security     BearerAuth
func (h *GroupHandler) HandleMyGroups(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	groups, err := h.players.GetPlayerGroups(ctx.Request.Context(), strconv.FormatUint(uint64(caller.ID), 10))
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleMyGroups -> h.players.GetPlayerGroups"))
		return
	}

	ctx.JSON(http.StatusOK, groups)
}

// HandleCreateGroup godoc
// @Summary      Create a group
// @Description  The caller becomes its first member and admin.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request  body      request.GroupRequest  true  "request body"
// @Success      201      {object}  domain.Group
// @Failure      400      {object}  response.Err
// @Router       /groups [post]
// @Security     BearerAuth
func (h *GroupHandler) HandleCreateGroup(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.GroupRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	group, err := h.svc.CreateGroup(ctx.Request.Context(), caller, req.Name, req.Description)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleCreateGroup -> h.svc.CreateGroup"))
		return
	}

	ctx.JSON(http.StatusCreated, group)
}

// HandleGetGroup godoc
// @Summary      Get a group
// @Tags         groups
// @Produce      json
// @Param        groupID  path      int  true  "Group ID"
// @Success      200      {object}  domain.Group
// @Failure      404      {object}  response.Err
// @Router       /groups/{groupID} [get]
// @Security     BearerAuth
func (h *GroupHandler) HandleGetGroup(ctx *gin.Context) {
	groupID, respErr := parseID(ctx, "groupID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	group, err := h.svc.GetGroup(ctx.Request.Context(), groupID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleGetGroup -> h.svc.GetGroup"))
		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleUpdateGroup godoc
// @Summary      Rename a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID  path      int                   true  "Group ID"
// @Param        request  body      request.GroupRequest  true  "request body"
// @Success      200      {object}  domain.Group
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /groups/{groupID} [put]
// @Security     BearerAuth
func (h *GroupHandler) HandleUpdateGroup(ctx *gin.Context) {
	caller, groupID, respErr := h.callerAndGroup(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.GroupRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	group, err := h.svc.UpdateGroup(ctx.Request.Context(), caller, groupID, req.Name, req.Description)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleUpdateGroup -> h.svc.UpdateGroup"))
		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleDeleteGroup godoc
// @Summary      Delete a group
// @Description  Groups with sessions cannot be deleted.
// @Tags         groups
// @Param        groupID  path  int  true  "Group ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /groups/{groupID} [delete]
// @Security     BearerAuth
func (h *GroupHandler) HandleDeleteGroup(ctx *gin.Context) {
	caller, groupID, respErr := h.callerAndGroup(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteGroup(ctx.Request.Context(), caller, groupID); err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleDeleteGroup -> h.svc.DeleteGroup"))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleReplaceAdmins godoc
// @Summary      Replace the admins of a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID  path      int                           true  "Group ID"
// @Param        request  body      request.ReplaceAdminsRequest  true  "request body"
// @Success      200      {object}  domain.Group
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Router       /groups/{groupID}/admins [put]
// @Security     BearerAuth
func (h *GroupHandler) HandleReplaceAdmins(ctx *gin.Context) {
	caller, groupID, respErr := h.callerAndGroup(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ReplaceAdminsRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	group, err := h.svc.ReplaceAdmins(ctx.Request.Context(), caller, groupID, req.PlayerIDs)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleReplaceAdmins -> h.svc.ReplaceAdmins"))
		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleListGroupPlayers godoc
// @Summary      Members of a group
// @Tags         groups
// @Produce      json
// @Param        groupID  path      int  true  "Group ID"
// @Success      200      {array}   domain.Player
// @Failure      404      {object}  response.Err
// @Router       /groups/{groupID}/players [get]
// @Security     BearerAuth
func (h *GroupHandler) HandleListGroupPlayers(ctx *gin.Context) {
	groupID, respErr := parseID(ctx, "groupID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	players, err := h.svc.ListPlayers(ctx.Request.Context(), groupID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleListGroupPlayers -> h.svc.ListPlayers"))
		return
	}

	ctx.JSON(http.StatusOK, players)
}

// HandleAddGroupPlayer godoc
// @Summary      Add a player to a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID  path      int                            true  "Group ID"
// @Param        request  body      request.AddGroupPlayerRequest  true  "request body"
// @Success      200      {object}  domain.Group
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /groups/{groupID}/players [post]
// @Security     BearerAuth
func (h *GroupHandler) HandleAddGroupPlayer(ctx *gin.Context) {
	caller, groupID, respErr := h.callerAndGroup(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddGroupPlayerRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	group, err := h.svc.AddPlayer(ctx.Request.Context(), caller, groupID, req.PlayerID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleAddGroupPlayer -> h.svc.AddPlayer"))
		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleCreateInvite godoc
// @Summary      Create a join link
// @Tags         groups
// @Produce      json
// @Param        groupID  path      int  true  "Group ID"
// @Success      201      {object}  response.GroupInviteResponse
// @Failure      403      {object}  response.Err
// @Router       /groups/{groupID}/invites [post]
// @Security     BearerAuth
func (h *GroupHandler) HandleCreateInvite(ctx *gin.Context) {
	caller, groupID, respErr := h.callerAndGroup(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	token, invite, err := h.svc.CreateInvite(ctx.Request.Context(), caller, groupID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleCreateInvite -> h.svc.CreateInvite"))
		return
	}

	ctx.JSON(http.StatusCreated, response.GroupInviteResponse{
		GroupID:   invite.GroupID,
		Token:     token,
		ExpiresAt: invite.ExpiresAt,
	})
}

// HandleJoinGroup godoc
// @Summary      Join a group with an invite token
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request  body      request.JoinGroupRequest  true  "request body"
// @Success      200      {object}  domain.Group
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /groups/join [post]
// @Security     BearerAuth
func (h *GroupHandler) HandleJoinGroup(ctx *gin.Context) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.JoinGroupRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	group, err := h.svc.JoinGroup(ctx.Request.Context(), caller, req.Token)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleJoinGroup -> h.svc.JoinGroup"))
		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleUpdateFarben godoc
// @Summary      Set the multiplier overrides of a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID  path      int                    true  "Group ID"
// @Param        request  body      request.FarbenRequest  true  "request body"
// @Success      200      {object}  domain.Group
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Router       /groups/{groupID}/farben [put]
// @Security     BearerAuth
func (h *GroupHandler) HandleUpdateFarben(ctx *gin.Context) {
	caller, groupID, respErr := h.callerAndGroup(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.FarbenRequest
	if respErr = bindAndValidate(ctx, &req); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	group, err := h.svc.UpdateFarben(ctx.Request.Context(), caller, groupID, req.Farben)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleUpdateFarben -> h.svc.UpdateFarben"))
		return
	}

	ctx.JSON(http.StatusOK, group)
}

// HandleLeaderboard godoc
// @Summary      Leaderboard of a group
// @Tags         groups
// @Produce      json
// @Param        groupID  path      int  true  "Group ID"
// @Success      200      {array}   domain.LeaderboardEntry
// @Failure      404      {object}  response.Err
// @Router       /groups/{groupID}/leaderboard [get]
// @Security     BearerAuth
func (h *GroupHandler) HandleLeaderboard(ctx *gin.Context) {
	groupID, respErr := parseID(ctx, "groupID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	board, err := h.svc.Leaderboard(ctx.Request.Context(), groupID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleLeaderboard -> h.svc.Leaderboard"))
		return
	}

	ctx.JSON(http.StatusOK, board)
}

// HandleOverview godoc
// @Summary      Group overview
// @Description  The group with head counts and its leaderboard.
// @Tags         groups
// @Produce      json
// @Param        groupID  path      int  true  "Group ID"
// @Success      200      {object}  domain.GroupOverview
// @Failure      404      {object}  response.Err
// @Router       /groups/{groupID}/overview [get]
// @Security     BearerAuth
func (h *GroupHandler) HandleOverview(ctx *gin.Context) {
	groupID, respErr := parseID(ctx, "groupID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	overview, err := h.svc.Overview(ctx.Request.Context(), groupID)
	if err != nil {
		response.RenderErr(ctx, toRespErr(err, "HandleOverview -> h.svc.Overview"))
		return
	}

	ctx.JSON(http.StatusOK, overview)
}

func (h *GroupHandler) callerAndGroup(ctx *gin.Context) (domain.Player, uint, *response.Err) {
	caller, respErr := getPlayerFromContext(ctx, h.players)
	if respErr != nil {
		return domain.Player{}, 0, respErr
	}

	groupID, respErr := parseID(ctx, "groupID")
	if respErr != nil {
		return domain.Player{}, 0, respErr
	}

	return caller, groupID, nil
}
