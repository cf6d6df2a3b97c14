package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jasstafel/jass-api/internal/api/handler/v1/response"
	"github.com/jasstafel/jass-api/internal/api/middleware"
	"github.com/jasstafel/jass-api/internal/domain"
	"github.com/jasstafel/jass-api/internal/service"
)

var errNoPlayer = errors.New("no player is registered for this account yet")

type PlayerLookup interface {
	GetBySubject(ctx context.Context, subject string) (domain.Player, error)
}

var (
	notFoundErrs = []error{
		service.ErrPlayerNotFound,
		service.ErrGroupNotFound,
		service.ErrInviteNotFound,
		service.ErrSessionNotFound,
		service.ErrMatchNotFound,
		service.ErrRoundNotFound,
	}
	conflictErrs = []error{
		service.ErrNicknameExists,
		service.ErrSubjectExists,
		service.ErrPlayerInUse,
		service.ErrPlayerNotGuest,
		service.ErrAlreadyRegistered,
		service.ErrInviteAlreadyUsed,
		service.ErrPlayerAlreadyMember,
		service.ErrGroupHasSessions,
		service.ErrSessionCodeExists,
		service.ErrSessionStatusConflict,
		service.ErrInvalidStatusTransition,
		service.ErrSessionClosed,
		service.ErrTeamPositionTaken,
		service.ErrPlayerAlreadyInTeam,
		service.ErrMatchConflict,
	}
	forbiddenErrs = []error{
		service.ErrNotGroupAdmin,
		service.ErrNotGroupMember,
		service.ErrNotPlayerOwner,
		service.ErrPlayerRegistered,
	}
	badRequestErrs = []error{
		service.ErrInvalidMultiplier,
		service.ErrNegativeScore,
		service.ErrUnknownFarbe,
		service.ErrUnknownWeisTyp,
		service.ErrInvalidTeamPosition,
		service.ErrPlayerNotInSession,
		service.ErrAdminsRequired,
		service.ErrInvalidFarbeSetting,
		service.ErrSearchTermTooShort,
		service.ErrInvalidInviteToken,
		service.ErrInviteTokenExpired,
		service.ErrGroupInviteExpired,
	}
)

// toRespErr maps a service error onto its HTTP error. Errors the service
// does not name end up as 500s, annotated with where they surfaced.
func toRespErr(err error, where string) *response.Err {
	switch {
	case isAny(err, notFoundErrs):
		return response.ErrNotFoundCause(publicCause(err))
	case isAny(err, conflictErrs):
		return response.ErrConflict(publicCause(err))
	case isAny(err, forbiddenErrs):
		return response.ErrPermissionDenied(publicCause(err))
	case isAny(err, badRequestErrs):
		return response.ErrBadRequest(publicCause(err))
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", where, err))
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// publicCause drops the call chain ("s.repo.X -> r.dao.Y -> ") from err's
// message.
func publicCause(err error) error {
	msg := err.Error()
	if i := strings.LastIndex(msg, " -> "); i >= 0 {
		msg = msg[i+len(" -> "):]
	}

	return errors.New(msg)
}

func getSubjectFromContext(ctx *gin.Context) (string, *response.Err) {
	subject := ctx.GetString(middleware.SubjectKey)
	if subject == "" {
		return "", response.ErrUnauthorized(errors.New("missing token subject"))
	}

	return subject, nil
}

// getPlayerFromContext resolves the player bound to the token subject.
func getPlayerFromContext(ctx *gin.Context, players PlayerLookup) (domain.Player, *response.Err) {
	subject, respErr := getSubjectFromContext(ctx)
	if respErr != nil {
		return domain.Player{}, respErr
	}

	player, err := players.GetBySubject(ctx.Request.Context(), subject)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			return domain.Player{}, response.ErrPermissionDenied(errNoPlayer)
		}

		return domain.Player{}, response.ErrInternalServerError(fmt.Errorf("getPlayerFromContext -> players.GetBySubject -> %w", err))
	}

	return player, nil
}

func parseID(ctx *gin.Context, param string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", param, ctx.Param(param)))
	}

	return uint(id), nil
}

// bindAndValidate decodes the JSON body into req and runs its Validate.
func bindAndValidate(ctx *gin.Context, req interface{ Validate() error }) *response.Err {
	if err := ctx.ShouldBindJSON(req); err != nil {
		return response.ErrBadRequest(err)
	}
	if err := req.Validate(); err != nil {
		return response.ErrBadRequest(err)
	}

	return nil
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
