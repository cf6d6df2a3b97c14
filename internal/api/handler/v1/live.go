package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jasstafel/jass-api/internal/api/handler/v1/response"
	"github.com/jasstafel/jass-api/internal/live"
)

var errHubStopped = errors.New("live updates are shutting down")

type LiveHandler struct {
	hub      *live.Hub
	scores   ScoreService
	upgrader websocket.Upgrader
}

func NewLiveHandler(hub *live.Hub, scores ScoreService, allowedOrigins []string) *LiveHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &LiveHandler{
		hub:    hub,
		scores: scores,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// HandleLive godoc
// @Summary      Live scores of a match
// @Description  Upgrades to a websocket. A snapshot of the match is sent first, then every change to it.
// @Tags         matches
// @Param        matchID       path   int     true   "Match ID"
// @Param        access_token  query  string  false  "bearer token, for clients that can't set headers"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      404  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /matches/{matchID}/live [get]
// @Security     BearerAuth
func (h *LiveHandler) HandleLive(ctx *gin.Context) {
	matchID, respErr := parseID(ctx, "matchID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	// The snapshot is read after subscribing, so every later change reaches
	// the client. A change made in between may show up in both.
	client := h.hub.Subscribe(matchID)
	if client == nil {
		response.RenderErr(ctx, response.ErrServiceUnavailable(errHubStopped))
		return
	}

	match, err := h.scores.GetMatch(ctx.Request.Context(), matchID)
	if err != nil {
		h.hub.Unsubscribe(client)
		response.RenderErr(ctx, toRespErr(err, "HandleLive -> h.scores.GetMatch"))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader already answered the request.
		h.hub.Unsubscribe(client)
		zap.L().Info("websocket upgrade failed", zap.Uint("spiel_id", matchID), zap.Error(err))
		return
	}

	if err = conn.WriteJSON(live.Update{Event: live.EventSnapshot, MatchID: matchID, Data: match}); err != nil {
		h.hub.Unsubscribe(client)
		conn.Close()
		return
	}

	live.Serve(h.hub, client, conn)
}
