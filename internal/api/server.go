package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/jasstafel/jass-api/docs"
	v1 "github.com/jasstafel/jass-api/internal/api/handler/v1"
	"github.com/jasstafel/jass-api/internal/api/middleware"
	"github.com/jasstafel/jass-api/internal/config"
	"github.com/jasstafel/jass-api/internal/live"
	"github.com/jasstafel/jass-api/internal/pkg/mailer"
	"github.com/jasstafel/jass-api/internal/repository"
	"github.com/jasstafel/jass-api/internal/repository/dao"
	"github.com/jasstafel/jass-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// Deps are the long-lived collaborators the handlers share.
type Deps struct {
	DB          *gorm.DB
	Hub         *live.Hub
	Mailer      mailer.Mailer
	Invites     service.InviteTokenIssuer
	Multipliers *service.MultiplierRegistry
}

type handlers struct {
	auth   *v1.AuthHandler
	player *v1.PlayerHandler
	group  *v1.GroupHandler
	jass   *v1.JassHandler
	score  *v1.ScoreHandler
	live   *v1.LiveHandler
}

func NewServer(conf *config.AppConfig, deps Deps) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(deps))

	return s
}

func (s *Server) initHandlers(deps Deps) handlers {
	playerRepo := repository.NewPlayerRepository(dao.NewPlayerDAO(deps.DB))
	groupRepo := repository.NewGroupRepository(dao.NewGroupDAO(deps.DB))
	jassRepo := repository.NewJassRepository(dao.NewJassDAO(deps.DB))
	spielRepo := repository.NewSpielRepository(dao.NewSpielDAO(deps.DB))

	playerSvc := service.NewPlayerService(playerRepo)
	inviteSvc := service.NewInviteService(playerRepo, deps.Invites, deps.Mailer, s.Config.Mail)
	groupSvc := service.NewGroupService(groupRepo, jassRepo, s.Config.API.GroupInviteTTL)
	jassSvc := service.NewJassService(jassRepo, groupRepo, spielRepo)
	scoreSvc := service.NewScoreService(spielRepo, jassRepo, groupRepo, deps.Multipliers, deps.Hub)

	return handlers{
		auth:   v1.NewAuthHandler(inviteSvc, playerSvc),
		player: v1.NewPlayerHandler(playerSvc),
		group:  v1.NewGroupHandler(groupSvc, playerSvc),
		jass:   v1.NewJassHandler(jassSvc, playerSvc),
		score:  v1.NewScoreHandler(scoreSvc, playerSvc),
		live:   v1.NewLiveHandler(deps.Hub, scoreSvc, s.Config.API.AllowedCORSDomains),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/confirm-invite", h.auth.HandleConfirmInvite)
		public.GET("/sessions/code/:code", h.jass.HandleCheckCode)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.POST("/auth/invite", h.auth.HandleInvite)
		authed.POST("/auth/finalize-invite", h.auth.HandleFinalizeInvite)

		authed.GET("/me", h.player.HandleMe)
		authed.POST("/me/register", h.player.HandleRegister)

		authed.GET("/players", h.player.HandleListPlayers)
		authed.POST("/players", h.player.HandleCreateGuest)
		authed.GET("/players/search", h.player.HandleSearchPlayers)
		authed.GET("/players/:identifier", h.player.HandleGetPlayer)
		authed.PUT("/players/:identifier", h.player.HandleUpdatePlayer)
		authed.DELETE("/players/:identifier", h.player.HandleDeletePlayer)
		authed.GET("/players/:identifier/groups", h.player.HandleGetPlayerGroups)
		authed.POST("/players/:identifier/convert", h.player.HandleConvertGuest)

		authed.GET("/groups", h.group.HandleListGroups)
		authed.POST("/groups", h.group.HandleCreateGroup)
		authed.GET("/groups/mine", h.group.HandleMyGroups)
		authed.POST("/groups/join", h.group.HandleJoinGroup)
		authed.GET("/groups/:groupID", h.group.HandleGetGroup)
		authed.PUT("/groups/:groupID", h.group.HandleUpdateGroup)
		authed.DELETE("/groups/:groupID", h.group.HandleDeleteGroup)
		authed.PUT("/groups/:groupID/admins", h.group.HandleReplaceAdmins)
		authed.GET("/groups/:groupID/players", h.group.HandleListGroupPlayers)
		authed.POST("/groups/:groupID/players", h.group.HandleAddGroupPlayer)
		authed.POST("/groups/:groupID/invites", h.group.HandleCreateInvite)
		authed.GET("/groups/:groupID/leaderboard", h.group.HandleLeaderboard)
		authed.GET("/groups/:groupID/overview", h.group.HandleOverview)
		authed.PUT("/groups/:groupID/farben", h.group.HandleUpdateFarben)

		authed.POST("/sessions", h.jass.HandleInitializeSession)
		authed.GET("/sessions/:sessionID", h.jass.HandleGetSession)
		authed.PUT("/sessions/:sessionID/status", h.jass.HandleChangeStatus)
		authed.POST("/sessions/:sessionID/teams", h.jass.HandleCreateTeam)
		authed.POST("/sessions/:sessionID/matches", h.jass.HandleStartMatch)
		authed.GET("/sessions/:sessionID/stats", h.jass.HandleSessionStats)

		authed.GET("/matches/:matchID", h.score.HandleGetMatch)
		authed.DELETE("/matches/:matchID", h.score.HandleDeleteMatch)
		authed.POST("/matches/:matchID/rounds", h.score.HandleCreateRound)
		authed.GET("/matches/:matchID/live", h.live.HandleLive)

		authed.GET("/rounds/:roundID", h.score.HandleGetRound)
		authed.PUT("/rounds/:roundID", h.score.HandleUpdateRound)
		authed.DELETE("/rounds/:roundID", h.score.HandleDeleteRound)
		authed.POST("/rounds/:roundID/weis", h.score.HandleAddWeis)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Jasstafel API"
	docs.SwaggerInfo.Description = "Scorekeeping for Jass sessions, matches and rounds."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
