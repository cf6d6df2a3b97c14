package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jasstafel/jass-api/internal/api"
	"github.com/jasstafel/jass-api/internal/config"
	"github.com/jasstafel/jass-api/internal/db"
	"github.com/jasstafel/jass-api/internal/live"
	"github.com/jasstafel/jass-api/internal/logger"
	"github.com/jasstafel/jass-api/internal/pkg/jwthelper"
	"github.com/jasstafel/jass-api/internal/pkg/mailer"
	"github.com/jasstafel/jass-api/internal/service"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	app := fx.New(
		fx.Provide(
			loadConfig,
			provideLogger,
			provideDB,
			provideMultipliers,
			live.NewHub,
			func(l *zap.Logger) mailer.Mailer { return mailer.NewLogMailer(l) },
			func(conf *config.AppConfig) service.InviteTokenIssuer {
				return jwthelper.NewInviteIssuer([]byte(conf.API.JWTSigningKey), conf.API.InviteTokenTTL)
			},
			provideServer,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l}
		}),
		fx.Invoke(runHub, runServer),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build the app -> %w", err)
	}

	app.Run()

	return nil
}

func loadConfig() (*config.AppConfig, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	return conf, nil
}

func provideLogger(conf *config.AppConfig) (*zap.Logger, error) {
	l, err := logger.Init(conf.API.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	return l, nil
}

func provideDB(lc fx.Lifecycle, conf *config.AppConfig) (*gorm.DB, error) {
	postgresDB, err := db.OpenPostgres(conf.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	lc.Append(fx.StopHook(func() error {
		return db.Close(postgresDB)
	}))

	return postgresDB, nil
}

// provideMultipliers seeds the registry from config and keeps it in step
// with edits to the config file.
func provideMultipliers(conf *config.AppConfig) *service.MultiplierRegistry {
	registry := service.NewMultiplierRegistry(conf.Scoring.Multipliers)
	conf.OnScoringChange(func(sc config.ScoringConfig) {
		registry.Replace(sc.Multipliers)
	})

	return registry
}

func provideServer(
	conf *config.AppConfig,
	postgresDB *gorm.DB,
	hub *live.Hub,
	m mailer.Mailer,
	invites service.InviteTokenIssuer,
	multipliers *service.MultiplierRegistry,
) *api.Server {
	return api.NewServer(conf, api.Deps{
		DB:          postgresDB,
		Hub:         hub,
		Mailer:      m,
		Invites:     invites,
		Multipliers: multipliers,
	})
}

func runHub(lc fx.Lifecycle, hub *live.Hub) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-hub.Done():
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func runServer(lc fx.Lifecycle, s *api.Server, shutdowner fx.Shutdowner) {
	srv := &http.Server{
		Addr:    ":" + s.Config.API.Port,
		Handler: s.Router,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					zap.L().Error("server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, s.Config.API.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("srv.Shutdown -> %w", err)
			}
			zap.L().Info("server stopped")

			return nil
		},
	})
}
