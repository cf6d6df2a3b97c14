package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the process logger for env and installs it as zap's global
// logger, so packages can log through zap.L().
func Init(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)

	switch env {
	case "prod", "production", "staging":
		l, err = zap.NewProduction()
	case "test":
		l = zap.NewNop()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger for %q -> %w", env, err)
	}

	zap.ReplaceGlobals(l)

	return l, nil
}
