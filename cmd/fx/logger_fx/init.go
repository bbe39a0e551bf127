package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"homematch/internal/config"
	"homematch/internal/infra"
)

var Module = fx.Provide(provideLogger)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, err := infra.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr sync fails on some platforms
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}
