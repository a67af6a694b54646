package logging

import (
	"context"

	"github.com/tech-arch1tect/verifycode/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(NewLoggingService),
	fx.Invoke(RegisterSync),
)

func NewLoggingService(cfg *config.Config) (*Service, error) {
	loggingConfig := Config{
		Level:      LogLevel(cfg.Log.Level),
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Output,
	}

	svc, err := NewService(loggingConfig)
	if err != nil {
		return nil, err
	}
	return svc.With(appFields(cfg)...), nil
}

func appFields(cfg *config.Config) []zap.Field {
	return []zap.Field{
		zap.String("app", cfg.App.Name),
		zap.String("mode", cfg.App.Mode),
		zap.String("version", cfg.App.Version),
	}
}

// RegisterSync flushes buffered log entries when the app stops.
func RegisterSync(lc fx.Lifecycle, logger *Service) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stdout sync fails with EINVAL on most platforms
			_ = logger.Sync()
			return nil
		},
	})
}
