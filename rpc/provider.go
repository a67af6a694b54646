package rpc

import (
	"context"

	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/gateway"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ServerModule = fx.Options(
	fx.Provide(NewServer),
	fx.Invoke(func(lc fx.Lifecycle, srv *Server) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return srv.Start()
			},
			OnStop: func(ctx context.Context) error {
				return srv.Stop(ctx)
			},
		})
	}),
)

func ProvideClient(lc fx.Lifecycle, cfg *config.Config, logger *logging.Service) (*Client, error) {
	client, err := NewClient(cfg.GRPC.Target, cfg.GRPC.Timeout)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// the verify service may come up after the gateway, so only report
			if err := client.Check(ctx); err != nil {
				logger.Warn("verify service not reachable yet", zap.String("target", cfg.GRPC.Target), zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

// ClientModule serves the gateway from a remote verify service.
var ClientModule = fx.Options(
	fx.Provide(ProvideClient),
	fx.Provide(func(c *Client) gateway.Issuer { return c }),
)
