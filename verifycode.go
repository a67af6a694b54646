// Package verifycode issues short-lived email verification codes. It runs as
// a gRPC verify service, an HTTP gateway in front of one, or both at once.
package verifycode

import (
	"github.com/tech-arch1tect/verifycode/app"
	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/internal/options"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"go.uber.org/fx"
)

type App = app.App

// New builds an app. Without WithConfig the config is read from the
// environment and an optional .env file.
func New(opts ...options.Option) (*App, error) {
	o := options.Apply(opts...)

	builder := app.NewApp()
	if o.Config != nil {
		builder.WithConfig(o.Config)
	}
	if o.Mode != "" {
		builder.WithMode(o.Mode)
	}
	if o.Logger != nil {
		builder.WithLogger(o.Logger)
	}

	return builder.WithFxOptions(o.ExtraFxOptions...).Build()
}

func WithConfig(cfg *config.Config) options.Option {
	return options.WithConfig(cfg)
}

func WithMode(mode string) options.Option {
	return options.WithMode(mode)
}

func WithLogger(logger *logging.Service) options.Option {
	return options.WithLogger(logger)
}

func WithFxOptions(opts ...fx.Option) options.Option {
	return options.WithFxOptions(opts...)
}
