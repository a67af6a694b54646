package options

import (
	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"go.uber.org/fx"
)

type Options struct {
	Config         *config.Config
	Mode           string
	Logger         *logging.Service
	ExtraFxOptions []fx.Option
}

type Option func(*Options)

func Apply(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func WithConfig(cfg *config.Config) Option {
	return func(opts *Options) {
		opts.Config = cfg
	}
}

func WithMode(mode string) Option {
	return func(opts *Options) {
		opts.Mode = mode
	}
}

func WithLogger(logger *logging.Service) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithFxOptions(fxOpts ...fx.Option) Option {
	return func(opts *Options) {
		opts.ExtraFxOptions = append(opts.ExtraFxOptions, fxOpts...)
	}
}
