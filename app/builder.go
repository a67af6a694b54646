package app

import (
	"fmt"

	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/database"
	"github.com/tech-arch1tect/verifycode/gateway"
	"github.com/tech-arch1tect/verifycode/rpc"
	"github.com/tech-arch1tect/verifycode/server"
	"github.com/tech-arch1tect/verifycode/services/codestore"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"github.com/tech-arch1tect/verifycode/services/mail"
	"github.com/tech-arch1tect/verifycode/services/verification"
	"github.com/tech-arch1tect/verifycode/telemetry"
	"go.uber.org/fx"
)

type AppBuilder struct {
	config    *config.Config
	logger    *logging.Service
	mode      string
	fxOptions []fx.Option
	errors    []error
}

func NewApp() *AppBuilder {
	return &AppBuilder{
		fxOptions: make([]fx.Option, 0),
		errors:    make([]error, 0),
	}
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.addError("config cannot be nil")
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.addError(fmt.Sprintf("failed to load config: %v", err))
		return b
	}
	b.config = cfg
	return b
}

// WithMode overrides APP_MODE.
func (b *AppBuilder) WithMode(mode string) *AppBuilder {
	b.mode = mode
	return b
}

// WithLogger replaces the logger built from the config.
func (b *AppBuilder) WithLogger(logger *logging.Service) *AppBuilder {
	if logger == nil {
		b.addError("logger cannot be nil")
		return b
	}
	b.logger = logger
	return b
}

func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) Build() (*App, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	if b.config == nil {
		if err := b.WithAutoConfig().validate(); err != nil {
			return nil, err
		}
	}

	if b.mode != "" {
		b.config.App.Mode = b.mode
	}
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := b.logger
	if logger == nil {
		var err error
		logger, err = b.createLogger()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	app := &App{
		config: b.config,
		logger: logger,
	}

	app.fx = fx.New(b.buildFxOptions(app, logger)...)
	if err := app.fx.Err(); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}

	return app, nil
}

func (b *AppBuilder) addError(msg string) {
	b.errors = append(b.errors, fmt.Errorf("%s", msg))
}

func (b *AppBuilder) validate() error {
	if len(b.errors) > 0 {
		return fmt.Errorf("configuration errors: %v", b.errors)
	}
	return nil
}

func (b *AppBuilder) createLogger() (*logging.Service, error) {
	if b.config == nil {
		return nil, fmt.Errorf("config required for logger creation")
	}
	return logging.NewLoggingService(b.config)
}

func servesVerify(mode string) bool {
	return mode == config.ModeAll || mode == config.ModeVerify
}

func servesGateway(mode string) bool {
	return mode == config.ModeAll || mode == config.ModeGateway
}

func (b *AppBuilder) buildFxOptions(app *App, logger *logging.Service) []fx.Option {
	mode := b.config.App.Mode

	options := []fx.Option{
		config.NewProvider(b.config),
		fx.Supply(logger),
		fx.NopLogger,
		fx.Invoke(logging.RegisterSync),
		telemetry.Module,
	}

	if servesVerify(mode) {
		options = append(options, b.storeOptions()...)
		options = append(options,
			mail.Module,
			verification.Module,
			rpc.ServerModule,
			fx.Populate(&app.verifier, &app.rpcServer),
		)
	}

	if servesGateway(mode) {
		options = append(options,
			server.NewProvider(),
			gateway.Module,
			fx.Populate(&app.server),
		)
		if mode == config.ModeAll {
			options = append(options, gateway.LocalModule)
		} else {
			options = append(options, rpc.ClientModule)
		}
	}

	return append(options, b.fxOptions...)
}

func (b *AppBuilder) storeOptions() []fx.Option {
	var options []fx.Option

	switch b.config.Verification.Store {
	case config.StoreRedis:
		options = append(options, codestore.RedisModule)
	case config.StoreSQL:
		options = append(options,
			fx.Supply(database.WithModels(&codestore.StoredCode{})),
			database.Module,
		)
	}

	return append(options, codestore.Module)
}
