package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/rpc"
	"github.com/tech-arch1tect/verifycode/server"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"github.com/tech-arch1tect/verifycode/services/verification"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const stopTimeout = 30 * time.Second

type App struct {
	fx        *fx.App
	config    *config.Config
	logger    *logging.Service
	server    *server.Server
	rpcServer *rpc.Server
	verifier  *verification.Service
}

func (a *App) Start(ctx context.Context) error {
	if err := a.fx.Start(ctx); err != nil {
		return err
	}

	fields := []zap.Field{zap.String("mode", a.config.App.Mode)}
	if a.server != nil {
		fields = append(fields, zap.String("http_addr", a.server.Addr().String()))
	}
	if a.rpcServer != nil {
		fields = append(fields, zap.String("grpc_addr", a.rpcServer.Addr()))
	}
	a.logger.Info("application started", fields...)

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if err := a.fx.Stop(ctx); err != nil {
		a.logger.Error("failed to stop application gracefully", zap.Error(err))
		return err
	}
	return nil
}

// Run starts the app and blocks until SIGINT or SIGTERM, then stops it.
func (a *App) Run() error {
	if err := a.Start(context.Background()); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	a.logger.Info("received shutdown signal, stopping gracefully", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	return a.Stop(ctx)
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

// Server is nil in verify mode.
func (a *App) Server() *server.Server {
	return a.server
}

// RPCServer is nil in gateway mode.
func (a *App) RPCServer() *rpc.Server {
	return a.rpcServer
}

// Verifier is nil in gateway mode.
func (a *App) Verifier() *verification.Service {
	return a.verifier
}
