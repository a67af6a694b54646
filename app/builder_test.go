package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/services/codestore"
	"github.com/tech-arch1tect/verifycode/testutils"
	"go.uber.org/fx"
)

func TestNewApp(t *testing.T) {
	builder := NewApp()

	assert.NotNil(t, builder)
	assert.Nil(t, builder.config)
	assert.Nil(t, builder.logger)
	assert.Empty(t, builder.mode)
	assert.Empty(t, builder.fxOptions)
	assert.Empty(t, builder.errors)
}

func TestAppBuilder_WithConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		builder := NewApp()

		result := builder.WithConfig(cfg)

		assert.Equal(t, builder, result)
		assert.Equal(t, cfg, builder.config)
	})

	t.Run("nil config", func(t *testing.T) {
		builder := NewApp()

		builder.WithConfig(nil)

		assert.Nil(t, builder.config)
		require.Len(t, builder.errors, 1)
		assert.Contains(t, builder.errors[0].Error(), "config cannot be nil")
	})
}

func TestAppBuilder_WithLogger(t *testing.T) {
	t.Run("valid logger", func(t *testing.T) {
		logger, _ := newObservedLogger()
		builder := NewApp().WithLogger(logger)

		assert.Equal(t, logger, builder.logger)
	})

	t.Run("nil logger", func(t *testing.T) {
		builder := NewApp().WithLogger(nil)

		require.Len(t, builder.errors, 1)
		assert.Contains(t, builder.errors[0].Error(), "logger cannot be nil")
	})
}

func TestAppBuilder_WithFxOptions(t *testing.T) {
	builder := NewApp()
	opt := fx.Options()

	builder.WithFxOptions(opt, opt)

	assert.Len(t, builder.fxOptions, 2)
}

func TestAppBuilder_Build(t *testing.T) {
	t.Run("accumulated errors fail the build", func(t *testing.T) {
		app, err := NewApp().WithConfig(nil).Build()

		require.Error(t, err)
		assert.Nil(t, app)
		assert.Contains(t, err.Error(), "configuration errors")
	})

	t.Run("mode override is validated", func(t *testing.T) {
		app, err := NewApp().WithConfig(testutils.GetTestConfig()).WithMode("sidecar").Build()

		require.Error(t, err)
		assert.Nil(t, app)
		assert.Contains(t, err.Error(), "unsupported app mode")
	})

	t.Run("mode override is applied", func(t *testing.T) {
		logger, _ := newObservedLogger()
		app, err := NewApp().
			WithConfig(testutils.GetTestConfig()).
			WithLogger(logger).
			WithMode(config.ModeVerify).
			Build()

		require.NoError(t, err)
		assert.Equal(t, config.ModeVerify, app.Config().App.Mode)
	})

	t.Run("logger is built from config when not given", func(t *testing.T) {
		app, err := NewApp().WithConfig(testutils.GetTestConfig()).Build()

		require.NoError(t, err)
		assert.NotNil(t, app.Logger())
	})

	t.Run("extra fx options reach the container", func(t *testing.T) {
		logger, _ := newObservedLogger()
		var store codestore.Store

		_, err := NewApp().
			WithConfig(testutils.GetTestConfig()).
			WithLogger(logger).
			WithFxOptions(fx.Populate(&store)).
			Build()

		require.NoError(t, err)
		assert.IsType(t, &codestore.MemoryStore{}, store)
	})

	t.Run("each store backend wires", func(t *testing.T) {
		mr, _ := testutils.SetupTestRedis(t)

		tests := []struct {
			store string
			want  codestore.Store
		}{
			{config.StoreMemory, &codestore.MemoryStore{}},
			{config.StoreRedis, &codestore.RedisStore{}},
			{config.StoreSQL, &codestore.SQLStore{}},
		}

		for _, tt := range tests {
			t.Run(tt.store, func(t *testing.T) {
				cfg := testutils.GetTestConfig()
				cfg.Verification.Store = tt.store
				cfg.Redis.Addrs = []string{mr.Addr()}
				logger, _ := newObservedLogger()
				var store codestore.Store

				_, err := NewApp().
					WithConfig(cfg).
					WithLogger(logger).
					WithFxOptions(fx.Populate(&store)).
					Build()

				require.NoError(t, err)
				assert.IsType(t, tt.want, store)
			})
		}
	})

	t.Run("unreachable redis fails start, not build", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.Verification.Store = config.StoreRedis
		cfg.Redis.Addrs = []string{"127.0.0.1:1"}
		logger, _ := newObservedLogger()

		app, err := NewApp().WithConfig(cfg).WithLogger(logger).Build()
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.Error(t, app.Start(ctx))
	})
}

func TestModeHelpers(t *testing.T) {
	assert.True(t, servesVerify(config.ModeAll))
	assert.True(t, servesVerify(config.ModeVerify))
	assert.False(t, servesVerify(config.ModeGateway))

	assert.True(t, servesGateway(config.ModeAll))
	assert.True(t, servesGateway(config.ModeGateway))
	assert.False(t, servesGateway(config.ModeVerify))
}
