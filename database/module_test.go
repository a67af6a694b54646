package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/verifycode/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"gorm.io/gorm"
)

func TestModule(t *testing.T) {
	t.Run("module is properly defined", func(t *testing.T) {
		assert.NotNil(t, Module)
	})

	t.Run("provides a database without models", func(t *testing.T) {
		var db *gorm.DB
		app := fxtest.New(t,
			Module,
			fx.Provide(func() *config.Config {
				cfg := createTestConfig("sqlite", ":memory:", false)
				return &cfg
			}),
			fx.Provide(newTestLogger),
			fx.Populate(&db),
		)
		defer app.RequireStart().RequireStop()

		require.NotNil(t, db)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.NoError(t, sqlDB.Ping())
	})

	t.Run("migrates supplied models", func(t *testing.T) {
		var db *gorm.DB
		app := fxtest.New(t,
			Module,
			fx.Provide(func() *config.Config {
				cfg := createTestConfig("sqlite", ":memory:", true)
				return &cfg
			}),
			fx.Provide(newTestLogger),
			fx.Supply(WithModels(&TestModel{})),
			fx.Populate(&db),
		)
		defer app.RequireStart().RequireStop()

		assert.True(t, db.Migrator().HasTable(&TestModel{}))
	})
}

func TestProvideDatabaseFx(t *testing.T) {
	t.Run("error case", func(t *testing.T) {
		cfg := createTestConfig("unsupported", "test", false)

		db, err := ProvideDatabaseFx(DatabaseParams{Config: &cfg, Logger: newTestLogger()})

		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("without lifecycle or logger", func(t *testing.T) {
		cfg := createTestConfig("sqlite", ":memory:", false)

		db, err := ProvideDatabaseFx(DatabaseParams{Config: &cfg})

		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		defer sqlDB.Close()
		assert.NoError(t, sqlDB.Ping())
	})
}
