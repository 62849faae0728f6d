package app_test

import (
	"path/filepath"
	"testing"

	"kasir/internal/app"
	"kasir/internal/config"
	"kasir/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("STORAGE_DRIVER", driver)
	v.Set("DATA_PATH", filepath.Join(dir, "kasir.db"))
	v.Set("SQLITE_DSN", filepath.Join(dir, "kasir.sqlite"))
	v.Set("PASSWORD_MODE", "plain")
	v.Set("LOCATION", "UTC")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestApplication_InitSeedsTerminal(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverBolt, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			application := app.NewApplication(newConfig(t, driver))
			require.NoError(t, application.Init())
			defer application.Close()

			count, err := application.Products.Count()
			require.NoError(t, err)
			assert.Equal(t, 24, count)

			admin, err := application.Users.GetByID(models.BootstrapAdminID)
			require.NoError(t, err)
			assert.Equal(t, "admin", admin.Username)

			assert.NotNil(t, application.Scheduler())
			assert.Len(t, application.Scheduler().Entries(), 2)
		})
	}
}

// State written before Close is back after the next Init.
func TestApplication_PersistsAcrossRestart(t *testing.T) {
	for _, driver := range []string{config.DriverBolt, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := newConfig(t, driver)

			first := app.NewApplication(cfg)
			require.NoError(t, first.Init())
			_, _, err := first.AuthService.Login("admin", "admin1234")
			require.NoError(t, err)
			_, err = first.CartService.ScanBarcode("8901234567890")
			require.NoError(t, err)
			txn, err := first.TransactionService.Checkout(models.PaymentCash, decimal.NewFromInt(2000))
			require.NoError(t, err)
			require.NoError(t, first.Close())

			second := app.NewApplication(cfg)
			require.NoError(t, second.Init())
			defer second.Close()

			session, ok := second.AuthService.CurrentSession()
			require.True(t, ok)
			assert.Equal(t, "admin", session.Username)

			product, err := second.Products.GetByID("1")
			require.NoError(t, err)
			assert.Equal(t, 49, product.Stock)

			stored, err := second.TransactionService.GetTransactionByID(txn.ID)
			require.NoError(t, err)
			assert.True(t, stored.Change.Equal(decimal.NewFromInt(350)))
			require.Len(t, stored.Items, 1)
			assert.Equal(t, "Wireless Mouse", stored.Items[0].Name)

			count, err := second.Products.Count()
			require.NoError(t, err)
			assert.Equal(t, 24, count, "an existing catalog is not reseeded")
		})
	}
}

func TestApplication_Jobs(t *testing.T) {
	application := app.NewApplication(newConfig(t, config.DriverMemory))
	require.NoError(t, application.Init())
	defer application.Close()

	assert.NotPanics(t, application.SchedDailySummaryTask)
	assert.NotPanics(t, application.SchedLowStockTask)
}

func TestNewLogger(t *testing.T) {
	logger, err := app.NewLogger("production", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	file := filepath.Join(t.TempDir(), "kasir.log")
	logger, err = app.NewLogger("development", file)
	require.NoError(t, err)
	logger.Info("rotating file logger")
	_ = logger.Sync()
	assert.FileExists(t, file)
}
