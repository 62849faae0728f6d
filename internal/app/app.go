// Package app owns every store of the terminal and the order they are
// opened and closed in.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kasir/internal/config"
	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/seed"
	"kasir/internal/services"
	"kasir/internal/storage"
	"kasir/pkg/rabbitmq"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists the GORM models migrated by the sqlite driver.
var Tables = []interface{}{
	&models.Product{},
	&models.User{},
	&models.Transaction{},
	&models.TransactionItem{},
	&repositories.SessionRecord{},
}

type Application struct {
	cfg *config.Config
	loc *time.Location

	store  storage.Store
	gormDB *gorm.DB
	sched  *cron.Cron
	mq     *rabbitmq.Client

	Products     repositories.ProductRepository
	Users        repositories.UserRepository
	Transactions repositories.TransactionRepository
	Sessions     repositories.SessionRepository

	ProductService     *services.ProductService
	CartService        *services.CartService
	AuthService        *services.AuthService
	UserService        *services.UserService
	TransactionService *services.TransactionService
	ReportService      *services.ReportService
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

func (a *Application) Config() *config.Config {
	return a.cfg
}

// Location is the zone reports bucket days and hours in.
func (a *Application) Location() *time.Location {
	return a.loc
}

// MQ is the broker client, nil when AMQP is disabled or unreachable.
func (a *Application) MQ() *rabbitmq.Client {
	return a.mq
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Init opens storage, seeds a fresh terminal, restores the persisted session
// and schedules background jobs. The logger must already be installed.
func (a *Application) Init() error {
	loc, err := a.cfg.TimeLocation()
	if err != nil {
		return fmt.Errorf("timezone config error: %w", err)
	}
	a.loc = loc

	if err := a.openStorage(); err != nil {
		return err
	}
	zap.S().Infof("Storage ready, driver: %s", a.cfg.StorageDriver)

	if err := seed.SeedCatalog(a.Products); err != nil {
		return err
	}

	hasher, err := services.NewPasswordHasher(a.cfg.PasswordMode)
	if err != nil {
		return err
	}

	var publisher services.Publisher = services.NopPublisher{}
	if a.cfg.AMQPURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.cfg.AMQPURL, Queue: a.cfg.AMQPQueue})
		if err != nil {
			// events are best effort; the terminal keeps selling without a broker
			zap.S().Warnf("RabbitMQ unavailable, events disabled: %v", err)
		} else {
			a.mq = mq
			publisher = mq
		}
	}

	a.ProductService = services.NewProductService(a.Products, a.cfg.LowStockThreshold)
	a.CartService = services.NewCartService(a.Products)
	a.AuthService = services.NewAuthService(a.Users, a.Sessions, a.CartService, hasher, a.cfg.JWTSecret, a.cfg.TokenTTL)
	a.UserService = services.NewUserService(a.Users, a.AuthService, hasher)
	a.TransactionService = services.NewTransactionService(a.Transactions, a.Products, a.CartService, a.AuthService, publisher)
	a.ReportService = services.NewReportService(a.Transactions, a.loc)

	if err := a.UserService.EnsureBootstrapAdmin(seed.BootstrapAdmin()); err != nil {
		return err
	}
	if err := a.AuthService.RestoreSession(); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	return a.initJob()
}

func (a *Application) openStorage() error {
	switch a.cfg.StorageDriver {
	case config.DriverSQLite:
		if err := ensureDir(a.cfg.SQLiteDSN); err != nil {
			return err
		}
		db, err := gorm.Open(sqlite.Open(a.cfg.SQLiteDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.AutoMigrate(Tables...); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		a.gormDB = db
		a.Products = repositories.NewGORMProductRepository(db)
		a.Users = repositories.NewGORMUserRepository(db)
		a.Transactions = repositories.NewGORMTransactionRepository(db)
		a.Sessions = repositories.NewGORMSessionRepository(db)
		return nil

	case config.DriverMemory:
		a.store = storage.NewMemoryStore()

	default:
		store, err := storage.OpenBolt(a.cfg.DataPath)
		if err != nil {
			return err
		}
		a.store = store
	}
	return a.openStoreRepositories()
}

func (a *Application) openStoreRepositories() error {
	var err error
	if a.Products, err = repositories.NewMemoryProductRepository(a.store); err != nil {
		return err
	}
	if a.Users, err = repositories.NewMemoryUserRepository(a.store); err != nil {
		return err
	}
	if a.Transactions, err = repositories.NewMemoryTransactionRepository(a.store); err != nil {
		return err
	}
	a.Sessions = repositories.NewStoreSessionRepository(a.store)
	return nil
}

func ensureDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Close stops background jobs and releases storage and the broker.
func (a *Application) Close() error {
	var errs []error
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
