package bootstrap

import (
	"context"
	"fmt"

	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/config"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/database"
	"github.com/sangkips/shopledger-api/internal/infrastructure/mirror"
	"github.com/sangkips/shopledger-api/internal/infrastructure/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/store"
	"github.com/sangkips/shopledger-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the wired application shared by the server and the operator CLI
type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Store  *store.Store

	Shops       *service.ShopService
	Customers   *service.CustomerService
	Ledger      *service.LedgerService
	Inventory   *service.InventoryService
	Activity    *service.ActivityService
	Dashboard   *service.DashboardService
	Idempotency domainRepo.IdempotencyRepository
}

// New connects the durable store, loads it into memory and seeds the
// configured shops
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if err := utils.SetSequenceNode(cfg.App.NodeID); err != nil {
		return nil, fmt.Errorf("invalid APP_NODE_ID: %w", err)
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	opts := store.Options{
		Mirror: mirror.Config{
			MaxAttempts:  cfg.Mirror.MaxAttempts,
			BaseBackoff:  cfg.Mirror.BaseBackoff,
			MaxBackoff:   cfg.Mirror.MaxBackoff,
			WriteTimeout: cfg.Mirror.WriteTimeout,
		},
		Log: log,
	}
	idempotency := store.NewIdempotencyCache()
	if db != nil {
		opts.UnitOfWork = repository.NewUnitOfWork(db)
		idempotency = repository.NewIdempotencyRepository(db)
	}

	st := store.New(opts)
	if err := st.Open(ctx); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	ledger := service.NewLedgerService(st, log, cfg.Ledger.EnforceSaleStock)
	app := &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		Store:       st,
		Shops:       service.NewShopService(st, log),
		Customers:   service.NewCustomerService(st, log),
		Ledger:      ledger,
		Inventory:   service.NewInventoryService(st, log),
		Activity:    service.NewActivityService(st),
		Dashboard:   service.NewDashboardService(st, ledger),
		Idempotency: idempotency,
	}

	created, err := app.Shops.EnsureShops(ctx, cfg.Seed.Shops)
	if err != nil {
		_ = app.Close(ctx)
		return nil, fmt.Errorf("failed to seed shops: %w", err)
	}
	if created > 0 {
		log.Info("seeded shops", zap.Int("created", created))
	}

	return app, nil
}

// Close drains pending durable writes, then releases the database
func (a *App) Close(ctx context.Context) error {
	err := a.Store.Close(ctx)
	if dbErr := database.Close(a.DB); err == nil {
		err = dbErr
	}
	return err
}
