package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/storefront"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"go.uber.org/zap"
)

// 保存先ごとの実装
type slotStores struct {
	carts     repository.CartStore
	checkouts repository.CheckoutRepository
	tx        repository.TransactionManager
	close     func()
}

func main() {
	config.LoadEnvFile(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Options{Service: "storefront", Env: cfg.GoEnv, Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("open cart store failed", zap.String("cart_store", cfg.CartStore), zap.Error(err))
	}
	defer stores.close()

	//バックエンドAPI
	client := storefront.NewClient(cfg.BackendURL, cfg.BackendTimeout)

	//DI
	catalogUC := usecase.NewCatalogUsecase(client)
	cartUC := usecase.NewCartUsecase(client, stores.carts, stores.checkouts, stores.tx, log, nil)
	checkoutUC := usecase.NewCheckoutUsecase(client, validator.NewCheckoutValidator(), stores.carts, stores.checkouts, stores.tx, log, nil)

	e := server.New(cfg, log, server.Handlers{
		Product:  handler.NewProductHandler(catalogUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
	})

	log.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("cart_store", cfg.CartStore),
		zap.String("backend_url", cfg.BackendURL),
	)
	if err := server.Start(ctx, e, ":"+cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}

func openStores(ctx context.Context, cfg config.Config) (slotStores, error) {
	switch cfg.CartStore {
	case config.CartStoreRedis:
		client, err := db.ConnectRedis(ctx, cfg)
		if err != nil {
			return slotStores{}, err
		}
		return slotStores{
			carts:     infraRepo.NewCartRedisStore(client, cfg.CartTTL),
			checkouts: infraRepo.NewCheckoutRedisRepository(client, cfg.CartTTL),
			tx:        infraRepo.NewTxManagerRedis(client, cfg.CartTTL),
			close:     func() { _ = client.Close() },
		}, nil

	default:
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return slotStores{}, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return slotStores{}, err
		}
		return slotStores{
			carts:     infraRepo.NewCartGormStore(gormDB),
			checkouts: infraRepo.NewCheckoutGormRepository(gormDB),
			tx:        infraRepo.NewTxManagerGorm(gormDB),
			close: func() {
				if sqlDB, err := gormDB.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	}
}
