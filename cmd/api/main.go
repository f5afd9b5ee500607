package main

import (
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/handler"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/inventory"
	repo "shop/internal/repository"
	"shop/internal/server"
	"shop/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var log *zap.Logger
	if cfg.GoEnv == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Deal{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	var productRepo repo.ProductRepository = infraRepo.NewProductGormRepository(gormDB)
	dealRepo := infraRepo.NewDealGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Redisがあれば商品読み取りをキャッシュ。
	//在庫更新はTx内の素のrepoを通るため、StockUsecaseへ無効化hookを渡す。
	var cacheInvalidator usecase.ProductCacheInvalidator
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cached := infraRepo.NewProductCachedRepository(productRepo, redisClient, 60*time.Second)
		productRepo = cached
		cacheInvalidator = cached
		log.Info("product cache enabled", zap.String("redis", cfg.RedisAddr))
	}

	//在庫側のUsecase
	productUC := usecase.NewProductUsecase(productRepo)
	dealUC := usecase.NewDealUsecase(dealRepo, productRepo)
	stockUC := usecase.NewStockUsecase(txManager, cacheInvalidator, log)

	//在庫クライアントはサービス起動時に作り、終了時に閉じる
	var invClient inventory.Client
	switch cfg.InventoryMode {
	case "http":
		invClient = inventory.NewHTTPClient(cfg.InventoryURL, cfg.InventoryTimeout)
	default:
		invClient = inventory.NewLocalClient(productUC, dealUC, stockUC)
	}
	defer invClient.Close()

	//注文側のUsecase
	orderUC := usecase.NewOrderUsecase(txManager, invClient, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, log)

	//Handler生成
	h := server.Handlers{
		Products:   handler.NewProductHandler(productUC, stockUC),
		Deals:      handler.NewDealHandler(dealUC),
		Orders:     handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
	}

	//Server起動
	if err := server.Start(cfg, h, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
