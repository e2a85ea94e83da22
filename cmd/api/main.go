package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ordersync/internal/config"
	"ordersync/internal/handler"
	"ordersync/internal/infra/cache"
	"ordersync/internal/infra/db"
	infraRepo "ordersync/internal/infra/repository"
	"ordersync/internal/logger"
	"ordersync/internal/repository"
	"ordersync/internal/server"
	"ordersync/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envはあれば読む（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	//DB接続
	gormDB, err := db.Connect(cfg, logger.NewGormLogger(log, logger.GormLevel(cfg.LogLevel)))
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	sessionRepo := infraRepo.NewShopSessionGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//配信IDの重複排除（REDIS_ADDRがなければメモリ）
	var deliveries repository.DeliveryStore
	if cfg.RedisAddr != "" {
		rs, err := cache.NewRedisDeliveryStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer func() { _ = rs.Close() }()
		deliveries = rs
	} else {
		log.Warn("REDIS_ADDR not set, webhook dedupe is per-process")
		deliveries = cache.NewMemoryDeliveryStore()
	}

	//Usecase生成
	syncUC := usecase.NewOrderSyncUsecase(orderRepo, log)
	webhookUC := usecase.NewWebhookUsecase(syncUC, sessionRepo, deliveries, cfg.WebhookTTL, log)
	adminUC := usecase.NewOrderAdminUsecase(orderRepo, auditRepo, txm, syncUC)

	//Handler生成
	e := server.New(log)
	server.RegisterRoutes(e, cfg, sessionRepo, server.Handlers{
		Orders:   handler.NewOrderHandler(adminUC),
		Webhooks: handler.NewWebhookHandler(webhookUC, log),
		Health:   handler.NewHealthHandler(func() error { return db.Ping(gormDB) }),
	})

	//Server起動
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Start(ctx, e, cfg.Addr(), log)
}
