package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	_ "storefront-service/docs"
	"storefront-service/internal/cache"
	"storefront-service/internal/consumer"
	"storefront-service/internal/database"
	"storefront-service/internal/events"
	"storefront-service/internal/handlers"
	"storefront-service/internal/logger"
	"storefront-service/internal/repository"
	"storefront-service/internal/router"
	"storefront-service/internal/sender"
	"storefront-service/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @Title Storefront API
// @Version 1.0
// @Description API витрины: заказы, возвраты, счета, каталог
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	// Кеш статистики — опционален
	var overviewCache service.OverviewCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		overviewCache = cache.NewRedisOverviewCache(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Шина событий — опциональна (без брокеров письма не отправляются)
	var bus service.EventBus
	var kafkaBus *events.KafkaEventBus
	if len(cfg.KafkaBrokers) > 0 {
		kafkaBus = events.NewKafkaEventBus(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer kafkaBus.Close()
		bus = kafkaBus
	} else {
		log.Warn("no kafka brokers configured, email events disabled")
	}

	emailSender := sender.NewEmailSender(cfg)

	orderSvc := service.NewOrderService(repos, bus)
	invoiceSvc := service.NewInvoiceService(repos)
	productSvc := service.NewProductService(repos)
	statsSvc := service.NewStatsService(repos, overviewCache)
	settingsSvc := service.NewSettingsService(repos)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Потребитель почтового топика живёт в том же процессе
	var cons *consumer.KafkaEmailConsumer
	if len(cfg.KafkaBrokers) > 0 {
		cons = consumer.NewKafkaEmailConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic, emailSender, log)
		go func() {
			if err := cons.Run(ctx); err != nil {
				log.Error("consumer stopped", zap.Error(err))
			}
		}()
	}

	r := router.Router(cfg, router.Handlers{
		Orders:   handlers.NewOrderHandler(orderSvc, invoiceSvc, emailSender, log),
		Products: handlers.NewProductHandler(productSvc, log),
		Admin:    handlers.NewAdminHandler(statsSvc, settingsSvc, log),
	}, log)

	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatal("failed to run http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	cancel()
	if cons != nil {
		_ = cons.Close()
	}
	time.Sleep(200 * time.Millisecond)
}
