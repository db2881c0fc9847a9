package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/api"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/api/handler"
	apimiddleware "github.com/lavkushry1/Eventia-Proj-sub000/internal/api/middleware"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/application"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/config"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/infrastructure/mongodb"
	redisinfra "github.com/lavkushry1/Eventia-Proj-sub000/internal/infrastructure/redis"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/pkg/logger"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/pkg/metrics"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/worker"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(registry)

	// MongoDB
	mongoCtx, mongoCancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer mongoCancel()
	mongoClient, err := mongodb.NewClient(mongoCtx, &cfg.Mongo)
	if err != nil {
		logger.Fatal("MongoDB接続に失敗", zap.Error(err))
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := mongodb.Disconnect(shutdownCtx, mongoClient); err != nil {
			logger.Error("MongoDB切断に失敗", zap.Error(err))
		}
	}()
	db := mongodb.NewDatabase(mongoClient, &cfg.Mongo)

	seatRepo := mongodb.NewSeatRepository(db)
	if err := seatRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("インデックス作成に失敗", zap.Error(err))
	}
	stadiumRepo := mongodb.NewStadiumRepository(db)

	// Redis
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		logger.Fatal("Redis接続に失敗", zap.Error(err))
	}
	lockManager := redisinfra.NewLockManager(redisClient, m)
	seatCache := redisinfra.NewSeatCache(redisClient)

	// サービス
	reservationService := application.NewReservationService(
		seatRepo, lockManager, seatCache, m,
		cfg.Reservation.HoldTimeout, cfg.Reservation.MaxSeatsPerHolder,
	)
	seatService := application.NewSeatService(seatRepo, stadiumRepo, seatCache)
	stadiumService := application.NewStadiumService(stadiumRepo)

	// 期限切れ仮押さえの定期回収
	sweeper := worker.NewExpiredHoldSweeper(reservationService, cfg.Reservation.SweepInterval)
	go sweeper.Start(ctx)
	defer sweeper.Stop()

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	api.RegisterRoutes(e, api.Handlers{
		Reservation: handler.NewReservationHandler(reservationService),
		Seat:        handler.NewSeatHandler(seatService),
		Stadium:     handler.NewStadiumHandler(stadiumService),
		Health:      handler.NewHealthHandler(),
	}, registry)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバーを起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}
}
