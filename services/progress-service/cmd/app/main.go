package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnplatform/services/progress-service/config"
	"learnplatform/services/progress-service/internal/application"
	"learnplatform/services/progress-service/internal/domain"
	"learnplatform/services/progress-service/internal/infrastructure/cache"
	"learnplatform/services/progress-service/internal/infrastructure/repository"
	"learnplatform/services/progress-service/internal/infrastructure/security"
	"learnplatform/services/progress-service/internal/middleware"
	grpc_server "learnplatform/services/progress-service/internal/transport/grpc"
	handlers "learnplatform/services/progress-service/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// 1. Конфиг
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Postgres
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connect failed: %v", err)
	}
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("DB handle failed: %v", err)
	}

	// 3. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis at", cfg.RedisAddr)

	// 4. Сборка
	repo := repository.NewProgressRepository(db, rdb, cfg.CatalogCacheTTL)
	titles := cache.NewTitleCache(rdb, repo, cfg.TitleCacheTTL)
	dashboard := application.NewDashboardUseCase(repo, titles, cfg.SnapshotTimeout, cfg.RecommendedLimit)
	tokens := security.NewTokenManager(cfg.AccessSecret, 0)

	router := handlers.NewRouter(handlers.RouterDeps{
		Dashboard: handlers.NewDashboardHandler(dashboard),
		Tokens:    tokens,
		Limiter:   middleware.NewRateLimiter(rdb),
		Origins:   cfg.Origins(),
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	health := grpc_server.NewHealthServer(map[string]grpc_server.Check{
		"postgres": sqlDB.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	grpcServer := grpc_server.NewServer(health)

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	// 5. Запуск
	go func() {
		log.Printf("Progress Service HTTP is running on port %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run HTTP server: %v", err)
		}
	}()
	go func() {
		log.Printf("Progress Service gRPC is running on port %s", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	probeCtx, stopProbe := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			ctx, cancel := context.WithTimeout(probeCtx, 2*time.Second)
			health.Probe(ctx)
			cancel()

			select {
			case <-probeCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Println("Shutting down server...")
	stopProbe()
	health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()

	rdb.Close()
	sqlDB.Close()
}
