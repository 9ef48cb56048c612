package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"silent-auction/internal/api/handlers"
	"silent-auction/internal/config"
	"silent-auction/internal/infrastructure/mysql"
	"silent-auction/internal/infrastructure/redis"
	"silent-auction/internal/services"
	"silent-auction/pkg/logger"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	log := logger.New()
	log.Info("starting silent auction server")

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis", "address", cfg.Redis.Address)

	db, err := mysql.Open(ctx, cfg.MySQL)
	if err != nil {
		log.Error("failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("connected to MySQL")

	// Repositories and Redis-backed components
	itemRepo := mysql.NewMySQLItemRepository(db)
	bidRepo := mysql.NewMySQLBidRepository(db)
	notificationRepo := mysql.NewMySQLNotificationRepository(db)
	userRepo := mysql.NewMySQLUserRepository(db)

	statusCache := redis.NewStatusCache(rdb)
	eventPublisher := redis.NewEventPublisher(rdb)
	leaderElection := redis.NewLeaderElection(rdb, cfg.Sweep.LeaderTTL)

	// Services
	notificationService := services.NewNotificationService(notificationRepo, log)
	itemService := services.NewItemService(itemRepo, bidRepo, statusCache, log)
	bidService := services.NewBidService(itemRepo, bidRepo, userRepo, statusCache,
		notificationService, eventPublisher, log)
	userService := services.NewUserService(userRepo, log)
	closer := services.NewAuctionCloser(itemRepo, statusCache, eventPublisher,
		leaderElection, cfg.Instance.ID, cfg.Sweep.Schedule, log)

	// HTTP server
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","method":"${method}","uri":"${uri}","status":${status},"error":"${error}","latency_human":"${latency_human}"}` + "\n",
	}))
	e.Use(middleware.Recover())

	bidHandler := handlers.NewBidHandler(bidService, log)
	itemHandler := handlers.NewItemHandler(itemService, log)
	notificationHandler := handlers.NewNotificationHandler(notificationService, log)
	userHandler := handlers.NewUserHandler(userService, log)

	api := e.Group("/api/v1")
	api.POST("/bids", bidHandler.PlaceBid)
	api.GET("/bids/won", bidHandler.WonBids)
	api.GET("/items/:id/bids", bidHandler.BidsForItem)
	api.GET("/users/:id/bids", bidHandler.BidsForUser)

	api.POST("/items", itemHandler.CreateItem)
	api.GET("/items", itemHandler.ListItems)
	api.GET("/items/mine", itemHandler.MyItems)
	api.GET("/items/:id", itemHandler.GetItem)
	api.PUT("/items/:id", itemHandler.UpdateItem)
	api.DELETE("/items/:id", itemHandler.DeleteItem)
	api.GET("/categories", itemHandler.Categories)

	api.GET("/notifications", notificationHandler.List)
	api.PUT("/notifications/:id/read", notificationHandler.MarkRead)

	api.GET("/users/:id", userHandler.GetProfile)
	api.PUT("/users/:id", userHandler.UpdateProfile)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "silent-auction",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Background sweep
	if err := closer.Start(context.Background()); err != nil {
		log.Error("failed to start auction closer", "error", err)
		os.Exit(1)
	}

	go func() {
		for {
			became, err := leaderElection.BecomeLeader(context.Background(), cfg.Instance.ID)
			if err != nil {
				log.Error("failed to attempt leadership", "error", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if became {
				log.Info("became sweep leader", "instance_id", cfg.Instance.ID)
			}
			time.Sleep(10 * time.Second)
		}
	}()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("server started", "address", serverAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := closer.Stop(); err != nil {
		log.Error("failed to stop auction closer", "error", err)
	}
	if err := leaderElection.ReleaseLeadership(shutdownCtx, cfg.Instance.ID); err != nil {
		log.Error("failed to release leadership", "error", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
