package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voyatra/tripbook/config"
	"github.com/voyatra/tripbook/internal/bootstrap"
	"github.com/voyatra/tripbook/internal/cache"
	"github.com/voyatra/tripbook/internal/kafka"
	"github.com/voyatra/tripbook/internal/repository"
	"github.com/voyatra/tripbook/internal/service/booking"
	"github.com/voyatra/tripbook/internal/service/resources"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ResourcesCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	resourceRepo := repository.NewResourceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	resourceService := resources.NewResourceService(resourceRepo, redisCache)

	opts := []booking.BookingServiceOption{
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	}
	if cfg.Booking.GroupWindowMinutes > 0 {
		opts = append(opts, booking.WithGroupWindow(time.Duration(cfg.Booking.GroupWindowMinutes)*time.Minute))
	}
	bookingService := booking.NewBookingService(
		bookingRepo,
		resourceRepo,
		producer,
		logger,
		cfg.Kafka.BookingEventsTopic,
		opts...,
	)

	if err := bootstrap.Run(ctx, cfg, resourceService, bookingService); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
