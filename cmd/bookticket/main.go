package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/bookticket/internal/app"
	"github.com/Freeeeeet/bookticket/internal/cache"
	"github.com/Freeeeeet/bookticket/internal/config"
	"github.com/Freeeeeet/bookticket/internal/controller/httpapi"
	"github.com/Freeeeeet/bookticket/internal/live"
	"github.com/Freeeeeet/bookticket/internal/notify"
	"github.com/Freeeeeet/bookticket/internal/repository"
	"github.com/Freeeeeet/bookticket/internal/repository/base"
	"github.com/Freeeeeet/bookticket/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := app.ConnectDB(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()
	}

	// Кэш свободных мест
	var seatCache service.SeatCache = cache.NopSeatCache{}
	if cfg.CacheEnabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis is not reachable, seat cache will miss", zap.Error(err))
		}
		seatCache = cache.NewSeatCache(client, cfg.SeatCacheTTL)
	}

	// Уведомления сотрудникам
	var notifier service.Notifier = notify.NopNotifier{}
	if cfg.NotificationsEnabled() {
		b, err := notify.NewTelegramBot(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create telegram bot", zap.Error(err))
		}
		notifier = notify.NewTelegramNotifier(b, cfg.TelegramChatID)
	}

	// Подписки на изменения мест
	hub := live.NewHub(logger)
	go hub.Run(ctx)

	// Репозитории
	tx := base.NewTransactor(pool, logger)
	policyRepo := repository.NewPolicyRepository(pool)
	airplaneRepo := repository.NewAirplaneRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	stopRepo := repository.NewStopRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Сервисы
	policyService := service.NewPolicyService(policyRepo, logger)
	catalogService := service.NewCatalogService(tx, airplaneRepo, logger)
	registryService := service.NewRegistryService(flightRepo, airplaneRepo, logger)
	scheduleService := service.NewScheduleService(tx, policyService, flightRepo, scheduleRepo, seatCache, notifier,
		service.SystemClock, logger)
	bookingService := service.NewBookingService(tx, policyService, userRepo, scheduleRepo, bookingRepo,
		seatCache, notifier, hub, service.SystemClock, logger)
	stopService := service.NewStopService(tx, policyService, flightRepo, stopRepo, logger)

	scheduler := app.NewScheduler(scheduleService, cfg.RepairInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	handler := httpapi.NewHandler(httpapi.Services{
		Policy:   policyService,
		Catalog:  catalogService,
		Registry: registryService,
		Schedule: scheduleService,
		Booking:  bookingService,
		Stop:     stopService,
		Feed:     hub,
	}, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
			zap.Bool("cache", cfg.CacheEnabled()),
			zap.Bool("notifications", cfg.NotificationsEnabled()))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
