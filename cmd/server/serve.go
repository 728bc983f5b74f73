package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/api"
	"kurtis-boutique/internal/auth"
	"kurtis-boutique/internal/broker"
	"kurtis-boutique/internal/notifier"
	"kurtis-boutique/internal/payment"
	"kurtis-boutique/internal/redisclient"
	"kurtis-boutique/internal/service"
	"kurtis-boutique/internal/shipping"
	"kurtis-boutique/internal/store"
	"kurtis-boutique/internal/util"
	"kurtis-boutique/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func serve(cfg *config.Config) error {
	if err := util.InitLogger(cfg.Server.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port))

	tp, err := util.InitTracer(serviceName, cfg.Server.Env, cfg.Observ.JaegerEndpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	eventPublisher := broker.NewEventPublisher(producer)
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicOrder))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway := payment.NewRazorpay(cfg.Razorpay)
	shipper := shipping.NewShiprocket(cfg.Shiprocket, redisClient)

	mailer, err := notifier.NewSESMailer(rootCtx, cfg.Email)
	if err != nil {
		return err
	}
	if cfg.Email.SenderEmail == "" {
		logger.Warn("AWS_SENDER_ADDRESS not set; customer emails will be skipped")
	}

	shipmentService := service.NewShipmentService(db, shipper, eventPublisher, mailer, cfg.Shiprocket)
	services := api.Services{
		Catalog:        service.NewCatalogService(db),
		Cart:           service.NewCartService(db),
		Wishlist:       service.NewWishlistService(db),
		Checkout:       service.NewCheckoutService(db, redisClient, gateway, shipper, eventPublisher, shipmentService, cfg.Business, cfg.Shiprocket.DefaultWeight),
		Orders:         service.NewOrderService(db, shipper, eventPublisher),
		Customisations: service.NewCustomisationService(db),
		Admin:          service.NewAdminService(db, shipper, gateway, eventPublisher, shipmentService, cfg.Shiprocket.DefaultWeight),
		Shipments:      shipmentService,
	}

	shipmentWorker := worker.NewShipmentWorker(
		broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ShipmentGroup),
		shipmentService)
	notificationWorker := worker.NewNotificationWorker(
		broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.NotificationGroup),
		shipmentService)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var wg sync.WaitGroup
	for name, start := range map[string]func(context.Context) error{
		"shipment":     shipmentWorker.Start,
		"notification": notificationWorker.Start,
	} {
		wg.Add(1)
		go func(name string, start func(context.Context) error) {
			defer wg.Done()
			if err := start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Worker stopped", zap.String("worker", name), zap.Error(err))
			}
		}(name, start)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, auth.NewOIDCVerifier(rootCtx, cfg.Auth), cfg.Auth.AdminEmails, map[string]api.Pinger{
		"postgres": db,
		"redis":    redisClient,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-rootCtx.Done():
	case err := <-serverErr:
		logger.Error("HTTP server failed", zap.Error(err))
	}

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	wg.Wait()
	if err := shipmentWorker.Stop(); err != nil {
		logger.Warn("Error closing shipment consumer", zap.Error(err))
	}
	if err := notificationWorker.Stop(); err != nil {
		logger.Warn("Error closing notification consumer", zap.Error(err))
	}

	logger.Info("Server exited")
	return nil
}
