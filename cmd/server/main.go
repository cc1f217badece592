package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kivumart-be/internal/api"
	"kivumart-be/internal/assistant"
	"kivumart-be/internal/cart"
	"kivumart-be/internal/category"
	"kivumart-be/internal/config"
	"kivumart-be/internal/coupon"
	"kivumart-be/internal/db"
	"kivumart-be/internal/event"
	"kivumart-be/internal/logger"
	"kivumart-be/internal/notification"
	"kivumart-be/internal/order"
	"kivumart-be/internal/payment"
	"kivumart-be/internal/payment/webhook"
	"kivumart-be/internal/product"
	"kivumart-be/internal/returns"
	"kivumart-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	orderEvents := newPublisher(cfg.KafkaBrokers, event.TopicOrderStatus)
	defer orderEvents.Close()
	returnEvents := newPublisher(cfg.KafkaBrokers, event.TopicReturnStatus)
	defer returnEvents.Close()

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	couponRepo := coupon.NewRepository(database)
	couponSvc := coupon.NewService(couponRepo)

	notificationRepo := notification.NewRepository(database)
	notificationSvc := notification.NewService(notificationRepo)

	gateway := payment.NewFlutterwaveGateway(cfg.FlwSecretKey, cfg.FlwWebhookHash, cfg.RedirectURL)
	wallet := payment.NewWalletClient(cfg.WalletRPCURL, cfg.ReceiveAddress)
	rates := payment.NewHTTPRateProvider(cfg.RateAPIURL)
	dispatcher := payment.NewDispatcher(gateway, wallet, rates)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(order.ServiceDeps{
		Repo:        orderRepo,
		ProductRepo: productRepo,
		Coupons:     couponSvc,
		CouponRepo:  couponRepo,
		Carts:       cartSvc,
		Notifier:    notificationSvc,
		Publisher:   orderEvents,
		Dispatcher:  dispatcher,
		Gateway:     gateway,
		Wallet:      wallet,
	})

	returnsRepo := returns.NewRepository(database)
	returnsSvc := returns.NewService(returnsRepo, orderSvc, notificationSvc, returnEvents)

	handler := &api.Handler{
		Users:         userSvc,
		Products:      productSvc,
		Categories:    categorySvc,
		Carts:         cartSvc,
		Coupons:       couponSvc,
		Orders:        orderSvc,
		Returns:       returnsSvc,
		Notifications: notificationSvc,
		Webhook:       webhook.NewWebhookHandler(orderSvc, gateway),
	}
	if cfg.AssistantAPIURL != "" {
		client := assistant.NewClient(cfg.AssistantAPIURL, cfg.AssistantAPIKey, cfg.AssistantModel)
		handler.Assistant = assistant.NewHandler(client)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("shutdown", zap.Error(err))
	}
	logger.L().Info("server stopped")
}

func newPublisher(brokers []string, topic string) event.Publisher {
	if len(brokers) == 0 {
		logger.L().Warn("kafka brokers not configured, events disabled", zap.String("topic", topic))
		return event.NopPublisher{}
	}
	return event.NewProducer(brokers, topic)
}
