package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"kivumart-be/internal/config"
	"kivumart-be/internal/event"
	"kivumart-be/internal/logger"
)

// The notifier drains the status-change topics for out-of-band delivery
// (email, SMS). Delivery here is a structured log line; in-app
// notifications are written synchronously by the services themselves.
func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if len(cfg.KafkaBrokers) == 0 {
		logger.L().Fatal("KAFKA_BROKERS is not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		consume(ctx, cfg.KafkaBrokers, event.TopicOrderStatus, handleOrderStatus)
	}()
	go func() {
		defer wg.Done()
		consume(ctx, cfg.KafkaBrokers, event.TopicReturnStatus, handleReturnStatus)
	}()

	wg.Wait()
	logger.L().Info("notifier stopped")
}

func consume(ctx context.Context, brokers []string, topic string, handler event.MessageHandler) {
	consumer := event.NewConsumer(brokers, topic, "kivumart-notifier")
	defer consumer.Close()

	logger.L().Info("consuming", zap.String("topic", topic))
	if err := consumer.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.L().Error("consumer exited", zap.String("topic", topic), zap.Error(err))
	}
}

func handleOrderStatus(ctx context.Context, key, value []byte) error {
	var ev event.OrderStatusChanged
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("decode order event %s: %w", key, err)
	}

	logger.L().Info("order status notification",
		zap.Uint("order_id", ev.OrderID),
		zap.Uint("user_id", ev.UserID),
		zap.String("from", ev.FromStatus),
		zap.String("to", ev.ToStatus),
		zap.String("tracking", ev.Tracking),
	)
	return nil
}

func handleReturnStatus(ctx context.Context, key, value []byte) error {
	var ev event.ReturnStatusChanged
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("decode return event %s: %w", key, err)
	}

	logger.L().Info("return status notification",
		zap.Uint("return_id", ev.ReturnID),
		zap.Uint("order_id", ev.OrderID),
		zap.Uint("user_id", ev.UserID),
		zap.String("from", ev.FromStatus),
		zap.String("to", ev.ToStatus),
	)
	return nil
}
