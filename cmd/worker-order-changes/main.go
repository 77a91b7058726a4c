package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"restboard/internal/app"
	"restboard/internal/handlers/kafka-consumer/order_changed"
	"restboard/internal/handlers/rest/healthcheck_head"
	"restboard/internal/pkg/config"
	"restboard/internal/pkg/dotenv"
	"restboard/internal/pkg/kafka"
	redisclient "restboard/internal/pkg/redis"
	"restboard/pkg/logger"
	"restboard/pkg/logger/zap_adapter"
)

func main() {
	envErr := loadEnv()

	zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"))
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With(logger.NewField("binary", "worker-order-changes"))

	mainLog.Info("starting order-changes worker")

	if envErr != nil {
		mainLog.Error("failed to load .env file", logger.NewField("error", envErr))
		return
	}

	cfg, err := config.LoadWorker()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	if err := run(context.Background(), appLogger, cfg); err != nil {
		mainLog.Error("worker failed", logger.NewField("error", err))
	}
}

func loadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		stdlog.Print("No .env file found, using system environment variables")
	} else if err := dotenv.Load(); err != nil {
		return err
	}
	return dotenv.ApplyFlags()
}

//nolint:contextcheck // consumeCtx и shutdownCtx намеренно не наследуют сигнальный ctx
func run(ctx context.Context, log logger.Logger, cfg *config.Config) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With(logger.NewField("component", "worker-order-changes"))

	redisClient, err := redisclient.NewClient(ctx, log, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			runLog.Error("failed to close redis client", logger.NewField("error", err))
		}
	}()

	workerApp, err := app.InitializeWorkerApp(redisClient)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	handler := order_changed.New(log, workerApp.ServiceChanges, cfg.Kafka.Handlers.OrderChanged.ProcessTimeout)
	consumer, err := kafka.NewConsumer(ctx, log, &cfg.Kafka, handler)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}

	// consumeCtx живет до конца drain: claim дописывает текущее сообщение в Redis и помечает offset.
	consumeCtx, stopConsuming := context.WithCancel(context.Background())
	defer stopConsuming()

	opsServer := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Kafka.PortHealthcheck),
		Handler: initOpsRouter(&isShuttingDown, healthcheck_head.Check{
			Name: "redis",
			Probe: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
		BaseContext: func(_ net.Listener) context.Context {
			return consumeCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		runLog.Info("ops server starting", logger.NewField("port", cfg.Kafka.PortHealthcheck))
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		err := consumer.Start(consumeCtx)
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
			runLog.Info("Kafka consumer stopped gracefully")
			return nil
		}
		return fmt.Errorf("consumer: %w", err)
	})

	<-groupCtx.Done()
	signalled := ctx.Err() != nil
	stop()
	isShuttingDown.Store(true)

	if signalled {
		runLog.Info("shutdown signal received")
		time.Sleep(readinessDrainDelay)
	}
	runLog.Info("draining Kafka claims")
	stopConsuming()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		runLog.Info("graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}
	if err := consumer.Close(); err != nil {
		runLog.Error("failed to close Kafka consumer", logger.NewField("error", err))
	}

	if err := group.Wait(); err != nil {
		return err
	}
	runLog.Info("worker stopped")
	return nil
}

// initOpsRouter readiness и метрики публикации в Redis на одном порту.
func initOpsRouter(isShuttingDown *atomic.Bool, checks ...healthcheck_head.Check) http.Handler {
	router := mux.NewRouter()
	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, checks...)).Methods("HEAD")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return router
}
