package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	application "restboard/internal/app"
	"restboard/internal/handlers/rest/healthcheck_head"
	"restboard/internal/handlers/rest/order_post"
	"restboard/internal/handlers/rest/order_status_patch"
	"restboard/internal/handlers/rest/order_statuses_get"
	"restboard/internal/handlers/rest/orders_get"
	"restboard/internal/handlers/rest/orders_stream_get"
	"restboard/internal/handlers/rest/ping_get"
	"restboard/internal/handlers/rest/statistics_get"
	"restboard/internal/handlers/rest/statistics_stream_get"
	"restboard/internal/pkg/config"
	"restboard/internal/pkg/dotenv"
	"restboard/internal/pkg/kafka"
	metrics_system "restboard/internal/pkg/metrics"
	"restboard/internal/pkg/middlewares/graceful_shutdown"
	"restboard/internal/pkg/middlewares/metrics"
	"restboard/internal/pkg/middlewares/rate_limiter"
	"restboard/internal/pkg/middlewares/timeout"
	"restboard/internal/pkg/migrations"
	"restboard/internal/pkg/postgres"
	redisclient "restboard/internal/pkg/redis"
	"restboard/pkg/logger"
	"restboard/pkg/logger/zap_adapter"
	"restboard/pkg/token_bucket"
)

const (
	routeOrdersStream     = "orders_stream"
	routeStatisticsStream = "statistics_stream"

	// запас к интервалу heartbeat: дедлайн записи в SSE должен пережить паузу между событиями
	streamWriteSlack = 15 * time.Second
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
	mainLog := appLogger.With()

	mainLog.Info("starting restboard application")

	if envErr != nil {
		mainLog.Error("failed to load .env file", logger.NewField("error", envErr))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

// loadEnv .env необязателен, без него берем системное окружение.
func loadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		stdlog.Print("No .env file found, using system environment variables")
	} else if err := dotenv.Load(); err != nil {
		return err
	}
	return dotenv.ApplyFlags()
}

//nolint:contextcheck // Получаю предупреждения от линтера в местах де наследуюсь от context.Background(), хотя это часть gracefull shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	if cfg.Migrations.AutoApply {
		if err := migrations.Up(ctx, log, pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	redisClient, err := redisclient.NewClient(ctx, log, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			runLog.Error("failed to close redis client",
				logger.NewField("error", err),
			)
		}
	}()

	producer, err := kafka.NewProducer(ctx, log, &cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			runLog.Error("failed to close kafka producer",
				logger.NewField("error", err),
			)
		}
	}()

	businessApp, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, redisClient, producer, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(ctx)

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	checks := []healthcheck_head.Check{
		{Name: "postgres", Probe: pool.Ping},
		{Name: "redis", Probe: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}},
	}

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ctx, ongoingCtx, log, &isShuttingDown, checks, businessApp, cfg),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second, // SSE сдвигает дедлайн сам, см. handlers/rest/sse
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	// основной http сервер

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}
	// pprof http сервер

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // if !cfg.Server.PprofEnabled будет nil по умолчанию, и данный кейс будет проигнорирован
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)

	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	// relay дописывает текущую партию до закрытия producer
	businessApp.BackgroundWorkers.Wait()

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	shutdownCtx context.Context,
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	checks []healthcheck_head.Check,
	app *application.Application,
	cfg *config.Config,
) http.Handler {
	router := mux.NewRouter()
	validate := validator.New(validator.WithRequiredStructEnabled())
	streamWriteTimeout := cfg.Dashboard.StreamHeartbeat + streamWriteSlack
	cancelOnShutdown := graceful_shutdown.CancelOnShutdown(shutdownCtx)

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.Server.RequestTimeout, routeOrdersStream, routeStatisticsStream))
	router.Use(metrics.Middleware(log, routeOrdersStream, routeStatisticsStream))
	router.Use(rate_limiter.Middleware(
		log,
		cfg.Server.RateLimiterQPS,
		token_bucket.NewKeyed(cfg.Server.RateLimiterBurst, float64(cfg.Server.RateLimiterQPS)),
	))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, checks...)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log, app.ServiceOrder)).Methods("GET")
	router.Handle("/order-statuses", order_statuses_get.New(log)).Methods("GET")

	router.Handle("/tenants/{tenant_id}/orders", orders_get.New(log, app.ServiceOrder)).Methods("GET")
	router.Handle("/tenants/{tenant_id}/orders", order_post.New(log, app.ServiceOrder, validate)).Methods("POST")
	router.Handle("/tenants/{tenant_id}/orders/stream", cancelOnShutdown(
		orders_stream_get.New(log, app.ServiceFeed, app.ServiceOrder, cfg.Dashboard.StreamHeartbeat, streamWriteTimeout),
	)).Methods("GET").Name(routeOrdersStream)
	router.Handle("/tenants/{tenant_id}/orders/{order_id}/status", order_status_patch.New(log, app.ServiceOrder, validate)).Methods("PATCH")

	router.Handle("/tenants/{tenant_id}/statistics", statistics_get.New(log, app.ServiceStatistics)).Methods("GET")
	router.Handle("/tenants/{tenant_id}/statistics/stream", cancelOnShutdown(
		statistics_stream_get.New(log, app.ServiceFeed, app.ServiceStatistics, cfg.Dashboard.StreamHeartbeat, streamWriteTimeout),
	)).Methods("GET").Name(routeStatisticsStream)

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
