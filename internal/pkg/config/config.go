package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // DASHBOARD_TIMEZONE в контейнере без системной tzdata
)

const (
	defaultOutboxRelayBatch = 100
	defaultStreamHeartbeat  = 15 * time.Second
	defaultLogLevel         = "info"
)

type (
	Tasks struct {
		OutboxRelayInterval time.Duration
		OutboxRelayBatch    int
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware rate limiter refill per tenant
		RateLimiterBurst int           // middleware rate limiter capacity per tenant
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Kafka struct {
		PortHealthcheck string
		Brokers         string
		Topic           string
		ConsumerGroup   string
		Sarama          Sarama
		Handlers        KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		OrderChanged OrderChanged
	}

	OrderChanged struct {
		ProcessTimeout time.Duration
	}

	Dashboard struct {
		Timezone                string
		Location                *time.Location
		TransitionPolicy        string
		FeedReconnectMaxElapsed time.Duration // 0 - переподключаемся до отмены контекста
		StreamHeartbeat         time.Duration
	}

	Migrations struct {
		AutoApply bool
	}

	Log struct {
		Level string
	}

	Config struct {
		Tasks      Tasks
		Server     HTTPServer
		Database   Database
		Redis      Redis
		Kafka      Kafka
		Dashboard  Dashboard
		Migrations Migrations
		Log        Log
	}
)

// BrokerList KAFKA_BROKERS через запятую.
func (k Kafka) BrokerList() []string {
	brokers := strings.Split(k.Brokers, ",")
	result := make([]string, 0, len(brokers))
	for _, b := range brokers {
		b = strings.TrimSpace(b)
		if b != "" {
			result = append(result, b)
		}
	}
	return result
}

// Load конфиг HTTP сервиса: проверяются все группы.
func Load() (*Config, error) {
	return load(
		validateServer,
		validateDatabase,
		validateRedis,
		validateTasks,
		validateKafka,
		validateDashboard,
	)
}

// LoadWorker конфиг воркера изменений: Postgres и HTTP API ему не нужны.
func LoadWorker() (*Config, error) {
	return load(
		validateRedis,
		validateKafka,
	)
}

type validator func(*Config) error

func load(validators ...validator) (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			return nil, fmt.Errorf("validation: %w", err)
		}
	}
	return cfg, nil
}

func loadFromEnv() (*Config, error) {
	relayInterval, err := osGetEnvDuration("OUTBOX_RELAY_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	relayBatch, err := osGetInt("OUTBOX_RELAY_BATCH")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if relayBatch == 0 {
		relayBatch = defaultOutboxRelayBatch
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	orderChangedTimeout, err := osGetEnvDuration("KAFKA_HANDLER_ORDER_CHANGED_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisDB, err := osGetInt("REDIS_DB")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	feedReconnect, err := osGetEnvDuration("FEED_RECONNECT_MAX_ELAPSED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	heartbeat, err := osGetEnvDuration("SSE_HEARTBEAT_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if heartbeat == 0 {
		heartbeat = defaultStreamHeartbeat
	}

	timezone := os.Getenv("DASHBOARD_TIMEZONE")
	if timezone == "" {
		timezone = "UTC"
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading config: invalid DASHBOARD_TIMEZONE=%q: %w", timezone, err)
	}

	autoApply, err := osGetBool("MIGRATIONS_AUTO_APPLY")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	return &Config{
		Tasks: Tasks{
			OutboxRelayInterval: relayInterval,
			OutboxRelayBatch:    relayBatch,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: Kafka{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			Topic:           os.Getenv("KAFKA_TOPIC"),
			ConsumerGroup:   os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck: os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				OrderChanged: OrderChanged{
					ProcessTimeout: orderChangedTimeout,
				},
			},
		},
		Dashboard: Dashboard{
			Timezone:                timezone,
			Location:                location,
			TransitionPolicy:        os.Getenv("ORDER_TRANSITION_POLICY"),
			FeedReconnectMaxElapsed: feedReconnect,
			StreamHeartbeat:         heartbeat,
		},
		Migrations: Migrations{
			AutoApply: autoApply,
		},
		Log: Log{
			Level: logLevel,
		},
	}, nil
}

// required первая незаполненная переменная окружения из списка.
func required(vars ...envVar) error {
	for _, v := range vars {
		if !v.set {
			return fmt.Errorf("%s is required", v.name)
		}
	}
	return nil
}

type envVar struct {
	name string
	set  bool
}

func validateServer(cfg *Config) error {
	s := cfg.Server
	if err := required(
		envVar{"PORT", s.Port != ""},
		envVar{"MIDDLEWARE_REQUEST_TIMEOUT", s.RequestTimeout > 0},
		envVar{"MIDDLEWARE_RATE_LIMIT_QPS", s.RateLimiterQPS > 0},
		envVar{"MIDDLEWARE_RATE_LIMIT_BURST", s.RateLimiterBurst > 0},
	); err != nil {
		return err
	}
	if s.PprofEnabled && s.PprofPort == "" {
		return errors.New("PPROF_PORT is required when PPROF_ENABLED=true")
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	d := cfg.Database
	return required(
		envVar{"POSTGRES_HOST", d.Host != ""},
		envVar{"POSTGRES_PORT", d.Port != ""},
		envVar{"POSTGRES_USER", d.User != ""},
		envVar{"POSTGRES_PASSWORD", d.Password != ""},
		envVar{"POSTGRES_DB", d.DBName != ""},
		envVar{"POSTGRES_SSLMODE", d.SSLMode != ""},
	)
}

func validateRedis(cfg *Config) error {
	return required(envVar{"REDIS_ADDR", cfg.Redis.Addr != ""})
}

func validateTasks(cfg *Config) error {
	if err := required(envVar{"OUTBOX_RELAY_INTERVAL", cfg.Tasks.OutboxRelayInterval > 0}); err != nil {
		return err
	}
	if cfg.Tasks.OutboxRelayBatch < 0 {
		return errors.New("OUTBOX_RELAY_BATCH must be positive")
	}
	return nil
}

func validateKafka(cfg *Config) error {
	k := cfg.Kafka
	return required(
		envVar{"KAFKA_BROKERS", len(k.BrokerList()) > 0},
		envVar{"KAFKA_TOPIC", k.Topic != ""},
		envVar{"KAFKA_CONSUMER_GROUP", k.ConsumerGroup != ""},
		envVar{"KAFKA_HTTP_HEALTHCHECK_PORT", k.PortHealthcheck != ""},
		envVar{"KAFKA_SARAMA_VERSION", k.Sarama.Version != ""},
		envVar{"KAFKA_HANDLER_ORDER_CHANGED_PROCESS_TIMEOUT", k.Handlers.OrderChanged.ProcessTimeout > 0},
	)
}

func validateDashboard(cfg *Config) error {
	switch cfg.Dashboard.TransitionPolicy {
	case "", "permissive", "lifecycle":
		return nil
	default:
		return fmt.Errorf("ORDER_TRANSITION_POLICY=%q is not supported (permissive, lifecycle)", cfg.Dashboard.TransitionPolicy)
	}
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
