package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"restboard/internal/pkg/config"
	"restboard/pkg/logger"
)

// Consumer consumer group воркера изменений заказов.
type Consumer struct {
	log     logger.Logger
	group   sarama.ConsumerGroup
	topics  []string
	handler sarama.ConsumerGroupHandler
}

// NewSaramaConsumerConfig новая группа читает топик с начала: события, накопленные в outbox до
// первого старта воркера, тоже доходят до лент. Sticky сохраняет партиции тенантов при ребалансе.
func NewSaramaConsumerConfig(sc config.Sarama) (*sarama.Config, error) {
	cfg := sarama.NewConfig()

	version, err := parseVersion(sc.Version)
	if err != nil {
		return nil, err
	}
	cfg.Version = version

	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Offsets.AutoCommit.Enable = sc.ConsumerOffsetsAutocommit
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategySticky()}

	return cfg, nil
}

func NewConsumer(ctx context.Context, log logger.Logger, cfg *config.Kafka, handler sarama.ConsumerGroupHandler) (*Consumer, error) {
	saramaConfig, err := NewSaramaConsumerConfig(cfg.Sarama)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}

	brokers := cfg.BrokerList()
	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("group", cfg.ConsumerGroup),
		logger.NewField("topic", cfg.Topic),
	)

	err = pingKafka(ctx, kafkaLog, brokers, cfg.Topic, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	group, err := sarama.NewConsumerGroup(brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		log:     kafkaLog,
		group:   group,
		topics:  []string{cfg.Topic},
		handler: handler,
	}, nil
}

// Start блокирует до отмены ctx или закрытия группы.
// Consume возвращается на каждом ребалансе, поэтому вызывается в цикле.
func (c *Consumer) Start(ctx context.Context) error {
	go c.drainErrors()

	for {
		err := c.group.Consume(ctx, c.topics, c.handler)
		switch {
		case errors.Is(err, sarama.ErrClosedConsumerGroup):
			return err
		case err != nil:
			c.log.With(
				logger.NewField("error", err),
			).Error("consumer group session failed")
			return fmt.Errorf("consume %v: %w", c.topics, err)
		}

		if ctx.Err() != nil {
			c.log.Warn("context cancelled, stopping consumer")
			return ctx.Err()
		}
		c.log.Info("consumer group rebalanced")
	}
}

// drainErrors ошибки коммита offset и fetch приходят асинхронно и не прерывают сессию.
func (c *Consumer) drainErrors() {
	for err := range c.group.Errors() {
		c.log.With(
			logger.NewField("error", err),
		).Warn("consumer group error")
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}
