package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"restboard/internal/entities"
	"restboard/internal/pkg/config"
	"restboard/pkg/logger"
)

const (
	producerRetryMax = 5
	eventIDHeader    = "event_id"
)

// Producer синхронный продюсер для outbox relay.
type Producer struct {
	log      logger.Logger
	producer sarama.SyncProducer
}

// NewSaramaProducerConfig ключ сообщения - тенант, hash partitioner держит события тенанта в одной партиции.
func NewSaramaProducerConfig(versionStr string) (*sarama.Config, error) {
	cfg := sarama.NewConfig()

	version, err := parseVersion(versionStr)
	if err != nil {
		return nil, err
	}
	cfg.Version = version

	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Retry.Max = producerRetryMax
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	return cfg, nil
}

func NewProducer(ctx context.Context, log logger.Logger, cfg *config.Kafka) (*Producer, error) {
	saramaConfig, err := NewSaramaProducerConfig(cfg.Sarama.Version)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}

	brokers := cfg.BrokerList()
	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("topic", cfg.Topic),
	)

	err = pingKafka(ctx, kafkaLog, brokers, cfg.Topic, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync producer: %w", err)
	}

	return NewProducerFromSarama(kafkaLog, producer), nil
}

func NewProducerFromSarama(log logger.Logger, producer sarama.SyncProducer) *Producer {
	return &Producer{
		log:      log,
		producer: producer,
	}
}

// Send отправляет запись outbox и ждет подтверждения брокера.
func (p *Producer) Send(ctx context.Context, record entities.OutboxRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: record.Topic,
		Key:   sarama.StringEncoder(record.Key),
		Value: sarama.ByteEncoder(record.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(eventIDHeader), Value: []byte(record.EventID)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send message %s: %w", record.EventID, err)
	}

	p.log.With(
		logger.NewField("event_id", record.EventID),
		logger.NewField("partition", partition),
		logger.NewField("offset", offset),
	).Info("outbox event produced")
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
