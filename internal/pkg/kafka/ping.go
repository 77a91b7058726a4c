package kafka

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/IBM/sarama"
	"restboard/pkg/logger"
	"restboard/pkg/retrier"
	"restboard/pkg/retrier/backoff_adapter"
)

const (
	pingInitialInterval = 1 * time.Second
	pingMaxInterval     = 30 * time.Second
)

// pingKafka ждет брокеры и проверяет, что topic уже создан.
// Без топика producer relay упрется в UNKNOWN_TOPIC_OR_PARTITION на первой партии.
func pingKafka(ctx context.Context, log logger.Logger, brokers []string, topic string, cfg *sarama.Config) error {
	startup := backoff_adapter.New(retrier.StartupConfig(pingInitialInterval, pingMaxInterval))

	return retrier.Await(ctx, startup, log, "Kafka", func(context.Context) error {
		client, err := sarama.NewClient(brokers, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close Kafka connection",
					logger.NewField("error", err),
				)
			}
		}()

		topics, err := client.Topics()
		if err != nil {
			return err
		}
		if !slices.Contains(topics, topic) {
			return fmt.Errorf("topic %q not found", topic)
		}
		return nil
	})
}

func parseVersion(versionStr string) (sarama.KafkaVersion, error) {
	version, err := sarama.ParseKafkaVersion(versionStr)
	if err != nil {
		return sarama.KafkaVersion{}, fmt.Errorf("parse kafka version %q: %w", versionStr, err)
	}
	return version, nil
}
