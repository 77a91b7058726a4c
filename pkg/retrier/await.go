package retrier

import (
	"context"
	"fmt"

	"restboard/pkg/logger"
)

// Await повторяет probe по политике r, пока зависимость не ответит.
// target попадает в логи и текст ошибки: "Database", "Redis", "Kafka".
func Await(ctx context.Context, r Retrier, log logger.Logger, target string, probe func(context.Context) error) error {
	var attempt uint64
	err := r.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		log.With(
			logger.NewField("attempt", attempt),
		).Info("attempting " + target + " connection")

		return probe(ctx)
	})
	if err != nil {
		log.With(
			logger.NewField("error", err),
			logger.NewField("attempts", attempt),
		).Error(target + " connection failed after retries")
		return fmt.Errorf("%s unreachable after %d attempts: %w", target, attempt, err)
	}

	log.With(
		logger.NewField("attempts", attempt),
	).Info(target + " connection established")
	return nil
}
