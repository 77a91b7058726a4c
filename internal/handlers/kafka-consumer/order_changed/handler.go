package order_changed

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"restboard/internal/pkg/events"
	"restboard/internal/service/changes"
	"restboard/pkg/logger"
)

type Handler struct {
	changesService           Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, changesService Service, timeout time.Duration) *Handler {
	handlerLog := log.With(
		logger.NewField("handler", "order.changed"),
	)

	return &Handler{
		changesService:           changesService,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				// Messages() закрыт, выходим
				h.log.Info("order.changed: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// Сессия закрыта (rebalance или остановка consumer group), выходим
			h.log.Info("order.changed: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одно сообщение из Kafka.
// Возвращает true, если нужно прервать ConsumeClaim (при отмене контекста), сообщение тогда не коммитится.
// Битые сообщения и события, которые нельзя опубликовать, логируются и коммитятся.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	event, err := events.Decode(message.Value)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
			logger.NewField("partition", message.Partition),
		).Error("order.changed handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("tenant_id", event.TenantID),
		logger.NewField("order", event.OrderID()),
		logger.NewField("type", event.Type.String()),
		logger.NewField("offset", message.Offset),
	)

	err = h.changesService.Publish(ctx, event)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("order.changed handler context cancelled, message will be reprocessed")
			return true

		case errors.Is(err, changes.ErrInvalidEvent), errors.Is(err, changes.ErrTenantMismatch):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("order.changed handler rejected event")

		default:
			// подписчики ресинкаются при переподключении, повтор публикации не нужен
			msgLog.With(
				logger.NewField("error", err),
			).Warn("order.changed handler failed to publish event")
		}
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.Info("order.changed: published")

	sess.MarkMessage(message, "")
	return false
}
