package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"restboard/pkg/logger"
)

// Task периодическая фоновая задача.
type Task interface {
	// TTL интервал между запусками, <= 0 - только прогрев.
	TTL() time.Duration
	Do(context.Context) error
	// Info имя задачи для логов и метрик.
	Info() string
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Worker крутит набор задач до отмены контекста.
type Worker struct {
	log   handlerLogger
	tasks []Task
	wg    sync.WaitGroup
}

// New прогревает задачи параллельно и синхронно, затем запускает их по тикеру в фоне.
// Для outbox relay прогрев отправляет накопленные за простой события до старта http.
// Ошибка или паника любой задачи на прогреве возвращается из New, фоновые циклы не стартуют.
func New(ctx context.Context, log handlerLogger, tasks []Task) (*Worker, error) {
	w := &Worker{
		log:   log,
		tasks: tasks,
	}

	warmup, warmupCtx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		warmup.Go(func() error {
			w.log.Info("warming up task", logger.NewField("task", task.Info()))
			if err := w.safeDo(warmupCtx, task, "warmup"); err != nil {
				return fmt.Errorf("warmup %q: %w", task.Info(), err)
			}
			return nil
		})
	}
	if err := warmup.Wait(); err != nil {
		return nil, fmt.Errorf("failed to initialize tasks: %w", err)
	}

	for _, task := range tasks {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.loop(ctx, task)
		}()
	}

	return w, nil
}

// Wait ждет выхода всех фоновых циклов после отмены контекста.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context, task Task) {
	taskLog := w.log.With(
		logger.NewField("task", task.Info()),
		logger.NewField("ttl", task.TTL()),
	)

	ttl := task.TTL()
	if ttl <= 0 {
		taskLog.Warn("invalid TTL, skipping periodic execution")
		return
	}
	taskLog.Info("starting periodic execution")

	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			taskLog.Warn("stopping task (context cancelled)")
			return
		case <-ticker.C:
			if err := w.safeDo(ctx, task, "periodic"); err != nil {
				taskLog.Error("background task failed", logger.NewField("error", err))
			}
		}
	}
}

// safeDo превращает панику задачи в ошибку и пишет метрики запуска.
func (w *Worker) safeDo(ctx context.Context, task Task, phase string) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v\n%s", r, debug.Stack())
		}

		result := "ok"
		if err != nil {
			result = "error"
		}
		TaskRunsTotal.WithLabelValues(task.Info(), phase, result).Inc()
		TaskDuration.WithLabelValues(task.Info()).Observe(time.Since(start).Seconds())
	}()

	return task.Do(ctx)
}
