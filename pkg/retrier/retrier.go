package retrier

import (
	"context"
	"time"
)

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type ShouldRetryFunc func(error) bool

// NotifyFunc вызывается перед каждой повторной попыткой.
type NotifyFunc func(err error, next time.Duration)

type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// 0 - ретраим пока не отменят контекст
	MaxElapsedTime time.Duration
	// 0 - без ограничения числа повторов
	MaxRetries    uint64
	Randomization float64
	Multiplier    float64

	// nil - ретраятся все ошибки
	ShouldRetry ShouldRetryFunc
	Notify      NotifyFunc
}

// StartupConfig политика ожидания соседнего контейнера при старте.
func StartupConfig(initial, maxInterval time.Duration) Config {
	return Config{
		InitialInterval: initial,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  2 * time.Minute,
		Randomization:   0.5,
		Multiplier:      2,
	}
}
