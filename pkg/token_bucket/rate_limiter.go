package token_bucket

import (
	"sync"
	"time"
)

/*
Allow либо принимает запрос, либо отклоняет, очереди нет.
Токены дробные, чтобы медленный refillRate не терялся на округлении.
*/

type Limiter interface {
	Allow() bool
}

type options struct {
	now        func() time.Time
	sweepEvery int
}

type Option func(*options)

// WithClock источник времени для пополнения, в тестах - ручные часы.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithSweepEvery через сколько вызовов Keyed.Allow чистить простаивающие ведра.
func WithSweepEvery(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sweepEvery = n
		}
	}
}

const defaultSweepEvery = 1024

func buildOptions(opts []Option) options {
	o := options{
		now:        time.Now,
		sweepEvery: defaultSweepEvery,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type TokenBucket struct {
	capacity   float64
	refillRate float64
	now        func() time.Time

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

func NewTokenBucket(capacity int, refillRate float64, opts ...Option) *TokenBucket {
	o := buildOptions(opts)
	return newBucket(capacity, refillRate, o.now)
}

func newBucket(capacity int, refillRate float64, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		now:        now,
		tokens:     float64(capacity),
		lastRefill: now(),
	}
}

func (t *TokenBucket) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill(t.now())
	if t.tokens < 1 {
		return false
	}
	t.tokens--
	return true
}

// idle ведро полное: новое ведро для того же ключа ничем бы не отличалось.
func (t *TokenBucket) idle(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill(now)
	return t.tokens >= t.capacity
}

func (t *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(t.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	t.tokens = min(t.capacity, t.tokens+elapsed*t.refillRate)
	t.lastRefill = now
}

// Keyed отдельное ведро на ключ (tenant_id), шумный ресторан не выедает лимит остальных.
type Keyed struct {
	capacity   int
	refillRate float64
	opts       options

	mu      sync.Mutex
	buckets map[string]*TokenBucket
	calls   int
}

func NewKeyed(capacity int, refillRate float64, opts ...Option) *Keyed {
	return &Keyed{
		capacity:   capacity,
		refillRate: refillRate,
		opts:       buildOptions(opts),
		buckets:    make(map[string]*TokenBucket),
	}
}

func (k *Keyed) Allow(key string) bool {
	return k.bucket(key).Allow()
}

// Len сколько ведер сейчас в реестре.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.buckets)
}

func (k *Keyed) bucket(key string) *TokenBucket {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.calls++
	if k.calls%k.opts.sweepEvery == 0 {
		now := k.opts.now()
		for key, b := range k.buckets {
			if b.idle(now) {
				delete(k.buckets, key)
			}
		}
	}

	b, ok := k.buckets[key]
	if !ok {
		b = newBucket(k.capacity, k.refillRate, k.opts.now)
		k.buckets[key] = b
	}
	return b
}
