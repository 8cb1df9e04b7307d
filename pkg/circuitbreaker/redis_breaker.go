package circuitbreaker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBreaker keeps the breaker state in redis so every client instance
// pointed at the same registry environment shares it.
type RedisBreaker struct {
	// Redis client used to read and update the circuit state.
	rdb *redis.Client
	// Name of the breaker, usually the registry environment. Part of every key.
	name   string
	opts   Options
	logger *slog.Logger
}

func NewRedisBreaker(rdb *redis.Client, name string, opts Options, logger *slog.Logger) *RedisBreaker {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisBreaker{
		rdb:  rdb,
		name: name,
		opts: opts,
		logger: logger.With(
			slog.String("component", "circuitbreaker"),
			slog.String("breaker", name),
		),
	}
}

type keySet struct {
	open    string
	fails   string
	tripped string
	lease   string
}

func (b *RedisBreaker) keys() keySet {
	prefix := b.opts.Prefix + b.name + ":"
	return keySet{
		open:    prefix + "open",
		fails:   prefix + "fails",
		tripped: prefix + "tripped",
		lease:   prefix + "lease",
	}
}

// Allow returns nil if the call may proceed, or an error wrapping
// ErrCircuitOpen if it must be blocked. After the cool-down only the holder
// of the half-open lease may probe.
func (b *RedisBreaker) Allow(ctx context.Context) error {
	k := b.keys()

	state, err := b.rdb.Exists(ctx, k.open, k.tripped).Result()
	if err != nil {
		return b.blind(err)
	}
	if state == 0 {
		return nil
	}

	open, err := b.rdb.Exists(ctx, k.open).Result()
	if err != nil {
		return b.blind(err)
	}
	if open == 1 {
		return ErrCircuitOpen
	}

	acquired, err := b.rdb.SetNX(ctx, k.lease, "1", b.opts.HalfOpenLease).Result()
	if err != nil {
		return b.blind(err)
	}
	if !acquired {
		return ErrCircuitOpen
	}

	b.logger.InfoContext(ctx, "circuit half-open, probing")
	return nil
}

// blind decides what to do when redis cannot be read.
func (b *RedisBreaker) blind(err error) error {
	b.logger.Warn("circuit state unavailable", slog.Any("error", err), slog.Bool("fail_open", b.opts.FailOpen))
	if b.opts.FailOpen {
		return nil
	}
	return fmt.Errorf("%w: state unavailable: %w", ErrCircuitOpen, err)
}

func (b *RedisBreaker) OnSuccess(ctx context.Context) {
	k := b.keys()

	n, err := b.rdb.Del(ctx, k.fails, k.tripped, k.lease).Result()
	if err == nil && n > 0 {
		b.logger.DebugContext(ctx, "circuit closed")
	}
}

// Release frees the half-open lease without changing the circuit state.
func (b *RedisBreaker) Release(ctx context.Context) {
	if err := b.rdb.Del(ctx, b.keys().lease).Err(); err != nil {
		b.logger.WarnContext(ctx, "could not release half-open lease", slog.Any("error", err))
	}
}

func (b *RedisBreaker) OnFailure(ctx context.Context) {
	k := b.keys()

	// a failed half-open probe reopens at once
	tripped, err := b.rdb.Exists(ctx, k.tripped).Result()
	if err == nil && tripped == 1 {
		b.trip(ctx, k)
		return
	}

	fails, err := b.rdb.Incr(ctx, k.fails).Result()
	if err != nil {
		return
	}

	ttl, err := b.rdb.PTTL(ctx, k.fails).Result()
	if err == nil && ttl < 0 {
		_ = b.rdb.PExpire(ctx, k.fails, b.opts.FailWindow).Err()
	}

	if int(fails) >= b.opts.FailureThreshold {
		b.trip(ctx, k)
	}
}

func (b *RedisBreaker) trip(ctx context.Context, k keySet) {
	_, err := b.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, k.open, "1", b.opts.OpenCoolDown)
		p.Set(ctx, k.tripped, "1", 0)
		p.Del(ctx, k.fails, k.lease)
		return nil
	})
	if err != nil {
		b.logger.WarnContext(ctx, "could not open circuit", slog.Any("error", err))
		return
	}
	b.logger.WarnContext(ctx, "circuit opened", slog.Duration("cool_down", b.opts.OpenCoolDown))
}
