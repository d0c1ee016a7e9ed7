package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clinicflow/agenda-api/pkg/circuitbreaker"
	"github.com/clinicflow/agenda-api/pkg/messaging"
	"github.com/clinicflow/agenda-api/pkg/metrics"
)

type RedisBroker struct {
	client       *redis.Client
	cb           *circuitbreaker.CircuitBreaker
	logger       *zerolog.Logger
	metrics      *metrics.Metrics
	retryBackoff time.Duration
}

type Config struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

func NewRedisBroker(config Config, logger *zerolog.Logger, m *metrics.Metrics) (messaging.Broker, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = config.MaxRetries
	opts.MinRetryBackoff = config.RetryBackoff
	opts.PoolSize = config.PoolSize
	opts.MinIdleConns = config.MinIdleConns

	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "redis-broker",
		MaxFailures: 5,
		Timeout:     5 * time.Second,
	})

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	backoff := config.RetryBackoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}

	return &RedisBroker{
		client:       client,
		cb:           cb,
		logger:       logger,
		metrics:      m,
		retryBackoff: backoff,
	}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	err = b.cb.Execute(func() error {
		return b.client.Publish(ctx, channel, payload).Err()
	})
	recordOp(b.metrics, "publish", err)
	return err
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := b.client.Subscribe(ctx, channel)
	msgChan := make(chan []byte, 100)

	go func() {
		defer func() {
			pubsub.Close()
			close(msgChan)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			var msg *redis.Message
			err := b.cb.Execute(func() error {
				var rerr error
				msg, rerr = pubsub.ReceiveMessage(ctx)
				return rerr
			})
			recordOp(b.metrics, "receive", err)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				b.logger.Warn().Err(err).Str("channel", channel).Msg("receive failed, retrying")
				// Backoff covers the open-breaker window, where Execute
				// returns without touching the connection.
				select {
				case <-ctx.Done():
					return
				case <-time.After(b.retryBackoff):
				}
				continue
			}
			msgChan <- []byte(msg.Payload)
		}
	}()

	return msgChan, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

// recordOp counts one broker operation. Metrics are optional.
func recordOp(m *metrics.Metrics, operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RedisOperations.WithLabelValues(operation, status).Inc()
}
