package live

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/models"
)

// ChangesChannel is the redis pub/sub channel carrying Change JSON.
const ChangesChannel = "eventboard:changes"

// RedisBridge publishes changes to redis and relays everything on the
// channel, including its own messages, into the local hub. Every server
// process sharing the redis instance thus notifies its own dashboards.
type RedisBridge struct {
	client *redis.Client
	hub    *Hub
	logger *zap.Logger
}

func NewRedisBridge(client *redis.Client, hub *Hub, logger *zap.Logger) *RedisBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBridge{client: client, hub: hub, logger: logger}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Publish implements planner.Publisher. When redis is unreachable the change
// still reaches this process's dashboards.
func (b *RedisBridge) Publish(ctx context.Context, change models.Change) {
	msg, err := json.Marshal(change)
	if err != nil {
		b.logger.Error("encode change", zap.Error(err))
		return
	}
	// The change is already committed; a cancelled request must not stop
	// the notification.
	ctx = context.WithoutCancel(ctx)
	if err := b.client.Publish(ctx, ChangesChannel, msg).Err(); err != nil {
		b.logger.Warn("publish change to redis", zap.Error(err))
		b.hub.Broadcast(msg)
	}
}

// Run relays channel messages into the hub until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, ChangesChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", ChangesChannel, err)
	}
	b.logger.Info("relaying changes from redis", zap.String("channel", ChangesChannel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.hub.Broadcast([]byte(msg.Payload))
		}
	}
}
