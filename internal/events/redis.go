package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AioliaTech/api-ia/internal/cache"
)

// RedisBus carries refresh events over Redis pub/sub, sharing the cache
// connection.
type RedisBus struct {
	client  *cache.RedisClient
	channel string
}

// NewRedisBus creates a bus on channel. The client stays owned by the caller.
func NewRedisBus(client *cache.RedisClient, channel string) *RedisBus {
	return &RedisBus{client: client, channel: channel}
}

// Publish implements Bus.
func (b *RedisBus) Publish(ctx context.Context, evt InventoryRefreshed) error {
	return b.client.Publish(ctx, b.channel, evt)
}

// Subscribe implements Bus. Malformed messages are dropped.
func (b *RedisBus) Subscribe(ctx context.Context, h Handler) (func(), error) {
	ch, unsubscribe, err := b.client.Subscribe(ctx, b.channel)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	go func() {
		for data := range ch {
			var evt InventoryRefreshed
			if err := json.Unmarshal(data, &evt); err != nil {
				continue
			}
			h(context.Background(), evt)
		}
	}()
	return unsubscribe, nil
}

// Close is a no-op; the cache owns the connection.
func (b *RedisBus) Close() error {
	return nil
}
