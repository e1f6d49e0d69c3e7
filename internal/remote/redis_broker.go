package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBroker publishes ChangeEvents on a Redis pub/sub channel so every
// replica sees every write. A replica also receives its own events.
type RedisBroker struct {
	client  *redis.Client
	channel string

	mu   sync.Mutex
	subs map[*redis.PubSub]struct{}
}

// NewRedisBroker connects to url (redis://...) and verifies the connection.
func NewRedisBroker(url, channel string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBroker{
		client:  client,
		channel: channel,
		subs:    make(map[*redis.PubSub]struct{}),
	}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, ev ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

func (b *RedisBroker) Subscribe(handler func(ChangeEvent)) func() {
	pubsub := b.client.Subscribe(context.Background(), b.channel)

	b.mu.Lock()
	b.subs[pubsub] = struct{}{}
	b.mu.Unlock()

	go func() {
		for msg := range pubsub.Channel() {
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				slog.Warn("dropping malformed change event", "channel", b.channel, "error", err)
				continue
			}
			handler(ev)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, pubsub)
			b.mu.Unlock()
			pubsub.Close()
		})
	}
}

func (b *RedisBroker) Close() error {
	b.mu.Lock()
	for ps := range b.subs {
		ps.Close()
	}
	b.subs = make(map[*redis.PubSub]struct{})
	b.mu.Unlock()
	return b.client.Close()
}
