package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bozylik/sa-es-map/internal/domain"
)

// EventCache keeps a short-lived snapshot of the approved event set so
// the polling clients do not hit Postgres on every refresh. A miss or a
// Redis failure falls back to the database upstream.
type EventCache struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

func NewEventCache(r *Redis, ttl time.Duration) *EventCache {
	return &EventCache{
		client: r.Client,
		key:    "events:approved",
		ttl:    ttl,
	}
}

// GetApproved returns (nil, nil) on a cache miss.
func (c *EventCache) GetApproved(ctx context.Context) ([]*domain.Event, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var events []*domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (c *EventCache) SetApproved(ctx context.Context, events []*domain.Event) error {
	b, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, c.ttl).Err()
}

// Invalidate drops the snapshot after any write to the published set.
func (c *EventCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
