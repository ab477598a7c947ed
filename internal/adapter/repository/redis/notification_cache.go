package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/autotransfer/internal/domain"
)

// DefaultNotificationTTL bounds how far back a reconnecting client can replay.
const DefaultNotificationTTL = time.Hour

// NotificationCache implements usecase.NotificationCache with one sorted set
// per member scored by creation time in milliseconds.
type NotificationCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewNotificationCache creates a new NotificationCache.
func NewNotificationCache(client redis.UniversalClient, ttl time.Duration) *NotificationCache {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &NotificationCache{
		client: client,
		prefix: "notifications:",
		ttl:    ttl,
		now:    time.Now,
	}
}

type cachedNotification struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
}

// Append adds n to its member's set and drops entries older than the TTL.
func (c *NotificationCache) Append(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(cachedNotification{
		CreatedAt: n.CreatedAt,
		ID:        n.ID,
		MemberID:  n.MemberID,
		Kind:      string(n.Kind),
		Message:   n.Message,
	})
	if err != nil {
		return err
	}

	key := c.prefix + n.MemberID
	cutoff := c.now().Add(-c.ttl).UnixMilli()

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(n.CreatedAt.UnixMilli()), Member: payload})
		pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(cutoff, 10))
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})

	return err
}

// Since returns cached notifications created after lastEventID, oldest first.
// An unknown or empty lastEventID returns everything still cached.
func (c *NotificationCache) Since(ctx context.Context, memberID, lastEventID string) ([]*domain.Notification, error) {
	cutoff := c.now().Add(-c.ttl).UnixMilli()

	raw, err := c.client.ZRangeByScore(ctx, c.prefix+memberID, &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Notification, 0, len(raw))
	for _, item := range raw {
		var cn cachedNotification
		if err := json.Unmarshal([]byte(item), &cn); err != nil {
			return nil, err
		}

		if cn.ID == lastEventID {
			out = out[:0]
			continue
		}

		out = append(out, &domain.Notification{
			CreatedAt: cn.CreatedAt,
			ID:        cn.ID,
			MemberID:  cn.MemberID,
			Kind:      domain.NotificationKind(cn.Kind),
			Message:   cn.Message,
		})
	}

	return out, nil
}
