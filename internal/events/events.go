package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event is a live dashboard notification. Events are advisory: the dashboard
// can always rebuild its view from the store, so publishing is best-effort
// and losing one is harmless.
type Event struct {
	Type Type `json:"type"`

	CampaignID int64  `json:"campaign_id,omitempty"`
	LeadID     int64  `json:"lead_id,omitempty"`
	CallID     int64  `json:"call_id,omitempty"`
	Outcome    string `json:"outcome,omitempty"`

	At time.Time `json:"at"`
}

type Type string

const (
	TypeLeadDialing    Type = "lead_dialing"
	TypeCallPlaced     Type = "call_placed"
	TypeDispatchFailed Type = "dispatch_failed"
	TypeCallCompleted  Type = "call_completed"
)

// Publisher pushes live events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// DefaultChannel is the pub/sub channel the dashboard listens on.
const DefaultChannel = "salescaller.events"

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}

// NopPublisher drops events; used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
