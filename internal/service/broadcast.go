package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// GameBroadcast is the typed envelope published on room/session topics.
type GameBroadcast struct {
	Type          string      `json:"type"`
	ParticipantID string      `json:"participantId,omitempty"`
	Data          interface{} `json:"data,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// Broadcaster publishes near-real-time game events to subscribers.
type Broadcaster interface {
	PublishRoom(roomID string, event GameBroadcast)
	PublishSession(sessionID string, event GameBroadcast)
}

// RedisBroadcaster fans events out over Redis pub/sub. Publish failures are
// logged and dropped; the event log in the store remains the durable record.
type RedisBroadcaster struct {
	rdb *redis.Client
}

func NewRedisBroadcaster(rdb *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb}
}

func (b *RedisBroadcaster) publish(topic string, event GameBroadcast) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("broadcast marshal failed", zap.String("topic", topic), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.rdb.Publish(ctx, topic, payload).Err(); err != nil {
		logger.Log.Warn("broadcast publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

func (b *RedisBroadcaster) PublishRoom(roomID string, event GameBroadcast) {
	b.publish("room:"+roomID, event)
}

func (b *RedisBroadcaster) PublishSession(sessionID string, event GameBroadcast) {
	b.publish("session:"+sessionID, event)
}
