// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client, connected once at startup. It stays nil
// when REDIS_ADDR is unset, which disables action logging entirely; the
// game server never depends on Redis being reachable.
var Rdb *redis.Client

// DefaultQueueName is the Redis list the historian drains.
var DefaultQueueName = "uno_actions"

// ErrNotConnected is returned by PublishGameAction when logging is disabled.
var ErrNotConnected = errors.New("redis not connected")

// GameActionRecord is one append-only entry of a game's action log, keyed by
// the game's internal uuid rather than its short join code.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorID       uuid.UUID              `json:"actor_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// ConnectRedis initializes the global client from REDIS_ADDR and REDIS_DB.
// An empty REDIS_ADDR leaves the client nil and returns nil.
func ConnectRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   getEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishGameAction serializes the record and pushes it onto the historian
// queue. Cheap enough to call inline; callers treat failures as advisory.
func PublishGameAction(ctx context.Context, record GameActionRecord) error {
	if Rdb == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}
	queueName := getEnv("HISTORIAN_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", queueName, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
