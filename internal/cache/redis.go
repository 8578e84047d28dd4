// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/game"
	"github.com/jason-s-yu/bang/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list game events are pushed to.
const DefaultQueueName = "bang_events"

// Connect opens a client on addr/db and pings it.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Historian forwards game events to the historian queue. Its Record method fits
// game.Options.EventFn.
type Historian struct {
	client *redis.Client
	queue  string
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewHistorian(client *redis.Client, queue string, log logrus.FieldLogger) *Historian {
	if queue == "" {
		queue = DefaultQueueName
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Historian{client: client, queue: queue, log: log, now: time.Now}
}

// Record publishes ev. Failures are logged and the event is dropped.
func (h *Historian) Record(ev game.GameEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Publish(ctx, ToRecord(ev, h.now())); err != nil {
		h.log.WithFields(logrus.Fields{"game": ev.GameID, "seq": ev.Seq}).WithError(err).Warn("historian publish failed")
	}
}

// Publish serializes rec to JSON and pushes it to the queue.
func (h *Historian) Publish(ctx context.Context, rec models.GameActionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}
	if err := h.client.RPush(ctx, h.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", h.queue, err)
	}
	return nil
}

// Pop blocks up to timeout for the next record. It returns nil, nil when the queue
// stayed empty.
func Pop(ctx context.Context, client *redis.Client, queue string, timeout time.Duration) (*models.GameActionRecord, error) {
	res, err := client.BLPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("BLPop %s: %w", queue, err)
	}
	if len(res) < 2 {
		return nil, nil
	}
	// res[0] is the queue name and res[1] the payload
	var rec models.GameActionRecord
	if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
		return nil, fmt.Errorf("invalid action record: %w", err)
	}
	return &rec, nil
}

// ToRecord flattens an event into the queued form. The card, if any, and the event
// payload end up in the record payload.
func ToRecord(ev game.GameEvent, at time.Time) models.GameActionRecord {
	rec := models.GameActionRecord{
		GameID:     ev.GameID,
		Seq:        ev.Seq,
		ActionType: string(ev.Type),
		Payload:    make(map[string]interface{}, len(ev.Payload)+1),
		Timestamp:  at.UnixMilli(),
	}
	rec.ActorID = userID(ev.User)
	rec.TargetID = userID(ev.Target)
	for k, v := range ev.Payload {
		rec.Payload[k] = v
	}
	if ev.Card != nil {
		rec.Payload["card"] = map[string]interface{}{
			"id":   ev.Card.ID.String(),
			"name": ev.Card.Name,
			"suit": ev.Card.Suit,
			"rank": ev.Card.Rank,
		}
	}
	return rec
}

func userID(u *game.EventUser) uuid.UUID {
	if u == nil {
		return uuid.Nil
	}
	return u.ID
}
