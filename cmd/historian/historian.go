package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/cache"
	"github.com/jason-s-yu/bang/internal/game"
	"github.com/jason-s-yu/bang/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// HistorianService drains the event queue into batches and flushes each batch in one
// transaction. It also notices games that stop sending events without finishing.
type HistorianService struct {
	redisClient *redis.Client
	queue       string
	batchSize   int
	flushDelay  time.Duration
	inactivity  time.Duration // a game silent this long without game_over is abandoned
	popTimeout  time.Duration
	log         logrus.FieldLogger
	flush       func(context.Context, []models.GameActionRecord) error

	lastActivity sync.Map // uuid.UUID -> time.Time

	batchMu sync.Mutex
	batch   []models.GameActionRecord
}

// Run blocks until ctx is cancelled, then flushes what is left.
func (hs *HistorianService) Run(ctx context.Context) {
	if hs.batchSize < 1 {
		hs.batchSize = 1
	}
	hs.log.WithFields(logrus.Fields{"queue": hs.queue, "batch": hs.batchSize}).Info("historian started")

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); hs.readRedisLoop(ctx) }()
	go func() { defer wg.Done(); hs.flushLoop(ctx) }()
	go func() { defer wg.Done(); hs.inactivityLoop(ctx) }()
	wg.Wait()

	// the run context is gone; give the final flush its own deadline
	final, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hs.flushBatch(final)
}

// readRedisLoop pops records until ctx ends. Pop blocks for at most popTimeout so
// cancellation is noticed.
func (hs *HistorianService) readRedisLoop(ctx context.Context) {
	for ctx.Err() == nil {
		rec, err := cache.Pop(ctx, hs.redisClient, hs.queue, hs.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			hs.log.WithError(err).Error("pop failed")
			continue
		}
		if rec == nil {
			continue
		}
		if rec.ActionType == string(game.EventGameOver) {
			hs.lastActivity.Delete(rec.GameID)
		} else {
			hs.lastActivity.Store(rec.GameID, time.Now())
		}
		hs.appendToBatch(ctx, *rec)
	}
}

func (hs *HistorianService) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hs.flushBatch(ctx)
		}
	}
}

// appendToBatch adds a record and flushes once the batch is full.
func (hs *HistorianService) appendToBatch(ctx context.Context, rec models.GameActionRecord) {
	hs.batchMu.Lock()
	hs.batch = append(hs.batch, rec)
	full := len(hs.batch) >= hs.batchSize
	hs.batchMu.Unlock()
	if full {
		hs.flushBatch(ctx)
	}
}

// flushBatch writes the pending records. On failure they are kept for the next try.
func (hs *HistorianService) flushBatch(ctx context.Context) {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()

	if len(hs.batch) == 0 {
		return
	}
	if err := hs.flush(ctx, hs.batch); err != nil {
		hs.log.WithError(err).WithField("events", len(hs.batch)).Error("flush failed")
		return
	}
	hs.log.WithField("events", len(hs.batch)).Debug("flushed events")
	hs.batch = hs.batch[:0]
}

func (hs *HistorianService) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			hs.sweepInactive(now)
		}
	}
}

// sweepInactive forgets games idle longer than the inactivity window and returns them.
func (hs *HistorianService) sweepInactive(now time.Time) []uuid.UUID {
	var idle []uuid.UUID
	hs.lastActivity.Range(func(key, val interface{}) bool {
		gameID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if ok1 && ok2 && now.Sub(last) > hs.inactivity {
			idle = append(idle, gameID)
			hs.lastActivity.Delete(gameID)
			hs.log.WithField("game", gameID).Warn("game abandoned: no events within the inactivity window")
		}
		return true
	})
	return idle
}
