// cmd/historian is an asynchronous worker that pops game events from the Redis queue
// and archives them in PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/bang/internal/cache"
	"github.com/jason-s-yu/bang/internal/config"
	"github.com/jason-s-yu/bang/internal/database"
	"github.com/jason-s-yu/bang/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	logger := logrus.New()

	flags := pflag.NewFlagSet("historian", pflag.ExitOnError)
	envFile := flags.String("env-file", ".env", "dotenv file to load")
	flags.String("database-url", "", "PostgreSQL connection string")
	flags.String("redis-addr", "", "Redis address")
	flags.String("queue-name", "", "Redis list to drain")
	flags.Int("batch-size", 0, "events per transaction")
	_ = flags.Parse(os.Args[1:])

	if err := config.LoadDotEnv(*envFile); err != nil {
		logger.Fatal(err)
	}
	v := config.New()
	if err := config.BindFlags(v, flags); err != nil {
		logger.Fatal(err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		logger.Fatal(err)
	}
	logger = cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal(err)
	}

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal(err)
	}
	defer rdb.Close()

	hs := &HistorianService{
		redisClient: rdb,
		queue:       cfg.QueueName,
		batchSize:   cfg.BatchSize,
		flushDelay:  time.Duration(cfg.FlushMs) * time.Millisecond,
		inactivity:  time.Duration(cfg.IdleTimeout) * time.Second,
		popTimeout:  3 * time.Second,
		log:         logger,
		flush: func(ctx context.Context, recs []models.GameActionRecord) error {
			return database.InsertGameEvents(ctx, pool, recs)
		},
	}
	hs.Run(ctx)
	logger.Info("historian shutdown complete")
}
