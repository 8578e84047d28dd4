package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/bot"
	"github.com/jason-s-yu/bang/internal/cache"
	"github.com/jason-s-yu/bang/internal/database"
	"github.com/jason-s-yu/bang/internal/game"
	"github.com/jason-s-yu/bang/internal/saves"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var simOpts struct {
	games     int
	players   int
	seed      int64
	maxTurns  int
	parallel  int
	script    string
	historian bool
	save      bool
	quiet     bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play games between bots",
	Long: `Simulate deals and plays complete games with every seat driven by a bot. A single
game is narrated to stdout; several games run concurrently and only the tally is
printed.

Examples:
  bang simulate --players 7
  bang simulate --games 200 --seed 1 --quiet
  bang simulate --lua bots/cautious.lua --historian`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if simOpts.games < 1 {
			return fmt.Errorf("--games must be at least 1")
		}
		if simOpts.players < game.MinPlayers || simOpts.players > game.MaxPlayers {
			return &game.PlayerCountError{Got: simOpts.players}
		}
		return simulate(cmd.Context())
	},
}

func init() {
	f := simulateCmd.Flags()
	f.IntVarP(&simOpts.games, "games", "n", 1, "number of games")
	f.IntVarP(&simOpts.players, "players", "p", 5, "seats per game (4-7)")
	f.Int64Var(&simOpts.seed, "seed", 0, "base seed; game i uses seed+i (0 picks one from the clock)")
	f.IntVar(&simOpts.maxTurns, "max-turns", 1000, "abandon a game after this many turns")
	f.IntVar(&simOpts.parallel, "parallel", runtime.NumCPU(), "games run at once")
	f.StringVar(&simOpts.script, "lua", "", "Lua bot script answering every choice")
	f.BoolVar(&simOpts.historian, "historian", false, "push every event to the Redis historian queue")
	f.BoolVar(&simOpts.save, "save", false, "save each finished game (PostgreSQL when DATABASE_URL is set)")
	f.BoolVarP(&simOpts.quiet, "quiet", "q", false, "no narration")
}

type tally struct {
	mu        sync.Mutex
	outcomes  map[game.Outcome]int
	abandoned int
	turns     int
}

func (t *tally) add(out game.Outcome, turns int, abandoned bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns += turns
	if abandoned {
		t.abandoned++
		return
	}
	t.outcomes[out]++
}

func simulate(ctx context.Context) error {
	seed := simOpts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var (
		emitters []func(game.GameEvent)
		narr     *narrator
	)
	if simOpts.games == 1 && !simOpts.quiet {
		narr = newNarrator(os.Stdout)
		emitters = append(emitters, narr.Event)
	}
	if simOpts.historian {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		emitters = append(emitters, cache.NewHistorian(rdb, cfg.QueueName, logger).Record)
	}

	var repo game.SaveRepository
	if simOpts.save {
		if cfg.DatabaseURL != "" {
			pool, err := connectDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			repo = database.NewSaveRepository(pool)
		} else {
			logger.Warn("DATABASE_URL not set, saves are kept in memory and lost on exit")
			repo = saves.NewMemory()
		}
	}

	source, release, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer release()

	store := game.NewGameStore()
	res := &tally{outcomes: make(map[game.Outcome]int)}
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, simOpts.parallel))
	for i := 0; i < simOpts.games; i++ {
		gameSeed := seed + int64(i)
		g.Go(func() error {
			return runGame(gctx, store, source, repo, emitters, gameSeed, res)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if narr != nil {
		for _, id := range store.Finished() {
			m, _ := store.GetGame(id)
			if view, err := m.ViewFor(uuid.Nil); err == nil {
				narr.table(view)
			}
		}
	}

	printTally(res, len(store.Finished()), store.Len(), time.Since(started))
	return nil
}

func runGame(ctx context.Context, store *game.GameStore, source game.CardSource, repo game.SaveRepository,
	emitters []func(game.GameEvent), seed int64, res *tally) error {
	var in game.Interactor = bot.NewRandom(seed)
	if simOpts.script != "" {
		lb, err := bot.NewLuaFile(simOpts.script, in)
		if err != nil {
			return err
		}
		defer lb.Close()
		in = lb
	}

	m := game.NewGameManager(source, in, game.Options{
		Seed:   seed,
		Rules:  &cfg.Rules,
		Logger: logger.WithField("seed", seed),
		EventFn: func(ev game.GameEvent) {
			for _, emit := range emitters {
				emit(ev)
			}
		},
		Saves: repo,
	})
	if err := m.Init(ctx, seatsFor(simOpts.players)); err != nil {
		return fmt.Errorf("seed %d: %w", seed, err)
	}
	store.AddGame(m)

	out, turns, err := bot.NewDriver(seed).PlayGame(ctx, m, simOpts.maxTurns)
	switch {
	case errors.Is(err, bot.ErrTurnLimit):
		logger.WithFields(logrus.Fields{"game": m.GameID(), "seed": seed}).Warn("game abandoned at turn limit")
		res.add(out, turns, true)
	case err != nil:
		return fmt.Errorf("seed %d: %w", seed, err)
	default:
		res.add(out, turns, false)
	}

	if repo != nil {
		id, err := m.Save(ctx)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"game": m.GameID(), "save": id}).Info("saved")
	}
	return nil
}

var seatNames = []string{"Bart", "Calamity", "Jesse", "Kit", "Lucky", "Rose", "Slab"}

func seatsFor(n int) []game.Seat {
	seats := make([]game.Seat, n)
	for i := range seats {
		seats[i] = game.Seat{ID: uuid.New(), Name: seatNames[i]}
	}
	return seats
}

func printTally(res *tally, finished, total int, took time.Duration) {
	n := newNarrator(os.Stdout)
	outs := make([]game.Outcome, 0, len(res.outcomes))
	for o := range res.outcomes {
		outs = append(outs, o)
	}
	sort.Slice(outs, func(i, j int) bool { return outs[i] < outs[j] })

	n.turn.Printf("\n%d of %d games finished in %s (%d turns)\n", finished, total, took.Round(time.Millisecond), res.turns)
	for _, o := range outs {
		fmt.Printf("  %-13s %d\n", o, res.outcomes[o])
	}
	if res.abandoned > 0 {
		n.hurt.Printf("  %-13s %d\n", "abandoned", res.abandoned)
	}
}
