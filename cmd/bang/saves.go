package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/bot"
	"github.com/jason-s-yu/bang/internal/database"
	"github.com/jason-s-yu/bang/internal/game"
	"github.com/spf13/cobra"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Inspect and resume saved games",
}

var savesListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List saved games, oldest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		list, err := database.NewSaveRepository(pool).List(ctx)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(list))
		for id := range list {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return list[ids[i]].Before(list[ids[j]]) })

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED")
		for _, id := range ids {
			fmt.Fprintf(w, "%d\t%s\n", id, list[id].Local().Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var savesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the table of a saved game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid save id %q", args[0])
		}
		ctx := cmd.Context()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		snap, err := database.NewSaveRepository(pool).Load(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("game %s  draw pile %d  discard pile %d\n", snap.GameID, len(snap.DrawPile), len(snap.DiscardPile))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tROLE\tHEALTH\tHAND\tIN PLAY")
		for _, p := range snap.Players {
			marker := ""
			if p.ID == snap.CurrentID {
				marker = ">"
			}
			health := fmt.Sprintf("%d/%d", p.Health, p.MaxHealth)
			if p.Dead {
				health = "dead"
			}
			var inPlay []string
			for _, c := range p.Board {
				inPlay = append(inPlay, c.Name.String())
			}
			if p.Weapon != nil {
				inPlay = append(inPlay, p.Weapon.Name.String())
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%v\n", marker, p.Name, p.Role, health, len(p.Hand), inPlay)
		}
		return w.Flush()
	},
}

var resumeMaxTurns int

var savesResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Load a saved game and let bots finish it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid save id %q", args[0])
		}
		ctx := cmd.Context()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		n := newNarrator(os.Stdout)
		m := game.NewGameManager(nil, bot.NewRandom(id), game.Options{
			Seed:    id,
			Rules:   &cfg.Rules,
			Logger:  logger,
			EventFn: n.Event,
			Saves:   database.NewSaveRepository(pool),
		})
		if err := m.Load(ctx, id); err != nil {
			return err
		}
		if w := m.Winner(); w.Terminal() {
			fmt.Printf("save %d is already decided: %s\n", id, w)
			return nil
		}
		out, turns, err := bot.NewDriver(id).PlayGame(ctx, m, resumeMaxTurns)
		if err != nil {
			return err
		}
		n.turn.Printf("\n%s after %d more turns\n", out, turns)
		view, err := m.ViewFor(uuid.Nil)
		if err != nil {
			return err
		}
		n.table(view)
		return nil
	},
}

func init() {
	savesResumeCmd.Flags().IntVar(&resumeMaxTurns, "max-turns", 1000, "give up after this many turns")
	savesCmd.AddCommand(savesListCmd, savesShowCmd, savesResumeCmd)
}
