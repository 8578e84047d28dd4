package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/jason-s-yu/bang/internal/game"
	"golang.org/x/term"
)

// narrator prints game events as one line each.
type narrator struct {
	mu  sync.Mutex
	out io.Writer

	turn, hurt, death, result, muted *color.Color
}

func newNarrator(out io.Writer) *narrator {
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		color.NoColor = true
	}
	return &narrator{
		out:    out,
		turn:   color.New(color.FgCyan, color.Bold),
		hurt:   color.New(color.FgYellow),
		death:  color.New(color.FgRed, color.Bold),
		result: color.New(color.FgGreen),
		muted:  color.New(color.Faint),
	}
}

func who(u *game.EventUser) string {
	if u == nil {
		return "?"
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ID.String()[:8]
}

func what(c *game.EventCard) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s %s)", c.Name, c.Rank, c.Suit)
}

// Event fits game.Options.EventFn.
func (n *narrator) Event(ev game.GameEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch ev.Type {
	case game.EventTurnStart:
		n.turn.Fprintf(n.out, "\n== %s's turn ==\n", who(ev.User))
	case game.EventCardResult:
		verdict := "fails"
		if ok, _ := ev.Payload["success"].(bool); ok {
			verdict = "resolves"
		}
		line := fmt.Sprintf("%s: %s %s", who(ev.User), what(ev.Card), verdict)
		if ev.Target != nil {
			line += " against " + who(ev.Target)
		}
		n.result.Fprintln(n.out, line)
	case game.EventHealthChanged:
		n.hurt.Fprintf(n.out, "%s health %v\n", who(ev.User), ev.Payload["health"])
	case game.EventPlayerDied:
		n.death.Fprintf(n.out, "%s is dead (%v)\n", who(ev.User), ev.Payload["role"])
	case game.EventGameOver:
		n.death.Fprintf(n.out, "game over: %v\n", ev.Payload["outcome"])
	case game.EventDeckReshuffled:
		n.muted.Fprintln(n.out, "discard pile reshuffled")
	case game.EventCardToBoard, game.EventWeaponEquipped:
		n.muted.Fprintf(n.out, "%s puts %s in play\n", who(ev.User), what(ev.Card))
	}
}

// table prints a view of the seats, one per line.
func (n *narrator) table(view game.TableView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, p := range view.Players {
		role := p.Role
		if role == "" {
			role = "?"
		}
		line := fmt.Sprintf("  %-9s %-15s %d/%d  hand %d", p.Name, role, p.Health, p.MaxHealth, p.HandSize)
		for _, c := range p.Board {
			line += " [" + c.Name + "]"
		}
		if p.Weapon != nil {
			line += " <" + p.Weapon.Name + ">"
		}
		if p.Dead {
			n.muted.Fprintln(n.out, line+" (dead)")
			continue
		}
		fmt.Fprintln(n.out, line)
	}
}
