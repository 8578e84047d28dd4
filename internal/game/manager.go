// internal/game/manager.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrNoSaves is returned by the save operations when no SaveRepository was configured.
var ErrNoSaves = errors.New("no save repository configured")

// rolePool is the order roles are handed out in; a table of n takes the first n-1
// entries, the Sheriff being the n-th.
var rolePool = []models.Role{
	models.Renegade,
	models.Outlaw,
	models.Outlaw,
	models.DeputySheriff,
	models.Outlaw,
	models.DeputySheriff,
}

// Seat is one participant joining a game.
type Seat struct {
	ID   uuid.UUID
	Name string
}

// Options configures a GameManager. The zero value is usable.
type Options struct {
	Seed    int64 // 0 seeds from the clock
	Rules   *HouseRules
	Logger  logrus.FieldLogger
	EventFn func(GameEvent)
	Saves   SaveRepository
}

// GameManager runs one game: it owns the table state and drives turns. All methods
// are safe for concurrent use; a resolution, including its interaction round-trips,
// holds the manager's lock, so an Interactor must not call back into the manager.
type GameManager struct {
	mu sync.Mutex

	cards      CardSource
	interactor Interactor
	saves      SaveRepository
	emitFn     func(GameEvent)
	rules      HouseRules
	rng        *rand.Rand
	log        logrus.FieldLogger

	state  *GameState
	winner Outcome
}

// NewGameManager builds a manager that deals from cards and asks interactor.
func NewGameManager(cards CardSource, interactor Interactor, opts Options) *GameManager {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rules := DefaultHouseRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GameManager{
		cards:      cards,
		interactor: interactor,
		saves:      opts.Saves,
		emitFn:     opts.EventFn,
		rules:      rules,
		rng:        rand.New(rand.NewSource(seed)),
		log:        logger,
	}
}

// Init starts a new game for seats, replacing any game in progress.
func (m *GameManager) Init(ctx context.Context, seats []Seat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return &PlayerCountError{Got: len(seats)}
	}
	seen := make(map[uuid.UUID]bool, len(seats))
	for _, st := range seats {
		if seen[st.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateIDs, st.ID)
		}
		seen[st.ID] = true
	}

	cards, err := m.cards.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	order := append([]Seat(nil), seats...)
	m.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	roles := append([]models.Role(nil), rolePool[:len(order)-1]...)
	m.rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	s := m.newState(uuid.New(), NewDeck(cards, m.rng))
	for i, st := range order {
		role, health := models.Sheriff, m.rules.SheriffHealth
		if i > 0 {
			role, health = roles[i-1], m.rules.PlayerHealth
		}
		s.Players = append(s.Players, models.NewPlayer(st.ID, st.Name, role, health))
	}
	for _, p := range s.Players {
		n := p.MaxHealth
		if p.Role == models.Sheriff {
			n += m.rules.SheriffBonusCards
		}
		if err := s.drawTo(p, n); err != nil {
			return fmt.Errorf("deal to %s: %w", p.ID, err)
		}
	}
	s.CurrentID = s.Players[0].ID

	m.state = s
	m.winner = Ok
	s.log.WithFields(logrus.Fields{"players": len(s.Players), "sheriff": s.CurrentID}).Info("game started")
	s.emit(GameEvent{Type: EventTurnStart, User: eventUser(s.current())})
	return nil
}

func (m *GameManager) newState(id uuid.UUID, deck *Deck) *GameState {
	return &GameState{
		ID:         id,
		Deck:       deck,
		Rules:      m.rules,
		interactor: m.interactor,
		emitFn:     m.emitFn,
		log:        m.log.WithField("game", id),
		rng:        m.rng,
	}
}

// ready checks that a game is running and accepts moves.
func (m *GameManager) ready() error {
	if m.state == nil {
		return ErrNotStarted
	}
	if m.winner.Terminal() {
		return ErrGameOver
	}
	return nil
}

// PlayCard plays a card from the current player's hand.
func (m *GameManager) PlayCard(ctx context.Context, cardID uuid.UUID) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return Ok, err
	}
	s := m.state
	cur := s.current()
	card := cur.HandCard(cardID)
	if card == nil {
		return Ok, fmt.Errorf("card %s in hand of %s: %w", cardID, cur.ID, ErrNotFound)
	}

	out, err := play(ctx, s, card)
	if err != nil {
		s.log.WithFields(logrus.Fields{"player": cur.ID, "card": card.Name}).WithError(err).Warn("resolution aborted")
		return m.settleAborted(ctx, err)
	}
	if out != Ok {
		s.log.WithFields(logrus.Fields{"player": cur.ID, "card": card.Name, "outcome": out}).Debug("card refused")
		s.narrate(cur, nil, card, false)
		return out, nil
	}
	s.log.WithFields(logrus.Fields{"player": cur.ID, "card": card.Name}).Debug("card resolved")

	if card.Category() == models.Instant {
		s.discardFrom(cur, card.ID)
	}
	m.applyKillConsequences()

	if out := m.checkEndGame(); out.Terminal() {
		return out, nil
	}
	if cur.Dead {
		return m.advance(ctx)
	}
	return Ok, nil
}

// settleAborted runs the post-resolution steps for a play whose interaction failed,
// so deaths caused before the failure are rewarded and cleaned up now. The card
// stays in hand. The interaction error is always returned.
func (m *GameManager) settleAborted(ctx context.Context, cause error) (Outcome, error) {
	m.applyKillConsequences()
	if out := m.checkEndGame(); out.Terminal() {
		return out, cause
	}
	if !m.state.current().Dead {
		return Ok, cause
	}
	out, err := m.advance(ctx)
	if err != nil {
		m.state.log.WithError(err).Warn("advance after aborted play")
	}
	return out, cause
}

// applyKillConsequences pays the bounty for dead Outlaws and punishes a Sheriff who
// killed a Deputy. Nothing happens when the current player died too.
func (m *GameManager) applyKillConsequences() {
	s := m.state
	cur := s.current()
	if cur.Dead {
		return
	}
	for _, p := range s.Players {
		if !p.DeadThisTurn || p == cur {
			continue
		}
		switch {
		case p.Role == models.Outlaw:
			if err := s.drawTo(cur, s.Rules.OutlawBounty); err != nil {
				s.log.WithError(err).Warn("outlaw bounty short")
			}
		case p.Role == models.DeputySheriff && cur.Role == models.Sheriff && s.Rules.DeputyPenalty:
			s.discardAll(cur)
		}
	}
}

// DiscardCard moves a card from the current player's hand to the discard pile.
func (m *GameManager) DiscardCard(cardID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return err
	}
	cur := m.state.current()
	if cur.HandCard(cardID) == nil {
		return fmt.Errorf("card %s in hand of %s: %w", cardID, cur.ID, ErrNotFound)
	}
	m.state.discardFrom(cur, cardID)
	return nil
}

// EndTurn passes the turn on. It is refused while the current player holds more
// cards than their health.
func (m *GameManager) EndTurn(ctx context.Context) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ready(); err != nil {
		return Ok, err
	}
	cur := m.state.current()
	if len(cur.Hand) > cur.Health {
		return CantEndTurn, nil
	}
	return m.advance(ctx)
}

// advance moves to the next player who can take a turn, resolving turn-start board
// cards on the way, and deals them their draw.
func (m *GameManager) advance(ctx context.Context) (Outcome, error) {
	s := m.state
	for {
		if err := ctx.Err(); err != nil {
			return Ok, err
		}
		prev := s.current()
		prev.BangPlayed = false
		next := s.nextAlive(prev.ID)
		if next == nil {
			return m.checkEndGame(), nil
		}
		s.CurrentID = next.ID
		s.log.WithField("player", next.ID).Info("turn start")
		s.emit(GameEvent{Type: EventTurnStart, User: eventUser(next)})

		if err := resolveDynamite(s, next); err != nil {
			return Ok, err
		}
		if err := resolveBeerBarrel(s, next); err != nil {
			return Ok, err
		}
		if out := m.checkEndGame(); out.Terminal() {
			return out, nil
		}
		if next.Dead {
			continue
		}
		skip, err := resolveJail(s, next)
		if err != nil {
			return Ok, err
		}
		if skip {
			continue
		}
		if err := s.drawTo(next, s.Rules.DrawPerTurn); err != nil {
			return Ok, err
		}
		return Ok, nil
	}
}

// evaluateWinner decides the game from the living roles without touching state.
func evaluateWinner(players []*models.Player) Outcome {
	sheriffDead := false
	othersAlive, badAlive := false, false
	for _, p := range players {
		if p.Role == models.Sheriff {
			sheriffDead = p.Dead
			continue
		}
		if p.Dead {
			continue
		}
		if p.Role != models.Renegade {
			othersAlive = true
		}
		if p.Role == models.Outlaw || p.Role == models.Renegade {
			badAlive = true
		}
	}
	switch {
	case sheriffDead && othersAlive:
		return OutlawWin
	case sheriffDead:
		return RenegadeWin
	case !badAlive:
		return SheriffWin
	}
	return Ok
}

// checkEndGame ends the game if a side has won; otherwise it clears away the cards of
// players who died since the last check.
func (m *GameManager) checkEndGame() Outcome {
	s := m.state
	if out := evaluateWinner(s.Players); out.Terminal() {
		m.winner = out
		s.log.WithField("outcome", out).Info("game over")
		s.emit(GameEvent{Type: EventGameOver, Payload: map[string]interface{}{"outcome": out.String()}})
		return out
	}
	for _, p := range s.Players {
		if p.DeadThisTurn {
			s.discardAll(p)
			p.DeadThisTurn = false
		}
	}
	return Ok
}

// Save stores a snapshot of the game and returns its id.
func (m *GameManager) Save(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saves == nil {
		return 0, ErrNoSaves
	}
	if m.state == nil {
		return 0, ErrNotStarted
	}
	id, err := m.saves.Save(ctx, takeSnapshot(m.state))
	if err != nil {
		return 0, fmt.Errorf("save game %s: %w", m.state.ID, err)
	}
	m.log.WithFields(logrus.Fields{"game": m.state.ID, "save": id}).Info("game saved")
	return id, nil
}

// Load replaces the current game with the saved one. Cards get fresh ids.
func (m *GameManager) Load(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saves == nil {
		return ErrNoSaves
	}
	snap, err := m.saves.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("load save %d: %w", id, err)
	}
	s, err := m.restore(snap)
	if err != nil {
		return fmt.Errorf("restore save %d: %w", id, err)
	}
	m.state = s
	m.winner = evaluateWinner(s.Players)
	s.log.WithField("save", id).Info("game loaded")
	return nil
}

// ListSaves maps every stored save id to its creation time.
func (m *GameManager) ListSaves(ctx context.Context) (map[int64]time.Time, error) {
	if m.saves == nil {
		return nil, ErrNoSaves
	}
	return m.saves.List(ctx)
}

// Read accessors. Returned players are live; callers must not modify them.

func (m *GameManager) GameID() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return uuid.Nil
	}
	return m.state.ID
}

func (m *GameManager) Current() *models.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil
	}
	return m.state.current()
}

func (m *GameManager) Players() []*models.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil
	}
	return append([]*models.Player(nil), m.state.Players...)
}

func (m *GameManager) TopDiscard() *models.Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil
	}
	return m.state.Deck.TopDiscard()
}

// Distance is the effective distance from player a to player b.
func (m *GameManager) Distance(a, b uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return 0, ErrNotStarted
	}
	pa, pb := m.state.player(a), m.state.player(b)
	if pa == nil || pb == nil {
		return 0, fmt.Errorf("distance %s to %s: %w", a, b, ErrNotFound)
	}
	return m.state.distance(pa, pb), nil
}

// Winner is Ok while the game is running, otherwise the winning outcome.
func (m *GameManager) Winner() Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.winner
}

// CardCensus lists the id of every card in the game, wherever it lies.
func (m *GameManager) CardCensus() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil
	}
	return m.state.census()
}
