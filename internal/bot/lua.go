package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/bang/internal/game"
	"github.com/jason-s-yu/bang/internal/models"
	lua "github.com/yuin/gopher-lua"
)

var _ game.Interactor = (*Lua)(nil)

// Lua answers questions by calling functions defined in a Lua script:
//
//	function choose_player(candidates, requester) return 1 end
//	function choose_card(cards, unknown, chooser) return 1 end
//	function confirm(player, card_name) return true end
//
// candidates is a list of player id strings; cards is a list of tables with id, name,
// suit and rank fields (face-down cards carry only id). Choice functions return a
// 1-based index. A function the script does not define falls back to the Fallback
// interactor, a Random bot unless one is given.
type Lua struct {
	mu       sync.Mutex
	state    *lua.LState
	Fallback game.Interactor
}

// NewLua runs script once to load its functions.
func NewLua(script string, fallback game.Interactor) (*Lua, error) {
	L := lua.NewState()
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("load bot script: %w", err)
	}
	return newLua(L, fallback), nil
}

// NewLuaFile loads the script from path.
func NewLuaFile(path string, fallback game.Interactor) (*Lua, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("load bot script %s: %w", path, err)
	}
	return newLua(L, fallback), nil
}

func newLua(L *lua.LState, fallback game.Interactor) *Lua {
	if fallback == nil {
		fallback = NewRandom(1)
	}
	return &Lua{state: L, Fallback: fallback}
}

func (b *Lua) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.Close()
}

// call invokes a global function and returns its single result, or nil if the script
// does not define it.
func (b *Lua) call(ctx context.Context, name string, args ...lua.LValue) (lua.LValue, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn := b.state.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil, nil
	}
	b.state.SetContext(ctx)
	defer b.state.RemoveContext()
	if err := b.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("bot %s: %w", name, err)
	}
	ret := b.state.Get(-1)
	b.state.Pop(1)
	return ret, nil
}

// index converts a 1-based Lua answer to a slice index; anything else is -1.
func index(v lua.LValue, n int) int {
	num, ok := v.(lua.LNumber)
	if !ok {
		return -1
	}
	i := int(num) - 1
	if i < 0 || i >= n {
		return -1
	}
	return i
}

func (b *Lua) ChoosePlayer(ctx context.Context, candidates []uuid.UUID, requester uuid.UUID) (uuid.UUID, error) {
	list := b.newTable()
	for _, id := range candidates {
		list.Append(lua.LString(id.String()))
	}
	ret, err := b.call(ctx, "choose_player", list, lua.LString(requester.String()))
	if err != nil {
		return uuid.Nil, err
	}
	if ret == nil {
		return b.Fallback.ChoosePlayer(ctx, candidates, requester)
	}
	if i := index(ret, len(candidates)); i >= 0 {
		return candidates[i], nil
	}
	// an out-of-range answer is passed through as a non-candidate
	return uuid.Nil, nil
}

func (b *Lua) ChooseCard(ctx context.Context, candidates []*models.Card, unknown int, chooser uuid.UUID) (uuid.UUID, error) {
	list := b.newTable()
	for i, c := range candidates {
		t := b.newTable()
		t.RawSetString("id", lua.LString(c.ID.String()))
		if i >= unknown {
			t.RawSetString("name", lua.LString(c.Name.String()))
			t.RawSetString("suit", lua.LString(c.Suit.String()))
			t.RawSetString("rank", lua.LString(c.Rank.String()))
		}
		list.Append(t)
	}
	ret, err := b.call(ctx, "choose_card", list, lua.LNumber(unknown), lua.LString(chooser.String()))
	if err != nil {
		return uuid.Nil, err
	}
	if ret == nil {
		return b.Fallback.ChooseCard(ctx, candidates, unknown, chooser)
	}
	if i := index(ret, len(candidates)); i >= 0 {
		return candidates[i].ID, nil
	}
	return uuid.Nil, nil
}

func (b *Lua) Confirm(ctx context.Context, player uuid.UUID, name models.CardName) (bool, error) {
	ret, err := b.call(ctx, "confirm", lua.LString(player.String()), lua.LString(name.String()))
	if err != nil {
		return false, err
	}
	if ret == nil {
		return b.Fallback.Confirm(ctx, player, name)
	}
	return lua.LVAsBool(ret), nil
}

func (b *Lua) newTable() *lua.LTable {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.NewTable()
}
