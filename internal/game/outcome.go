package game

// Outcome is the expected (non-error) result of a play or an end of turn.
type Outcome int

const (
	Ok Outcome = iota
	CantPlay
	TooFar
	CantEndTurn
	SheriffWin
	OutlawWin
	RenegadeWin
)

var outcomeNames = map[Outcome]string{
	Ok:          "ok",
	CantPlay:    "cant_play",
	TooFar:      "too_far",
	CantEndTurn: "cant_end_turn",
	SheriffWin:  "sheriff_win",
	OutlawWin:   "outlaw_win",
	RenegadeWin: "renegade_win",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// Terminal reports whether the outcome ends the game.
func (o Outcome) Terminal() bool {
	return o == SheriffWin || o == OutlawWin || o == RenegadeWin
}
