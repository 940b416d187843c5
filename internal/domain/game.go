package domain

import "errors"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// ComputerSide is the mark the computer plays in HumanVsComputer games.
// X always opens, so the computer never makes the first move.
const ComputerSide = O

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// MarshalJSON encodes Empty as null and marks as "X" / "O".
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c {
	case X:
		return []byte(`"X"`), nil
	case O:
		return []byte(`"O"`), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, "", "X" and "O".
func (c *Cell) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null", `""`:
		*c = Empty
	case `"X"`:
		*c = X
	case `"O"`:
		*c = O
	default:
		return ErrBadCell
	}
	return nil
}

// Opponent returns the other mark. Empty stays Empty.
func Opponent(c Cell) Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Mode is fixed when a game starts.
type Mode uint8

const (
	HumanVsHuman Mode = iota
	HumanVsComputer
)

func (m Mode) String() string {
	if m == HumanVsComputer {
		return "computer"
	}
	return "human"
}

// Errors returned by domain operations.
var (
	ErrUnknownMode = errors.New("unknown game mode")
	ErrBadCell     = errors.New("invalid cell value")
)

// ParseMode maps the collaborator's mode token to a Mode.
func ParseMode(token string) (Mode, error) {
	switch token {
	case "computer":
		return HumanVsComputer, nil
	case "", "human", "pvp":
		return HumanVsHuman, nil
	default:
		return HumanVsHuman, ErrUnknownMode
	}
}

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
	Board  Board
	Turn   Cell
	Mode   Mode
	Status Status
	// Locked suppresses moves during the settle and thinking pauses.
	// A finished game is locked as well.
	Locked bool
	Moves  int
}

// New returns a new game with X to move.
func New(mode Mode) Game {
	return Game{Turn: X, Mode: mode}
}

// Apply plays the current turn at index (0..8). Out of range, occupied,
// finished or locked calls are ignored and report false.
func (g *Game) Apply(index int) bool {
	if index < 0 || index >= len(g.Board) {
		return false
	}
	if g.Board[index] != Empty || g.Status.Over() || g.Locked {
		return false
	}

	g.Board[index] = g.Turn
	g.Moves++
	g.Status = Evaluate(g.Board)
	g.Locked = true
	if g.Status.Over() {
		return true
	}

	g.Turn = Opponent(g.Turn)
	return true
}

// Unlock ends the settle pause. It never reopens a finished game.
func (g *Game) Unlock() {
	if !g.Status.Over() {
		g.Locked = false
	}
}

// Accepting reports whether a move intent would currently be applied.
func (g *Game) Accepting() bool {
	return !g.Status.Over() && !g.Locked
}

// ComputerToMove reports whether the computer owns the current turn.
func (g *Game) ComputerToMove() bool {
	return g.Mode == HumanVsComputer && !g.Status.Over() && g.Turn == ComputerSide
}

// Message is the status line shown to players.
func (g *Game) Message() string {
	switch g.Status.Kind {
	case Won:
		return g.Status.Winner.String() + " Wins!"
	case Draw:
		return "It's a Draw!"
	default:
		return "Current Player: " + g.Turn.String()
	}
}
