package domain

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Lines lists the eight winning triples.
var Lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// StatusKind classifies a board.
type StatusKind uint8

const (
	InProgress StatusKind = iota
	Won
	Draw
)

func (k StatusKind) String() string {
	switch k {
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Status is derived from a board; Winner is set only when Kind is Won.
type Status struct {
	Kind   StatusKind
	Winner Cell
}

// Over reports whether the game has ended.
func (s Status) Over() bool { return s.Kind != InProgress }

// CheckWin reports whether player occupies any full triple.
func CheckWin(b Board, player Cell) bool {
	if player == Empty {
		return false
	}
	for _, ln := range Lines {
		if b[ln[0]] == player && b[ln[1]] == player && b[ln[2]] == player {
			return true
		}
	}
	return false
}

// CheckDraw reports whether no empty cell remains. Callers check wins first.
func CheckDraw(b Board) bool {
	return b.Full()
}

// Evaluate computes the status of b: wins first, then draw.
func Evaluate(b Board) Status {
	if CheckWin(b, X) {
		return Status{Kind: Won, Winner: X}
	}
	if CheckWin(b, O) {
		return Status{Kind: Won, Winner: O}
	}
	if CheckDraw(b) {
		return Status{Kind: Draw}
	}
	return Status{Kind: InProgress}
}

// Full reports whether every cell is marked.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Free returns the empty indices in increasing order.
func (b Board) Free() []int {
	out := make([]int, 0, len(b))
	for i, c := range b {
		if c == Empty {
			out = append(out, i)
		}
	}
	return out
}

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
	n := 0
	for _, v := range b {
		if v == c {
			n++
		}
	}
	return n
}

// ToMove returns whose turn it is on b assuming X opened.
func (b Board) ToMove() Cell {
	if b.Count(X) > b.Count(O) {
		return O
	}
	return X
}

// Reachable reports whether b can arise from alternating play starting
// with X and stopping at the first completed line.
func Reachable(b Board) bool {
	xs, os := b.Count(X), b.Count(O)
	if xs != os && xs != os+1 {
		return false
	}
	xWin, oWin := CheckWin(b, X), CheckWin(b, O)
	switch {
	case xWin && oWin:
		return false
	case xWin:
		return xs == os+1
	case oWin:
		return xs == os
	}
	return true
}
