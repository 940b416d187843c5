package domain

import "testing"

func TestCheckWinTriples(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		x, o  bool
	}{
		{"empty", Board{}, false, false},
		{"partial", Board{X, Empty, Empty, Empty, O, Empty, Empty, Empty, Empty}, false, false},
		{"X top row", Board{X, X, X, Empty, O, Empty, Empty, Empty, O}, true, false},
		{"O middle column", Board{X, O, Empty, X, O, Empty, Empty, O, X}, false, true},
		{"X main diagonal", Board{X, O, Empty, Empty, X, O, Empty, Empty, X}, true, false},
		{"O anti-diagonal", Board{X, X, O, Empty, O, Empty, O, X, Empty}, false, true},
		{"two in a row only", Board{X, X, Empty, O, O, Empty, Empty, Empty, Empty}, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckWin(tc.board, X); got != tc.x {
				t.Fatalf("CheckWin(X) = %v, want %v", got, tc.x)
			}
			if got := CheckWin(tc.board, O); got != tc.o {
				t.Fatalf("CheckWin(O) = %v, want %v", got, tc.o)
			}
			if CheckWin(tc.board, Empty) {
				t.Fatalf("Empty never wins")
			}
		})
	}
}

func TestEvaluateChecksWinBeforeDraw(t *testing.T) {
	// full board where X completed the last line
	b := Board{X, O, X, O, X, O, O, X, X}
	if !CheckDraw(b) {
		t.Fatalf("expected full board")
	}
	if s := Evaluate(b); s != (Status{Kind: Won, Winner: X}) {
		t.Fatalf("expected X win on a full board, got %+v", s)
	}
	d := Board{X, O, X, X, O, O, O, X, X}
	if s := Evaluate(d); s.Kind != Draw {
		t.Fatalf("expected draw, got %+v", s)
	}
}

// walk visits every board reachable by legal play from the empty board.
func walk(g Game, seen map[Board]bool, visit func(Game)) {
	if seen[g.Board] {
		return
	}
	seen[g.Board] = true
	visit(g)
	for _, i := range g.Board.Free() {
		next := g
		if next.Apply(i) {
			next.Unlock()
			walk(next, seen, visit)
		}
	}
}

func TestReachableBoardsHaveAtMostOneWinner(t *testing.T) {
	count := 0
	walk(New(HumanVsHuman), map[Board]bool{}, func(g Game) {
		count++
		b := g.Board
		if CheckWin(b, X) && CheckWin(b, O) {
			t.Fatalf("two winners on reachable board %v", b)
		}
		if !Reachable(b) {
			t.Fatalf("Reachable rejected a played board %v", b)
		}
		full := b.Full()
		draw := full && !CheckWin(b, X) && !CheckWin(b, O)
		if (Evaluate(b).Kind == Draw) != draw {
			t.Fatalf("draw mismatch on %v", b)
		}
		if !g.Status.Over() && g.Turn != b.ToMove() {
			t.Fatalf("turn %v disagrees with board parity on %v", g.Turn, b)
		}
	})
	// 5478 distinct positions are reachable in tic-tac-toe.
	if count != 5478 {
		t.Fatalf("expected 5478 reachable boards, got %d", count)
	}
}

func TestReachableRejectsImpossibleBoards(t *testing.T) {
	bad := []Board{
		{O},                            // O opened
		{X, X},                         // X moved twice
		{X, X, X, O, O, O},             // both completed lines
		{X, X, X, O, O, Empty, O},      // X won but O moved after
		{O, O, O, X, X, Empty, X, X},   // O won but X moved after
	}
	for _, b := range bad {
		if Reachable(b) {
			t.Fatalf("expected %v to be unreachable", b)
		}
	}
}

func TestFreeAndCount(t *testing.T) {
	b := Board{X, Empty, O, Empty, X}
	free := b.Free()
	want := []int{1, 3, 5, 6, 7, 8}
	if len(free) != len(want) {
		t.Fatalf("free = %v, want %v", free, want)
	}
	for i := range want {
		if free[i] != want[i] {
			t.Fatalf("free = %v, want %v", free, want)
		}
	}
	if b.Count(X) != 2 || b.Count(O) != 1 {
		t.Fatalf("unexpected counts")
	}
	if b.ToMove() != O {
		t.Fatalf("expected O to move")
	}
}
