// Package solver picks computer moves by exhaustive minimax.
//
// The search walks the whole remaining game tree without pruning or a
// depth limit. Leaves score +1 when the searching side has a line, -1 when
// its opponent has one and 0 on a full board. Scores are not weighted by
// depth, so a quick win and a slow win are worth the same.
package solver

import (
	"math"

	"github.com/jaminalder/tictactoe-minimax/internal/domain"
)

// MoveScore is the minimax value of playing Index for the searching side.
type MoveScore struct {
	Index int `json:"index"`
	Score int `json:"score"`
}

// BestMove returns the free index that maximizes the outcome for side.
// Ties keep the lowest index. It returns -1 when b is already decided or
// has no free cell.
func BestMove(b domain.Board, side domain.Cell) int {
	if domain.Evaluate(b).Over() {
		return -1
	}
	best, bestScore := -1, math.MinInt
	for i := range b {
		if b[i] != domain.Empty {
			continue
		}
		b[i] = side
		score := minimax(&b, side, false)
		b[i] = domain.Empty
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// Analyze scores every free cell for side, in index order.
func Analyze(b domain.Board, side domain.Cell) []MoveScore {
	if domain.Evaluate(b).Over() {
		return nil
	}
	out := make([]MoveScore, 0, 9)
	for i := range b {
		if b[i] != domain.Empty {
			continue
		}
		b[i] = side
		out = append(out, MoveScore{Index: i, Score: minimax(&b, side, false)})
		b[i] = domain.Empty
	}
	return out
}

// Score is the minimax value of b for side when toMove plays next.
func Score(b domain.Board, side, toMove domain.Cell) int {
	return minimax(&b, side, toMove == side)
}

// minimax works on the caller's scratch copy and restores every cell it
// touches before returning.
func minimax(b *domain.Board, side domain.Cell, maximizing bool) int {
	opp := domain.Opponent(side)
	if domain.CheckWin(*b, side) {
		return 1
	}
	if domain.CheckWin(*b, opp) {
		return -1
	}
	if domain.CheckDraw(*b) {
		return 0
	}

	mark := opp
	best := math.MaxInt
	if maximizing {
		mark = side
		best = math.MinInt
	}
	for i := range b {
		if b[i] != domain.Empty {
			continue
		}
		b[i] = mark
		score := minimax(b, side, !maximizing)
		b[i] = domain.Empty
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}
