// Package movegen generates legal pawn destinations, including straight
// jumps over an adjacent opponent and diagonal side-steps when the jump is
// blocked.
package movegen

import (
	"github.com/samber/lo"

	"github.com/wallgame/quoridor/board"
)

// Directions in generation order: down the rows, up, right, left.
var directions = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// LegalPawnMoves returns every cell the pawn at self may move to, given
// the opponent pawn position. The result keeps first-seen order and has
// no duplicates. It does not modify the board and is safe to call
// concurrently on independent boards.
func LegalPawnMoves(b *board.Board, self, opp board.Pos) []board.Pos {
	moves := make([]board.Pos, 0, 6)
	for _, d := range directions {
		dr, dc := d[0], d[1]
		nr, nc := self.Row+dr, self.Col+dc
		if !b.InsideBounds(nr, nc) || b.IsBlocked(self.Row, self.Col, nr, nc) {
			continue
		}
		if nr != opp.Row || nc != opp.Col {
			moves = append(moves, board.Pos{Row: nr, Col: nc})
			continue
		}
		// the neighbour is the opponent: try to jump straight over.
		jr, jc := nr+dr, nc+dc
		if b.InsideBounds(jr, jc) && !b.IsBlocked(nr, nc, jr, jc) {
			moves = append(moves, board.Pos{Row: jr, Col: jc})
			continue
		}
		moves = append(moves, sideSteps(b, nr, nc, dr, dc)...)
	}
	return lo.Uniq(moves)
}

// sideSteps returns the cells next to the opponent at (or, oc) that lie
// perpendicular to the approach direction (dr, dc).
func sideSteps(b *board.Board, or, oc, dr, dc int) []board.Pos {
	var steps []board.Pos
	for _, d := range directions {
		if (d[0] == dr && d[1] == dc) || (d[0] == -dr && d[1] == -dc) {
			continue
		}
		ar, ac := or+d[0], oc+d[1]
		if b.InsideBounds(ar, ac) && !b.IsBlocked(or, oc, ar, ac) {
			steps = append(steps, board.Pos{Row: ar, Col: ac})
		}
	}
	return steps
}
