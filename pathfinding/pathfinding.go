// Package pathfinding answers reachability questions over the board's
// 4-neighbourhood graph. Both searches treat the board as a snapshot: any
// tentative wall must already be on it.
package pathfinding

import (
	"github.com/wallgame/quoridor/board"
)

// Unreachable is returned alongside false by ShortestDistance.
const Unreachable = -1

var directions = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// HasPath returns true if any cell whose row is in goalRows can be reached
// from start without crossing a wall.
func HasPath(b *board.Board, start board.Pos, goalRows []int) bool {
	_, ok := bfs(b, start, goalRows)
	return ok
}

// ShortestDistance returns the minimum number of steps from start to any
// goal-row cell, or (Unreachable, false).
func ShortestDistance(b *board.Board, start board.Pos, goalRows []int) (int, bool) {
	return bfs(b, start, goalRows)
}

func isGoal(row int, goalRows []int) bool {
	for _, g := range goalRows {
		if row == g {
			return true
		}
	}
	return false
}

func bfs(b *board.Board, start board.Pos, goalRows []int) (int, bool) {
	if !b.InsideBounds(start.Row, start.Col) {
		return Unreachable, false
	}
	n := b.Dim()
	dist := make([]int, n*n)
	for i := range dist {
		dist[i] = Unreachable
	}
	queue := make([]board.Pos, 0, n*n)
	queue = append(queue, start)
	dist[start.Row*n+start.Col] = 0

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		d := dist[cur.Row*n+cur.Col]
		if isGoal(cur.Row, goalRows) {
			return d, true
		}
		for _, dir := range directions {
			nr, nc := cur.Row+dir[0], cur.Col+dir[1]
			if !b.InsideBounds(nr, nc) || b.IsBlocked(cur.Row, cur.Col, nr, nc) {
				continue
			}
			if dist[nr*n+nc] != Unreachable {
				continue
			}
			dist[nr*n+nc] = d + 1
			queue = append(queue, board.Pos{Row: nr, Col: nc})
		}
	}
	return Unreachable, false
}
