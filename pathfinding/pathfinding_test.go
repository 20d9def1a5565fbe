package pathfinding

import (
	"testing"

	"github.com/matryer/is"

	"github.com/wallgame/quoridor/board"
)

func TestShortestDistanceEmptyBoard(t *testing.T) {
	is := is.New(t)
	b := board.MakeBoard(board.DefaultDim)

	d, ok := ShortestDistance(b, board.Pos{Row: 0, Col: 4}, []int{8})
	is.True(ok)
	is.Equal(d, 8)

	d, ok = ShortestDistance(b, board.Pos{Row: 8, Col: 0}, []int{8})
	is.True(ok)
	is.Equal(d, 0)
}

func TestShortestDistanceDetour(t *testing.T) {
	is := is.New(t)
	b := board.MakeBoard(5)
	// wall off row 0|1 at columns 0..3; the only crossing is column 4.
	b.PlaceSegment(board.Horizontal, 0, 0)
	b.PlaceSegment(board.Horizontal, 0, 2)

	d, ok := ShortestDistance(b, board.Pos{Row: 0, Col: 0}, []int{4})
	is.True(ok)
	// four steps right, then four up
	is.Equal(d, 8)
	is.True(HasPath(b, board.Pos{Row: 0, Col: 0}, []int{4}))
}

func TestNoPathWhenEnclosed(t *testing.T) {
	is := is.New(t)
	b := board.MakeBoard(5)
	b.PlaceSegment(board.Horizontal, 1, 0)
	b.PlaceSegment(board.Vertical, 0, 1)

	start := board.Pos{Row: 0, Col: 0}
	is.True(!HasPath(b, start, []int{4}))
	d, ok := ShortestDistance(b, start, []int{4})
	is.True(!ok)
	is.Equal(d, Unreachable)

	// goal inside the enclosure is still reachable
	is.True(HasPath(b, start, []int{1}))
}

func TestMultipleGoalRows(t *testing.T) {
	is := is.New(t)
	b := board.MakeBoard(7)
	d, ok := ShortestDistance(b, board.Pos{Row: 3, Col: 3}, []int{0, 6})
	is.True(ok)
	is.Equal(d, 3)
}

func TestOffBoardStart(t *testing.T) {
	is := is.New(t)
	b := board.MakeBoard(5)
	is.True(!HasPath(b, board.Pos{Row: -1, Col: 0}, []int{4}))
}

func BenchmarkShortestDistance(b *testing.B) {
	bd := board.MakeBoard(board.DefaultDim)
	bd.PlaceSegment(board.Horizontal, 3, 3)
	bd.PlaceSegment(board.Horizontal, 3, 5)
	bd.PlaceSegment(board.Vertical, 4, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ShortestDistance(bd, board.Pos{Row: 0, Col: 4}, []int{8})
	}
}
