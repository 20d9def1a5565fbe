package game

import (
	"errors"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/wallgame/quoridor/board"
	"github.com/wallgame/quoridor/move"
	"github.com/wallgame/quoridor/pathfinding"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newTestGame(t *testing.T, size int) *Game {
	t.Helper()
	rules, err := NewBasicGameRules(size, DefaultStartingWalls)
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGame(rules, []string{"p1", "p2"})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func pos(r, c int) board.Pos {
	return board.Pos{Row: r, Col: c}
}

type snapshot struct {
	p0, p1 board.Pos
	w0, w1 int
	onturn int
	winner int
	board  *board.Board
}

func snap(g *Game) snapshot {
	return snapshot{
		p0: g.PositionFor(0), p1: g.PositionFor(1),
		w0: g.WallsFor(0), w1: g.WallsFor(1),
		onturn: g.PlayerOnTurn(), winner: g.winner,
		board: g.Board().Copy(),
	}
}

func sameState(a, b snapshot) bool {
	return a.p0 == b.p0 && a.p1 == b.p1 && a.w0 == b.w0 && a.w1 == b.w1 &&
		a.onturn == b.onturn && a.winner == b.winner && a.board.Equals(b.board)
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.Equal(g.PositionFor(0), pos(0, 4))
	is.Equal(g.PositionFor(1), pos(8, 4))
	is.Equal(g.WallsFor(0), 10)
	is.Equal(g.WallsFor(1), 10)
	is.Equal(g.PlayerOnTurn(), 0)
	is.Equal(g.GoalRowFor(0), 8)
	is.Equal(g.GoalRowFor(1), 0)
	_, decided := g.Winner()
	is.True(!decided)
	is.Equal(g.HistoryLen(), 0)
	is.Equal(g.NicknameFor(1), "p2")
}

func TestNewBasicGameRulesBounds(t *testing.T) {
	is := is.New(t)
	_, err := NewBasicGameRules(2, 10)
	is.True(err != nil)
	_, err = NewBasicGameRules(27, 10)
	is.True(err != nil)
	_, err = NewBasicGameRules(9, -1)
	is.True(err != nil)
	r, err := NewBasicGameRules(13, 0)
	is.NoErr(err)
	is.Equal(r.BoardDim(), 13)
}

func TestMovePawnFlipsTurn(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.True(g.MovePawn(0, 1, 4))
	is.Equal(g.PlayerOnTurn(), 1)
	is.True(g.MovePawn(1, 7, 4))
	is.Equal(g.PlayerOnTurn(), 0)
	is.Equal(g.HistoryLen(), 2)
	is.Equal(len(g.Turns()), 2)
	is.Equal(g.Turns()[0].ShortDescription(), "e2")
}

func TestMovePawnFailuresDoNotMutate(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	before := snap(g)

	// wrong turn
	is.True(!g.MovePawn(1, 7, 4))
	is.True(errors.Is(g.PlayPawn(1, 7, 4), ErrNotOnTurn))
	// not adjacent
	is.True(errors.Is(g.PlayPawn(0, 2, 4), ErrIllegalPawnMove))
	// off the board
	is.True(!g.MovePawn(0, -1, 4))
	is.True(errors.Is(g.PlayPawn(2, 1, 4), ErrBadPlayer))

	is.True(sameState(before, snap(g)))
	is.Equal(g.HistoryLen(), 0)
}

func TestWinFlipsTurnAndEndsGame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.NoErr(g.SetPositionFor(0, pos(7, 0)))
	is.True(g.MovePawn(0, 8, 0))

	w, decided := g.Winner()
	is.True(decided)
	is.Equal(w, 0)
	// the turn still passes
	is.Equal(g.PlayerOnTurn(), 1)

	is.True(errors.Is(g.PlayPawn(1, 7, 4), ErrGameOver))
	is.True(!g.TryPlaceWall(1, board.Horizontal, 3, 3))

	is.True(g.Undo())
	_, decided = g.Winner()
	is.True(!decided)
	is.Equal(g.PlayerOnTurn(), 0)
}

func TestPlayerOneWinsOnRowZero(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 5)
	is.NoErr(g.SetPositionFor(1, pos(1, 0)))
	is.NoErr(g.SetPlayerOnTurn(1))
	is.True(g.MovePawn(1, 0, 0))
	w, decided := g.Winner()
	is.True(decided)
	is.Equal(w, 1)
}

func TestJumpThroughGame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.NoErr(g.SetPositionFor(0, pos(3, 4)))
	is.NoErr(g.SetPositionFor(1, pos(4, 4)))

	moves := g.LegalMoves(0)
	is.True(containsPos(moves, pos(5, 4)))
	is.True(!containsPos(moves, pos(4, 3)))
	is.True(!containsPos(moves, pos(4, 5)))
	is.True(g.MovePawn(0, 5, 4))
}

func TestDiagonalThroughGame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.NoErr(g.SetPositionFor(0, pos(3, 4)))
	is.NoErr(g.SetPositionFor(1, pos(4, 4)))
	is.NoErr(g.SetPlayerOnTurn(1))
	// player 1 walls the edge from (4,4) to (5,4)
	is.True(g.TryPlaceWall(1, board.Horizontal, 4, 4))

	moves := g.LegalMoves(0)
	is.True(containsPos(moves, pos(4, 3)))
	is.True(containsPos(moves, pos(4, 5)))
	is.True(!containsPos(moves, pos(5, 4)))
	is.True(!g.MovePawn(0, 5, 4))
	is.True(g.MovePawn(0, 4, 5))
}

func containsPos(ps []board.Pos, p board.Pos) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func TestWallRejectionWhenEnclosing(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 5)
	is.NoErr(g.SetPositionFor(0, pos(0, 0)))

	is.True(g.TryPlaceWall(0, board.Horizontal, 1, 0))
	is.True(g.TryPlaceWall(1, board.Horizontal, 3, 3))

	before := snap(g)
	hist := g.HistoryLen()
	// closes the 2x2 box around (0,0)
	err := g.PlaceWall(0, board.Vertical, 0, 1)
	is.True(errors.Is(err, ErrWallBlocksPath))
	is.True(!g.TryPlaceWall(0, board.Vertical, 0, 1))

	is.True(sameState(before, snap(g)))
	is.Equal(g.WallsFor(0), 9)
	is.True(!g.Board().HasSegment(board.Vertical, 0, 1))
	is.Equal(g.HistoryLen(), hist)
	is.Equal(g.PlayerOnTurn(), 0)
}

func TestWallPreconditions(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)

	is.True(errors.Is(g.PlaceWall(1, board.Horizontal, 0, 0), ErrNotOnTurn))
	is.True(errors.Is(g.PlaceWall(0, board.Horizontal, 8, 0), ErrWallPlacement))

	is.NoErr(g.PlaceWall(0, board.Horizontal, 4, 4))
	is.Equal(g.WallsFor(0), 9)
	is.Equal(g.PlayerOnTurn(), 1)
	is.True(errors.Is(g.PlaceWall(1, board.Horizontal, 4, 4), ErrWallPlacement))
	// a crossing wall is accepted
	is.NoErr(g.PlaceWall(1, board.Vertical, 4, 4))

	is.NoErr(g.SetWallsFor(0, 0))
	is.True(errors.Is(g.PlaceWall(0, board.Horizontal, 0, 0), ErrNoWallsLeft))
	is.True(g.CanPlaceWall(board.Horizontal, 0, 0))
}

func TestUndoRoundTrip(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.True(g.MovePawn(0, 1, 4))
	is.True(g.TryPlaceWall(1, board.Vertical, 2, 2))

	actions := []*move.Move{
		move.NewPawnMove(pos(1, 5)),
		move.NewWallMove(board.Horizontal, 6, 1),
		move.NewPawnMove(pos(2, 5)),
	}
	for _, m := range actions {
		is.NoErr(g.PlayMove(m))
		after := snap(g)
		depth := g.HistoryLen()

		is.True(g.Undo())
		is.Equal(g.HistoryLen(), depth-1)
		is.NoErr(g.PlayMove(m))
		is.True(sameState(after, snap(g)))
		is.Equal(g.HistoryLen(), depth)
	}
}

func TestUndoRestoresPreviousState(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.True(!g.Undo())

	s0 := snap(g)
	is.True(g.TryPlaceWall(0, board.Horizontal, 2, 2))
	s1 := snap(g)
	is.True(g.MovePawn(1, 7, 4))

	is.True(g.Undo())
	is.True(sameState(s1, snap(g)))
	is.True(g.Undo())
	is.True(sameState(s0, snap(g)))
	is.True(!g.Undo())
	is.Equal(len(g.Turns()), 0)
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.True(g.MovePawn(0, 1, 4))

	c := g.Copy()
	is.Equal(c.HistoryLen(), 0)
	is.Equal(c.BackupMode(), NoBackup)
	is.Equal(c.PositionKey(), g.PositionKey())

	is.True(c.TryPlaceWall(1, board.Horizontal, 3, 3))
	is.True(c.MovePawn(0, 2, 4))
	is.True(!c.Undo())

	is.Equal(g.PositionFor(0), pos(1, 4))
	is.Equal(g.WallsFor(1), 10)
	is.True(!g.Board().HasSegment(board.Horizontal, 3, 3))
	is.Equal(g.PlayerOnTurn(), 1)
	is.True(c.PositionKey() != g.PositionKey())
}

func TestHistoryCompleteUntilSetUpByHand(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	is.True(g.HistoryComplete())
	is.True(g.MovePawn(0, 1, 4))
	is.True(g.Undo())
	is.True(g.HistoryComplete())
	is.True(!g.Copy().HistoryComplete())

	is.NoErr(g.SetWallsFor(1, 3))
	is.True(!g.HistoryComplete())
	is.True(g.MovePawn(0, 1, 4))
	is.True(!g.HistoryComplete())

	g = newTestGame(t, 9)
	is.NoErr(g.SetPositionFor(0, pos(2, 2)))
	is.True(!g.HistoryComplete())

	g = newTestGame(t, 9)
	is.NoErr(g.SetPlayerOnTurn(1))
	is.True(!g.HistoryComplete())

	g = newTestGame(t, 9)
	g.SetBackupMode(NoBackup)
	is.True(!g.HistoryComplete())
}

func TestPositionKeyTracksSideToMove(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 9)
	k := g.PositionKey()
	is.NoErr(g.SetPlayerOnTurn(1))
	is.True(k != g.PositionKey())
	is.NoErr(g.SetPlayerOnTurn(0))
	is.Equal(k, g.PositionKey())
}

// Random play must never leave a player without a path to their goal, and
// every pawn move must hand the turn over.
func TestRandomPlayKeepsInvariants(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 20; game++ {
		g := newTestGame(t, 5+2*(game%3))
		n := g.Size()
		for ply := 0; ply < 200 && g.Playing(); ply++ {
			mover := g.PlayerOnTurn()
			if rng.Intn(3) == 0 {
				o := board.Orientation(rng.Intn(2))
				wr, wc := rng.Intn(n-1), rng.Intn(n-1)
				walls := g.WallsFor(mover)
				if g.TryPlaceWall(mover, o, wr, wc) {
					is.Equal(g.WallsFor(mover), walls-1)
					for p := 0; p < 2; p++ {
						is.True(pathfinding.HasPath(g.Board(), g.PositionFor(p),
							[]int{g.GoalRowFor(p)}))
					}
					is.Equal(g.PlayerOnTurn(), 1-mover)
				}
				continue
			}
			moves := g.LegalMoves(mover)
			if len(moves) == 0 {
				// boxed in behind the opponent; nothing left to test here
				break
			}
			dest := moves[rng.Intn(len(moves))]
			is.True(g.MovePawn(mover, dest.Row, dest.Col))
			is.True(g.PlayerOnTurn() != mover)
		}
	}
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, 5)
	is.True(g.MovePawn(0, 1, 2))
	txt := g.ToDisplayText()
	is.True(strings.Contains(txt, "p1"))
	is.True(strings.Contains(txt, "walls: 10"))
	is.True(strings.Contains(txt, "Last move: c2"))
	is.True(strings.Contains(txt, "    a   b   c   d   e"))
}
