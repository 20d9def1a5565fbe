package gamerecord

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/wallgame/quoridor/board"
	"github.com/wallgame/quoridor/game"
)

func playedGame(t *testing.T) *game.Game {
	is := is.New(t)
	rules, err := game.NewBasicGameRules(9, 10)
	is.NoErr(err)
	g, err := game.NewGame(rules, []string{"alice", "hal"})
	is.NoErr(err)
	g.SetAIFor(1, true)
	is.True(g.MovePawn(0, 1, 4))
	is.True(g.TryPlaceWall(1, board.Horizontal, 1, 3))
	is.True(g.MovePawn(0, 1, 5))
	is.True(g.TryPlaceWall(1, board.Vertical, 6, 4))
	return g
}

func TestFromGame(t *testing.T) {
	is := is.New(t)
	r, err := FromGame(playedGame(t))
	is.NoErr(err)
	is.Equal(r.Size, 9)
	is.Equal(r.StartingWalls, 10)
	is.Equal(r.Players[0], PlayerRecord{Nickname: "alice"})
	is.Equal(r.Players[1], PlayerRecord{Nickname: "hal", AI: true})
	is.Equal(r.Moves, []string{"e2", "d2h", "f2", "e7v"})
}

func TestWriteReadReplay(t *testing.T) {
	is := is.New(t)
	g := playedGame(t)
	var buf bytes.Buffer
	r, err := FromGame(g)
	is.NoErr(err)
	is.NoErr(r.Write(&buf))
	is.True(strings.Contains(buf.String(), "starting_walls: 10"))

	r, err = Read(&buf)
	is.NoErr(err)
	g2, err := r.Replay()
	is.NoErr(err)

	is.Equal(g2.PositionKey(), g.PositionKey())
	is.True(g2.Board().Equals(g.Board()))
	is.Equal(g2.WallsFor(1), 8)
	is.True(g2.IsAIFor(1))
	is.Equal(g2.HistoryLen(), 4)
}

func TestSaveLoadFile(t *testing.T) {
	is := is.New(t)
	g := playedGame(t)
	fn := filepath.Join(t.TempDir(), "game.yaml")
	is.NoErr(SaveFile(fn, g))
	g2, err := LoadFile(fn)
	is.NoErr(err)
	is.Equal(g2.PositionKey(), g.PositionKey())
}

func TestHandSetUpGameIsNotRecorded(t *testing.T) {
	is := is.New(t)
	g := playedGame(t)
	is.NoErr(g.SetPositionFor(1, board.Pos{Row: 4, Col: 0}))
	is.True(g.MovePawn(0, 2, 5))

	_, err := FromGame(g)
	is.True(errors.Is(err, ErrPartialHistory))

	fn := filepath.Join(t.TempDir(), "game.yaml")
	is.True(errors.Is(SaveFile(fn, g), ErrPartialHistory))
	_, err = os.Stat(fn)
	is.True(os.IsNotExist(err))
}

func TestReplayRejectsIllegalMove(t *testing.T) {
	is := is.New(t)
	r := &GameRecord{
		Size: 9, StartingWalls: 10,
		Players: []PlayerRecord{{Nickname: "a"}, {Nickname: "b"}},
		Moves:   []string{"e2", "e3"},
	}
	_, err := r.Replay()
	is.True(errors.Is(err, ErrBadRecord))
	is.True(errors.Is(err, game.ErrIllegalPawnMove))
	is.True(strings.Contains(err.Error(), "move 2"))
}

func TestReplayRejectsBadHeader(t *testing.T) {
	is := is.New(t)
	_, err := (&GameRecord{Size: 1, Players: []PlayerRecord{{}, {}}}).Replay()
	is.True(errors.Is(err, ErrBadRecord))
	_, err = (&GameRecord{Size: 9}).Replay()
	is.True(errors.Is(err, ErrBadRecord))
	_, err = Read(strings.NewReader("size: [oops"))
	is.True(errors.Is(err, ErrBadRecord))
}
